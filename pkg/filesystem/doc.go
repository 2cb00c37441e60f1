// Package filesystem provides the filesystems buildtiming writes through.
//
// Production code uses the OS filesystem; tests swap in an in-memory one.
// Both are afero filesystems, so WriteAtomic behaves identically on each.
package filesystem
