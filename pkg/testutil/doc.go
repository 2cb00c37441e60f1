// Package testutil provides fixtures shared by the buildtiming test suites.
//
// Snapshot returns a deterministic environment (fixed platform, toolchain
// and clock, empty process environment) so generated sources can be
// compared byte for byte. The file helpers fail the test on any I/O error.
package testutil
