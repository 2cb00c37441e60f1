// Package core implements the generation step: it assembles the constant
// set, resolves it, renders the generated Go file, declares the rebuild
// triggers and hands everything to the writer and the notifier.
//
// # Pipeline
//
//  1. Resolve the output directory (option, BUILDTIMING_OUT_DIR, OUT_DIR)
//  2. Assemble the constant set: BUILD_OS, allowed built-ins, caller hooks
//  3. Resolve every hook (non-templates first, then templates)
//  4. Render the Go source in memory
//  5. Declare rebuild triggers from the configured pattern
//  6. Write the file, print the triggers, record the stamp
//
// Any failure in steps 1-5 aborts the run before anything is written, so a
// previous output is left untouched for the next attempt.
//
// # Rebuild decisions
//
// The pattern only chooses which triggers are declared. With SkipUnchanged
// the stamp manifest written by the previous run is compared with the new
// plan, and the write is skipped only when the emitted constants, the file
// on disk and every watched signal are the same. Force always writes.
package core
