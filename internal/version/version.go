package version

import (
	"fmt"
	"runtime/debug"
)

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/buildtiming/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/buildtiming/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/buildtiming/internal/version.Date={{.Date}}
)

// Info returns the version, falling back to the module version recorded
// by "go install" when ldflags were not applied
func Info() (ver, commit, date string) {
	ver, commit, date = Version, Commit, Date
	if ver != "dev" {
		return ver, commit, date
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		ver = bi.Main.Version
	}
	return ver, commit, date
}

// String formats the version block printed by the version command
func String() string {
	ver, commit, date := Info()
	return fmt.Sprintf("buildtiming version %s\n  commit: %s\n  built:  %s\n", ver, commit, date)
}
