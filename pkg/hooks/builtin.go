package hooks

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arthur-debert/buildtiming/pkg/env"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// Built-in constant identifiers
const (
	BuildOS       types.Identifier = "BUILD_OS"
	BuildTime     types.Identifier = "BUILD_TIME"
	BuildTime3339 types.Identifier = "BUILD_TIME_3339"
	GoVersion     types.Identifier = "GO_VERSION"
	BuildDebug    types.Identifier = "BUILD_DEBUG"
	BuildID       types.Identifier = "BUILD_ID"
)

const buildOSDoc = `Operating system and architecture the project was built for.
Always formatted as os-arch, using the GOOS and GOARCH names
(for example linux-amd64 or darwin-arm64).`

const buildTimeDoc = `Time the project was built, in RFC 2822 format.
Honours SOURCE_DATE_EPOCH for reproducible builds.`

const buildTime3339Doc = `Time the project was built, in RFC 3339 format.`

const goVersionDoc = `Version of the Go toolchain that generated this file.`

const buildDebugDoc = `Whether the project was built with the debug profile.`

const buildIDDoc = `Deterministic identifier of this build, derived from the
target platform and the build time.`

// buildIDNamespace scopes BUILD_ID so it never collides with other UUIDv5 users
var buildIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/arthur-debert/buildtiming"))

var builtins = map[types.Identifier]func(ctx *types.ResolveContext) (types.Value, error){
	BuildOS: func(ctx *types.ResolveContext) (types.Value, error) {
		goos, goarch := ctx.Env.Platform()
		return types.StringValue(buildOSDoc, goos+"-"+goarch), nil
	},
	BuildTime: func(ctx *types.ResolveContext) (types.Value, error) {
		t, err := env.BuildTime(ctx.Env)
		if err != nil {
			return types.Value{}, err
		}
		return types.StringValue(buildTimeDoc, t.Format(env.RFC2822)), nil
	},
	BuildTime3339: func(ctx *types.ResolveContext) (types.Value, error) {
		t, err := env.BuildTime(ctx.Env)
		if err != nil {
			return types.Value{}, err
		}
		return types.StringValue(buildTime3339Doc, t.Format(time.RFC3339)), nil
	},
	GoVersion: func(ctx *types.ResolveContext) (types.Value, error) {
		return types.StringValue(goVersionDoc, ctx.Env.GoVersion()), nil
	},
	BuildDebug: func(ctx *types.ResolveContext) (types.Value, error) {
		return types.BoolValue(buildDebugDoc, ctx.Env.Debug()), nil
	},
	BuildID: func(ctx *types.ResolveContext) (types.Value, error) {
		t, err := env.BuildTime(ctx.Env)
		if err != nil {
			return types.Value{}, err
		}
		goos, goarch := ctx.Env.Platform()
		seed := fmt.Sprintf("%s-%s@%d", goos, goarch, t.UnixNano())
		return types.StringValue(buildIDDoc, uuid.NewSHA1(buildIDNamespace, []byte(seed)).String()), nil
	},
}

// Builtin returns the built-in hook for name
func Builtin(name types.Identifier) (types.Hook, bool) {
	fn, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return Func(name, fn), true
}

// BuiltinNames lists every built-in identifier in sorted order
func BuiltinNames() []types.Identifier {
	names := make([]types.Identifier, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	types.SortIdentifiers(names)
	return names
}

// Volatile reports whether the built-in name derives its value from the
// build time, so it differs on every run that does not pin SOURCE_DATE_EPOCH
func Volatile(name types.Identifier) bool {
	switch name {
	case BuildTime, BuildTime3339, BuildID:
		return true
	}
	return false
}

// DefaultAllow is the set of built-ins emitted when nothing else is configured
func DefaultAllow() []types.Identifier {
	return []types.Identifier{BuildOS}
}
