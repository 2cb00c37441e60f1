// Package hooks provides the stock Hook implementations: static values,
// environment-derived values, caller functions, templates, and the
// built-in build constants (BUILD_OS and friends).
//
// Hooks are values, not a class hierarchy. Anything implementing
// types.Hook can be registered next to them.
package hooks
