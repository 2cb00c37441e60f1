// Package config loads buildtiming configuration.
//
// Sources are layered with koanf, later sources overriding earlier ones:
//
//  1. Embedded defaults (embedded/defaults.toml)
//  2. User file: $XDG_CONFIG_HOME/buildtiming/config.toml
//  3. Project file: buildtiming.toml, .buildtiming.toml or buildtiming.yaml
//  4. Environment variables prefixed with BUILDTIMING_
//
// The merged tree is decoded with mapstructure and validated with
// go-playground/validator. Constants declared in the project file become
// hooks through Config.Hooks.
package config
