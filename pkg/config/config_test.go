package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/buildtiming/pkg/env"
	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/hooks"
	"github.com/arthur-debert/buildtiming/pkg/rebuild"
	"github.com/arthur-debert/buildtiming/pkg/testutil"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	return testutil.CreateFile(t, dir, name, content)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{ProjectDir: t.TempDir(), SkipUser: true})
	require.NoError(t, err)

	assert.Equal(t, "lazy", cfg.Pattern)
	assert.Equal(t, []string{"BUILD_OS"}, cfg.Allow)
	assert.Empty(t, cfg.OutDir)
	assert.Empty(t, cfg.Constants)
	assert.Empty(t, cfg.Sources)
	assert.False(t, cfg.Debug)
}

func TestLoadProjectTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "buildtiming.toml", `
out_dir = "internal/buildinfo"
package = "buildinfo"
pattern = "custom"
if_path_changed = ["VERSION"]
if_env_changed = ["RELEASE"]
allow = ["BUILD_OS", "BUILD_TIME"]

[[constants]]
name = "GREETING"
value = "hello"
description = "Greeting."

[[constants]]
name = "MSG"
kind = "template"
value = "say {GREETING}"

[[constants]]
name = "RETRIES"
kind = "uint"
value = 3

[[constants]]
name = "FEATURE"
kind = "bool"
value = true
`)

	cfg, err := Load(LoadOptions{ProjectDir: dir, SkipUser: true})
	require.NoError(t, err)

	assert.Equal(t, "internal/buildinfo", cfg.OutDir)
	assert.Equal(t, "buildinfo", cfg.Package)
	assert.Equal(t, []string{path}, cfg.Sources)
	assert.Equal(t, []types.Identifier{"BUILD_OS", "BUILD_TIME"}, cfg.AllowList())

	pattern, err := cfg.RebuildPattern()
	require.NoError(t, err)
	assert.Equal(t, rebuild.Custom, pattern.Mode)
	assert.Equal(t, []string{"VERSION"}, pattern.IfPathChanged)
	assert.Equal(t, []string{"RELEASE"}, pattern.IfEnvChanged)

	require.Len(t, cfg.Constants, 4)
	assert.Equal(t, "3", cfg.Constants[2].Value)
	assert.Equal(t, "true", cfg.Constants[3].Value)
}

func TestLoadProjectYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "buildtiming.yaml", `
pattern: realtime
constants:
  - name: APP
    value: demo
`)

	cfg, err := Load(LoadOptions{ProjectDir: dir, SkipUser: true})
	require.NoError(t, err)
	assert.Equal(t, "realtime", cfg.Pattern)
	require.Len(t, cfg.Constants, 1)
	assert.Equal(t, "APP", cfg.Constants[0].Name)
}

func TestLoadPrecedence(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	require.NoError(t, os.MkdirAll(filepath.Join(configHome, "buildtiming"), 0755))
	writeFile(t, filepath.Join(configHome, "buildtiming"), "config.toml", `
pattern = "realtime"
package = "fromuser"
skip_unchanged = true
`)

	dir := t.TempDir()
	writeFile(t, dir, ".buildtiming.toml", `package = "fromproject"`)

	t.Setenv("BUILDTIMING_OUT_DIR", "/tmp/fromenv")
	t.Setenv("BUILDTIMING_ALLOW", "BUILD_OS,GO_VERSION")

	cfg, err := Load(LoadOptions{ProjectDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "realtime", cfg.Pattern)
	assert.Equal(t, "fromproject", cfg.Package)
	assert.True(t, cfg.SkipUnchanged)
	assert.Equal(t, "/tmp/fromenv", cfg.OutDir)
	assert.Equal(t, []string{"BUILD_OS", "GO_VERSION"}, cfg.Allow)
	assert.Len(t, cfg.Sources, 2)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "buildtiming.toml", `
package = "fromproject"
out_dir = "meta"
`)
	t.Setenv("BUILDTIMING_PACKAGE", "fromenv")

	cfg, err := Load(LoadOptions{
		ProjectDir: dir,
		SkipUser:   true,
		Overrides: map[string]interface{}{
			"package": "fromflag",
			"allow":   []string{"BUILD_OS", "BUILD_TIME"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "fromflag", cfg.Package)
	assert.Equal(t, "meta", cfg.OutDir)
	assert.Equal(t, []string{"BUILD_OS", "BUILD_TIME"}, cfg.Allow)

	_, err = Load(LoadOptions{
		ProjectDir: dir,
		SkipUser:   true,
		Overrides:  map[string]interface{}{"pattern": "sometimes"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.toml", `package = "explicit"`)

	cfg, err := Load(LoadOptions{File: path, SkipUser: true})
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Package)

	_, err = Load(LoadOptions{File: filepath.Join(dir, "missing.toml"), SkipUser: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoadParseError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "buildtiming.toml", `pattern = [`)

	_, err := Load(LoadOptions{ProjectDir: dir, SkipUser: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"unknown pattern", `pattern = "sometimes"`, "unknown pattern"},
		{"bad package", `package = "my-pkg"`, "not a valid Go identifier"},
		{"bad allow entry", `allow = ["1ABC"]`, "allow[0]"},
		{"unnamed constant", "[[constants]]\nvalue = \"x\"", "constants[0].name is required"},
		{"unknown kind", "[[constants]]\nname = \"X\"\nkind = \"float\"", "unknown kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "buildtiming.toml", tt.content)

			_, err := Load(LoadOptions{ProjectDir: dir, SkipUser: true})
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestHooks(t *testing.T) {
	cfg := &Config{Constants: []Constant{
		{Name: "GREETING", Value: "hello"},
		{Name: "MSG", Kind: "template", Value: "say {GREETING}"},
		{Name: "CHANNEL", Env: "CHANNEL", Value: "dev"},
		{Name: "COUNT", Kind: "uint", Value: "3"},
	}}

	hs, err := cfg.Hooks()
	require.NoError(t, err)
	require.Len(t, hs, 4)

	assert.IsType(t, &hooks.StaticHook{}, hs[0])
	assert.IsType(t, &hooks.TemplateHook{}, hs[1])
	assert.IsType(t, &hooks.EnvHook{}, hs[2])
	assert.Equal(t, []string{"CHANNEL"}, hs[2].(*hooks.EnvHook).Variables())

	snap, err := env.Capture(env.WithEnviron([]string{}))
	require.NoError(t, err)
	ctx := types.NewResolveContext(snap, []types.Identifier{"CHANNEL"})
	v, err := hs[2].Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dev", v.Raw)

	v, err = hs[3].Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.KindUint, v.Kind)
}

func TestHooksRejectsEnvTemplate(t *testing.T) {
	cfg := &Config{Constants: []Constant{{Name: "X", Kind: "template", Env: "X"}}}
	_, err := cfg.Hooks()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "FROM_FILE=yes\n")

	cfg := &Config{EnvFile: path, Debug: true}
	snap, err := cfg.Snapshot(env.WithEnviron([]string{"OTHER=1"}))
	require.NoError(t, err)

	v, ok := snap.Getenv("FROM_FILE")
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
	assert.True(t, snap.Debug())
}

func TestGenerateConfigContent(t *testing.T) {
	content, err := GenerateConfigContent(false)
	require.NoError(t, err)
	assert.Contains(t, content, "[[constants]]")
	assert.Contains(t, content, "USER_AGENT")

	dir := t.TempDir()
	writeFile(t, dir, "buildtiming.toml", content)
	cfg, err := Load(LoadOptions{ProjectDir: dir, SkipUser: true})
	require.NoError(t, err)
	assert.Len(t, cfg.Constants, 3)

	commented, err := GenerateConfigContent(true)
	require.NoError(t, err)
	k := koanf.New(".")
	require.NoError(t, k.Load(&rawBytesProvider{bytes: []byte(commented)}, toml.Parser()))
	assert.Empty(t, k.Keys())
}

func TestCommentOutConfigValues(t *testing.T) {
	in := "# header\n\n[section]\nkey = 1\n[[constants]]\n  name = 'X'\n"
	want := "# header\n\n[section]\n# key = 1\n# [[constants]]\n#   name = 'X'\n"
	assert.Equal(t, want, commentOutConfigValues(in))
}
