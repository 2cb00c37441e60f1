package stamp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/buildtiming/pkg/env"
	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/filesystem"
	"github.com/arthur-debert/buildtiming/pkg/testutil"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

func snapshot(t *testing.T, environ ...string) *env.Snapshot {
	t.Helper()
	return testutil.Snapshot(t, testutil.Environ(environ...))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	testutil.CreateFile(t, filepath.Dir(path), filepath.Base(path), content)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")

	triggers := []types.Trigger{types.EnvTrigger("MY_VAR"), types.PathTrigger("a.txt")}
	m, err := Record(triggers, snapshot(t, "MY_VAR=1"), dir)
	require.NoError(t, err)

	m.Seal("sha256:constants", []byte("package gen\n"))

	fsys := filesystem.NewOS()
	path := Path(dir)
	require.NoError(t, m.Save(fsys, path))

	loaded, err := Load(fsys, path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
	assert.Equal(t, triggers, loaded.Triggers())
	assert.True(t, loaded.Equivalent(triggers))
	assert.False(t, loaded.Equivalent(triggers[:1]))
	assert.True(t, loaded.Matches("sha256:constants", []byte("package gen\n")))
}

func TestSaveCreatesDirectoryOnFS(t *testing.T) {
	fsys := filesystem.NewMemory()
	m, err := Record([]types.Trigger{types.EnvTrigger("MY_VAR")}, snapshot(t), ".")
	require.NoError(t, err)

	path := Path("/gen/out")
	require.NoError(t, m.Save(fsys, path))

	loaded, err := Load(fsys, path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestMatchesDetectsContentAndOutputDrift(t *testing.T) {
	m := &Manifest{Version: Version}
	m.Seal("sha256:old", []byte("const GREETING = \"old\""))

	assert.True(t, m.Matches("sha256:old", []byte("const GREETING = \"old\"")))
	assert.False(t, m.Matches("sha256:new", []byte("const GREETING = \"old\"")))
	assert.False(t, m.Matches("sha256:old", []byte("const GREETING = \"edited\"")))
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	fsys := filesystem.NewOS()

	_, err := Load(fsys, filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrStampRead))

	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "version = [")
	_, err = Load(fsys, bad)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStampRead))

	old := filepath.Join(dir, "old.toml")
	writeFile(t, old, "version = 1\n")
	_, err = Load(fsys, old)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStampRead))
}

func TestEvaluateUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "a.go"), "package a")

	triggers := []types.Trigger{
		types.EnvTrigger("MY_VAR"),
		types.EnvTrigger("UNSET_VAR"),
		types.PathTrigger("src"),
		types.PathTrigger("src/a.go"),
		types.PathTrigger("src/**/*.go"),
		types.PathTrigger("missing.txt"),
	}
	m, err := Record(triggers, snapshot(t, "MY_VAR=1"), dir)
	require.NoError(t, err)

	changes, err := Evaluate(m, snapshot(t, "MY_VAR=1"), dir)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestEvaluateEnvChanges(t *testing.T) {
	dir := t.TempDir()
	triggers := []types.Trigger{types.EnvTrigger("A"), types.EnvTrigger("B"), types.EnvTrigger("C")}
	m, err := Record(triggers, snapshot(t, "A=1", "B=2"), dir)
	require.NoError(t, err)

	changes, err := Evaluate(m, snapshot(t, "A=changed", "C=new"), dir)
	require.NoError(t, err)
	assert.Equal(t, []Change{
		{Trigger: types.EnvTrigger("A"), Reason: "changed"},
		{Trigger: types.EnvTrigger("B"), Reason: "removed"},
		{Trigger: types.EnvTrigger("C"), Reason: "added"},
	}, changes)
}

func TestEvaluatePathChanges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "a.go"), "package a")
	writeFile(t, filepath.Join(dir, "gen", "buildtiming_gen.go"), "package gen")

	triggers := []types.Trigger{
		types.PathTrigger("src/**/*.go"),
		types.PathTrigger("gen/buildtiming_gen.go"),
	}
	m, err := Record(triggers, snapshot(t), dir)
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, "src", "sub", "b.go"), "package sub")
	require.NoError(t, os.Remove(filepath.Join(dir, "gen", "buildtiming_gen.go")))

	changes, err := Evaluate(m, snapshot(t), dir)
	require.NoError(t, err)
	assert.Equal(t, []Change{
		{Trigger: types.PathTrigger("src/**/*.go"), Reason: "changed"},
		{Trigger: types.PathTrigger("gen/buildtiming_gen.go"), Reason: "removed"},
	}, changes)
}

func TestDirectoryFingerprintTracksContents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "assets", "x.txt"), "1")

	m, err := Record([]types.Trigger{types.PathTrigger("assets")}, snapshot(t), dir)
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, "assets", "x.txt"), "2")

	changes, err := Evaluate(m, snapshot(t), dir)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "changed", changes[0].Reason)
}

func TestAbsolutePathsIgnoreBaseDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "abs.txt")
	writeFile(t, file, "x")

	m, err := Record([]types.Trigger{types.PathTrigger(file)}, snapshot(t), "/somewhere/else")
	require.NoError(t, err)
	assert.NotEqual(t, absent, m.Entries[0].Fingerprint)
}
