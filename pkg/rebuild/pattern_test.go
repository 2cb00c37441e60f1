package rebuild

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

var extra = []types.Identifier{"BUILD_OS", "BUILD_TIME"}

func unconditional(outDir string) []types.Trigger {
	return []types.Trigger{
		types.EnvTrigger("BUILD_OS"),
		types.EnvTrigger("BUILD_TIME"),
		types.EnvTrigger("SOURCE_DATE_EPOCH"),
		types.PathTrigger(filepath.Join(outDir, OutputFileName)),
	}
}

func TestLazyDebugEmitsOnlyUnconditional(t *testing.T) {
	got := LazyPattern().DeclareTriggers(extra, "gen", true)
	assert.Equal(t, unconditional("gen"), got)
}

func TestLazyReleaseMatchesRealTime(t *testing.T) {
	lazy := LazyPattern().DeclareTriggers(extra, "gen", false)
	realtime := RealTimePattern().DeclareTriggers(extra, "gen", false)
	assert.Equal(t, realtime, lazy)
}

func TestRealTimeIgnoresProfile(t *testing.T) {
	assert.Equal(t,
		RealTimePattern().DeclareTriggers(extra, "gen", true),
		RealTimePattern().DeclareTriggers(extra, "gen", false))
	assert.Equal(t, unconditional("gen"), RealTimePattern().DeclareTriggers(extra, "gen", true))
}

func TestCustomDeclaresConfiguredSignals(t *testing.T) {
	p := CustomPattern([]string{"src/a.rs"}, []string{"MY_VAR"})
	got := p.DeclareTriggers(extra, "gen", true)

	want := append([]types.Trigger{
		types.EnvTrigger("MY_VAR"),
		types.PathTrigger("src/a.rs"),
	}, unconditional("gen")...)
	assert.Equal(t, want, got)

	paths, envs := 0, 0
	for _, tr := range got {
		if tr == types.PathTrigger("src/a.rs") {
			paths++
		}
		if tr == types.EnvTrigger("MY_VAR") {
			envs++
		}
	}
	assert.Equal(t, 1, paths)
	assert.Equal(t, 1, envs)
}

func TestCustomPreservesCallerOrder(t *testing.T) {
	p := CustomPattern([]string{"z.txt", "a.txt"}, []string{"ZED", "ALPHA"})
	got := p.DeclareTriggers(nil, ".", false)

	require.GreaterOrEqual(t, len(got), 4)
	assert.Equal(t, []types.Trigger{
		types.EnvTrigger("ZED"),
		types.EnvTrigger("ALPHA"),
		types.PathTrigger("z.txt"),
		types.PathTrigger("a.txt"),
	}, got[:4])
}

func TestCustomPatternCopiesInput(t *testing.T) {
	paths := []string{"a"}
	p := CustomPattern(paths, nil)
	paths[0] = "mutated"
	assert.Equal(t, []string{"a"}, p.IfPathChanged)
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"":          Lazy,
		"lazy":      Lazy,
		"RealTime":  RealTime,
		"real-time": RealTime,
		"custom":    Custom,
	}
	for in, want := range tests {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		assert.Equal(t, want.String(), got.String())
	}

	_, err := ParseMode("eager")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
