package weave

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := resolveConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.iterations)
	assert.Equal(t, 0, cfg.maxStepsPerIteration)
	assert.Equal(t, 100, cfg.fairRandomStreakBound)
	assert.True(t, cfg.stopOnFirstBug)
	assert.IsType(t, &RandomStrategy{}, cfg.strategy)
	assert.NotNil(t, cfg.hooks)
}

func TestResolveConfig_WithHooksOverridesLoggerDerivedDefault(t *testing.T) {
	custom := &Hooks{}
	cfg, err := resolveConfig([]Option{WithLogger(NewNoOpLogger()), WithHooks(custom)})
	require.NoError(t, err)
	assert.Same(t, custom, cfg.hooks)
}

func TestResolveConfig_ReplayTraceForcesReplayStrategyAndSingleIteration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.json")
	trace := ScheduleTrace{Entries: []TraceEntry{{Kind: TraceBooleanChoice, BoolValue: true}}}
	require.NoError(t, trace.SaveToFile(path))

	cfg, err := resolveConfig([]Option{WithIterations(50), WithReplayTrace(path)})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.iterations)
	assert.IsType(t, &ReplayStrategy{}, cfg.strategy)
}

func TestResolveConfig_ReplayTraceMissingFileErrors(t *testing.T) {
	_, err := resolveConfig([]Option{WithReplayTrace(filepath.Join(t.TempDir(), "missing.json"))})
	require.Error(t, err)
}

func TestWithIterations_ClampsBelowOne(t *testing.T) {
	cfg, err := resolveConfig([]Option{WithIterations(-5)})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.iterations)
}

func TestWithFairRandomStreakBound_ClampsBelowOne(t *testing.T) {
	cfg, err := resolveConfig([]Option{WithFairRandomStreakBound(0)})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.fairRandomStreakBound)
}

func TestScheduleTrace_SaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.json")
	trace := ScheduleTrace{Entries: []TraceEntry{
		{Kind: TraceNextOperation, OperationID: 3},
		{Kind: TraceBooleanChoice, BoolValue: true},
		{Kind: TraceIntegerChoice, IntValue: 5},
	}}
	require.NoError(t, trace.SaveToFile(path))

	loaded, err := LoadScheduleTrace(path)
	require.NoError(t, err)
	assert.Equal(t, trace, loaded)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
