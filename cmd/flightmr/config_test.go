package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFlowConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "version": "v1",
  "source": {"type": "sql", "db": {"driver": "sqlite", "path": "flights.db"}, "sql": {"orderby": "id"}},
  "transform": {"tasks": [3, 1], "join_miss": "unknown"},
  "sink": {"type": "redis", "redis": {"port": 6380}, "redis_config": {"replace": true}}
}`), 0o644))

	cfg, err := resolveFlowConfig(path)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Source.DB.Driver)
	require.Equal(t, "id", cfg.Source.SQL.OrderBy)
	require.Equal(t, []int{3, 1}, cfg.Transform.Tasks)
	require.Equal(t, 6380, cfg.Sink.Redis.Port)
	require.True(t, cfg.Sink.RedisConfig.Replace)
}

func TestLoadFlowConfigRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "v1", "reducers": 8}`), 0o644))
	_, err := loadFlowConfig(path)
	require.ErrorContains(t, err, "unknown field")
}

func TestResolveFlowConfigFromEnv(t *testing.T) {
	t.Setenv("FLIGHTMR_FLIGHTS", "f.csv")
	t.Setenv("FLIGHTMR_AIRPORTS", "a.csv")
	t.Setenv("FLIGHTMR_OUT_DIR", "out")
	t.Setenv("FLIGHTMR_DUMP_INTERMEDIATE", "true")
	t.Setenv("FLIGHTMR_JOIN_MISS", "")

	cfg, err := resolveFlowConfig("")
	require.NoError(t, err)
	require.Equal(t, "f.csv", cfg.Source.CSV.Flights)
	require.Equal(t, "a.csv", cfg.Source.CSV.Airports)
	require.Equal(t, "out", cfg.Sink.CSV.OutputDir)
	require.True(t, cfg.Transform.DumpIntermediate)

	t.Setenv("FLIGHTMR_JOIN_MISS", "ignore")
	_, err = resolveFlowConfig("")
	require.ErrorContains(t, err, "join_miss")
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("FLIGHTMR_TEST_BOOL", "nope")
	require.True(t, getenvBool("FLIGHTMR_TEST_BOOL", true))
	t.Setenv("FLIGHTMR_TEST_BOOL", "false")
	require.False(t, getenvBool("FLIGHTMR_TEST_BOOL", true))
	require.Equal(t, "d", getenvDefault("FLIGHTMR_TEST_UNSET", "d"))
}

func TestExampleConfigs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "example", "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, p := range paths {
		t.Run(filepath.Base(p), func(t *testing.T) {
			_, err := resolveFlowConfig(p)
			require.NoError(t, err)
		})
	}
}
