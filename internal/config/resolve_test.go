package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeEnv map[string]string

func (f fakeEnv) Lookup(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

func TestResolveNoPersistOverridesEverything(t *testing.T) {
	cli := CLIOverrides{NoPersist: true, DBPathSet: true, DBPath: "/should/be/ignored"}
	cfg, err := Resolve(cli, fakeEnv{envDBPath: "/also/ignored"}, "")
	require.NoError(t, err)
	require.False(t, cfg.PersistenceEnabled)
	require.Equal(t, DBSourceDisabled, cfg.DBSource)
	require.Equal(t, "", cfg.DBPath)
}

func TestResolveCLIBeatsEverything(t *testing.T) {
	cli := CLIOverrides{DBPathSet: true, DBPath: "/cli/path.db", RetentionSecondsSet: true, RetentionSeconds: 120}
	cfg, err := Resolve(cli, fakeEnv{envDBPath: "/env/path.db", envRetentionSeconds: "600"}, "")
	require.NoError(t, err)
	require.True(t, cfg.PersistenceEnabled)
	require.Equal(t, DBSourceCLI, cfg.DBSource)
	require.Equal(t, "/cli/path.db", cfg.DBPath)
	require.Equal(t, 120.0, cfg.RetentionSeconds)
}

func TestResolveEnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[persistence]
db_path = "/config/path.db"
retention_seconds = 300
`), 0o644))

	cfg, err := Resolve(CLIOverrides{}, fakeEnv{envDBPath: "/env/path.db", envRetentionSeconds: "600"}, path)
	require.NoError(t, err)
	require.Equal(t, DBSourceEnv, cfg.DBSource)
	require.Equal(t, "/env/path.db", cfg.DBPath)
	require.Equal(t, 600.0, cfg.RetentionSeconds)
}

func TestResolveConfigFileBeatsPlatformDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[persistence]
db_path = "/config/path.db"
retention_seconds = 300
`), 0o644))

	cfg, err := Resolve(CLIOverrides{}, fakeEnv{}, path)
	require.NoError(t, err)
	require.Equal(t, DBSourceConfig, cfg.DBSource)
	require.Equal(t, "/config/path.db", cfg.DBPath)
	require.Equal(t, 300.0, cfg.RetentionSeconds)
}

func TestResolveFallsBackToPlatformDefault(t *testing.T) {
	cfg, err := Resolve(CLIOverrides{}, fakeEnv{}, "")
	require.NoError(t, err)
	require.Equal(t, DBSourceAuto, cfg.DBSource)
	require.NotEmpty(t, cfg.DBPath)
	require.Equal(t, float64(DefaultRetentionSeconds), cfg.RetentionSeconds)
}

func TestResolveRejectsEmptyCLIDBPath(t *testing.T) {
	_, err := Resolve(CLIOverrides{DBPathSet: true, DBPath: ""}, fakeEnv{}, "")
	require.Error(t, err)
}

func TestResolveRejectsNonPositiveRetention(t *testing.T) {
	_, err := Resolve(CLIOverrides{RetentionSecondsSet: true, RetentionSeconds: 0}, fakeEnv{}, "")
	require.Error(t, err)

	_, err = Resolve(CLIOverrides{RetentionSecondsSet: true, RetentionSeconds: -5}, fakeEnv{}, "")
	require.Error(t, err)
}

func TestResolveRejectsUnparseableEnvRetention(t *testing.T) {
	_, err := Resolve(CLIOverrides{}, fakeEnv{envRetentionSeconds: "not-a-number"}, "")
	require.Error(t, err)
}

func TestResolveIgnoresMissingConfigFile(t *testing.T) {
	cfg, err := Resolve(CLIOverrides{}, fakeEnv{}, filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, DBSourceAuto, cfg.DBSource)
}
