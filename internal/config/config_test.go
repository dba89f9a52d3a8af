package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRuntimeConfigValidateAcceptsConsistentDisabled(t *testing.T) {
	cfg := RuntimeConfig{PersistenceEnabled: false, DBSource: DBSourceDisabled, DBPath: ""}
	require.NoError(t, cfg.validate())
}

func TestRuntimeConfigValidateAcceptsConsistentEnabled(t *testing.T) {
	cfg := RuntimeConfig{PersistenceEnabled: true, DBSource: DBSourceAuto, DBPath: "/x/aura.db", RetentionSeconds: 60}
	require.NoError(t, cfg.validate())
}

func TestRuntimeConfigValidateRejectsInconsistentSource(t *testing.T) {
	cfg := RuntimeConfig{PersistenceEnabled: true, DBSource: DBSourceDisabled, DBPath: "/x/aura.db", RetentionSeconds: 60}
	require.Error(t, cfg.validate())
}

func TestRuntimeConfigValidateRejectsInconsistentPath(t *testing.T) {
	cfg := RuntimeConfig{PersistenceEnabled: true, DBSource: DBSourceAuto, DBPath: "", RetentionSeconds: 60}
	require.Error(t, cfg.validate())
}

func TestRuntimeConfigValidateRejectsBadRetentionWhenEnabled(t *testing.T) {
	cfg := RuntimeConfig{PersistenceEnabled: true, DBSource: DBSourceAuto, DBPath: "/x/aura.db", RetentionSeconds: 0}
	require.Error(t, cfg.validate())
}
