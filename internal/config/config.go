// Package config resolves Aura's RuntimeConfig from four layers — CLI
// flags, environment variables, a TOML-shaped user config file, and
// platform defaults — and fails fast on any invalid value rather than
// silently falling through to the next layer.
package config

import "github.com/aura-systems/aura/internal/errs"

// DBSource tags which layer decided the effective db path.
type DBSource string

const (
	DBSourceCLI      DBSource = "cli"
	DBSourceEnv      DBSource = "env"
	DBSourceConfig   DBSource = "config"
	DBSourceAuto     DBSource = "auto"
	DBSourceDisabled DBSource = "disabled"
)

// DefaultRetentionSeconds is the platform default retention horizon (24h)
// used when no layer specifies one.
const DefaultRetentionSeconds = 24 * 60 * 60

// RuntimeConfig is the immutable, fully-resolved configuration read once at
// startup. No component mutates it afterward.
type RuntimeConfig struct {
	PersistenceEnabled bool
	RetentionSeconds   float64
	DBSource           DBSource
	DBPath             string
}

func (c RuntimeConfig) validate() error {
	const op = "config.Validate"
	if c.PersistenceEnabled != (c.DBSource != DBSourceDisabled) {
		return errs.New(op, errs.InvalidArgument, errInconsistentPersistence)
	}
	if c.PersistenceEnabled != (c.DBPath != "") {
		return errs.New(op, errs.InvalidArgument, errInconsistentPersistence)
	}
	if c.PersistenceEnabled && (c.RetentionSeconds <= 0 || !finite(c.RetentionSeconds)) {
		return errs.New(op, errs.InvalidArgument, errBadRetention)
	}
	return nil
}

type configError string

func (e configError) Error() string { return string(e) }

const (
	errInconsistentPersistence = configError("persistence_enabled must be consistent with db_source and db_path")
	errBadRetention            = configError("retention_seconds must be positive and finite when persistence is enabled")
)
