package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/aura-systems/aura/internal/errs"
)

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// CLIOverrides carries only the flags the user actually set; the "Set"
// companions distinguish "not provided" from "provided as the zero value".
type CLIOverrides struct {
	NoPersist bool

	DBPath    string
	DBPathSet bool

	RetentionSeconds    float64
	RetentionSecondsSet bool
}

// fileConfig mirrors the TOML-shaped user config file's [persistence] table.
type fileConfig struct {
	Persistence struct {
		DBPath           string   `toml:"db_path"`
		RetentionSeconds *float64 `toml:"retention_seconds"` // nil when the key is absent
	} `toml:"persistence"`
}

// Env is the subset of environment lookups Resolve needs, so tests can
// inject a fake environment instead of mutating the process's real one.
type Env interface {
	Lookup(key string) (string, bool)
}

// osEnv is the production Env, backed by os.LookupEnv.
type osEnv struct{}

func (osEnv) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// OSEnv is the production Env implementation.
func OSEnv() Env { return osEnv{} }

const (
	envDBPath           = "AURA_DB_PATH"
	envRetentionSeconds = "AURA_RETENTION_SECONDS"
)

// Resolve layers CLI > env > config file > platform default into a
// validated RuntimeConfig. configFilePath may be "" to mean "no user config
// file present" (not an error — platform defaults still apply).
func Resolve(cli CLIOverrides, env Env, configFilePath string) (RuntimeConfig, error) {
	const op = "config.Resolve"

	if cli.NoPersist {
		return RuntimeConfig{
			PersistenceEnabled: false,
			DBSource:           DBSourceDisabled,
			DBPath:             "",
		}, nil
	}

	var file fileConfig
	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err == nil {
			if _, err := toml.DecodeFile(configFilePath, &file); err != nil {
				return RuntimeConfig{}, errs.New(op, errs.InvalidArgument, fmt.Errorf("parsing config file %s: %w", configFilePath, err))
			}
		}
	}

	dbPath, dbSource, err := resolveDBPath(cli, env, file)
	if err != nil {
		return RuntimeConfig{}, err
	}

	retention, err := resolveRetention(cli, env, file)
	if err != nil {
		return RuntimeConfig{}, err
	}

	cfg := RuntimeConfig{
		PersistenceEnabled: true,
		RetentionSeconds:   retention,
		DBSource:           dbSource,
		DBPath:             dbPath,
	}
	if err := cfg.validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func resolveDBPath(cli CLIOverrides, env Env, file fileConfig) (string, DBSource, error) {
	const op = "config.resolveDBPath"

	if cli.DBPathSet {
		if cli.DBPath == "" {
			return "", "", errs.New(op, errs.InvalidArgument, fmt.Errorf("--db-path must not be empty"))
		}
		return cli.DBPath, DBSourceCLI, nil
	}
	if v, ok := env.Lookup(envDBPath); ok {
		if v == "" {
			return "", "", errs.New(op, errs.InvalidArgument, fmt.Errorf("%s must not be empty", envDBPath))
		}
		return v, DBSourceEnv, nil
	}
	if file.Persistence.DBPath != "" {
		return file.Persistence.DBPath, DBSourceConfig, nil
	}

	path, err := xdg.DataFile("aura/aura.db")
	if err != nil {
		return "", "", errs.New(op, errs.IO, err)
	}
	return path, DBSourceAuto, nil
}

func resolveRetention(cli CLIOverrides, env Env, file fileConfig) (float64, error) {
	const op = "config.resolveRetention"

	if cli.RetentionSecondsSet {
		if err := validateRetentionValue(cli.RetentionSeconds); err != nil {
			return 0, errs.New(op, errs.InvalidArgument, err)
		}
		return cli.RetentionSeconds, nil
	}
	if v, ok := env.Lookup(envRetentionSeconds); ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, errs.New(op, errs.InvalidArgument, fmt.Errorf("%s: %w", envRetentionSeconds, err))
		}
		if err := validateRetentionValue(parsed); err != nil {
			return 0, errs.New(op, errs.InvalidArgument, err)
		}
		return parsed, nil
	}
	if file.Persistence.RetentionSeconds != nil {
		if err := validateRetentionValue(*file.Persistence.RetentionSeconds); err != nil {
			return 0, errs.New(op, errs.InvalidArgument, err)
		}
		return *file.Persistence.RetentionSeconds, nil
	}
	return DefaultRetentionSeconds, nil
}

func validateRetentionValue(v float64) error {
	if !finite(v) || v <= 0 {
		return fmt.Errorf("retention_seconds must be positive and finite, got %v", v)
	}
	return nil
}

// DefaultConfigFilePath returns the platform-specific location of Aura's
// user config file (roaming app data / application support / XDG config
// dir), without requiring the file to exist.
func DefaultConfigFilePath() (string, error) {
	path, err := xdg.ConfigFile("aura/config.toml")
	if err != nil {
		return "", errs.New("config.DefaultConfigFilePath", errs.IO, err)
	}
	return path, nil
}
