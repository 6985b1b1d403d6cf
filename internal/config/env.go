package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "CRYPTODB"

const (
	envStorageDir   = "storage_dir"
	envDatabase     = "database"
	envSecret       = "secret"
	envAPIListen    = "api_listen"
	envDebug        = "debug"
	envMetrics      = "metrics"
	envQueryTimeout = "query_timeout"
	envLogFile      = "log_file"
)

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

// ApplyEnv overlays CRYPTODB_* settings on cfg. Values come from envFile (a
// dotenv file, skipped when empty or missing) and the process environment,
// which wins over the file.
func ApplyEnv(cfg Config, envFile string) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	lookup := func(key string) (string, bool) {
		k := strings.ToLower(EnvName(key))
		if !v.IsSet(k) {
			return "", false
		}
		return strings.TrimSpace(v.GetString(k)), true
	}

	if val, ok := lookup(envStorageDir); ok {
		cfg.StorageDir = val
	}
	if val, ok := lookup(envDatabase); ok {
		cfg.Database = val
	}
	if val, ok := lookup(envSecret); ok {
		cfg.Secret = val
	}
	if val, ok := lookup(envAPIListen); ok {
		cfg.APIListen = val
	}
	if val, ok := lookup(envLogFile); ok {
		cfg.LogFile = val
	}
	if val, ok := lookup(envDebug); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvName(envDebug), err)
		}
		cfg.Debug = b
	}
	if val, ok := lookup(envMetrics); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvName(envMetrics), err)
		}
		cfg.Metrics = b
	}
	if val, ok := lookup(envQueryTimeout); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvName(envQueryTimeout), err)
		}
		cfg.QueryTimeout = d
	}

	return cfg, nil
}
