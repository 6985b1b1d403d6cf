package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cryptodb-gateway/internal/platform/paths"

	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("config not found")

func Load() (Config, error) {
	p, err := paths.ConfigFilePath()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(p)
}

// LoadFile reads the YAML file at p on top of Default, so keys missing from
// the file keep their default values.
func LoadFile(p string) (Config, error) {
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, ErrNotFound
		}
		return Config{}, err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", p, err)
	}

	return cfg, nil
}

func LoadOrDefault() (Config, error) {
	cfg, err := Load()
	if err == nil {
		return cfg, nil
	}

	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}

	return Config{}, err
}

// Resolve builds the runtime configuration: defaults, then the config file if
// present, then the .env file and process environment. The result is validated.
func Resolve() (Config, error) {
	cfg, err := LoadOrDefault()
	if err != nil {
		return Config{}, err
	}

	cfg, err = ApplyEnv(cfg, ".env")
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Save(cfg Config) error {
	p, err := paths.ConfigFilePath()
	if err != nil {
		return err
	}
	return SaveFile(p, cfg)
}

func SaveFile(p string, cfg Config) error {
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_ = tmp.Chmod(0o600)

	_, writeErr := tmp.Write(out)
	syncErr := tmp.Sync()
	closeErr := tmp.Close()

	if writeErr != nil || syncErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if writeErr != nil {
			return writeErr
		}
		if syncErr != nil {
			return syncErr
		}
		return closeErr
	}

	_ = os.Remove(p)

	if err := os.Rename(tmpName, p); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return nil
}
