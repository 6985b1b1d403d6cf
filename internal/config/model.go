package config

import (
	"errors"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const DefaultAPIListen = "127.0.0.1:4444"

type Config struct {
	StorageDir   string        `yaml:"storageDir"`
	Database     string        `yaml:"database"`
	Secret       string        `yaml:"secret"`
	APIListen    string        `yaml:"apiListen"`
	Debug        bool          `yaml:"debug"`
	Metrics      bool          `yaml:"metrics"`
	QueryTimeout time.Duration `yaml:"queryTimeout"`
	LogFile      string        `yaml:"logFile"`
}

// Default carries only the listen address. Storage dir, database and secret
// have no fallback and must come from the file or the environment.
func Default() Config {
	return Config{APIListen: DefaultAPIListen}
}

// Validate reports the first setting that would keep the daemon from serving.
func (c Config) Validate() error {
	if strings.TrimSpace(c.StorageDir) == "" {
		return errors.New("storageDir is required")
	}

	name := strings.TrimSpace(c.Database)
	if name == "" {
		return errors.New("database is required")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return errors.New("database must be a file name, not a path")
	}

	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("secret is required")
	}

	if c.QueryTimeout < 0 {
		return errors.New("queryTimeout must not be negative")
	}

	return ValidateListenAddr(strings.TrimSpace(c.APIListen))
}

func ValidateListenAddr(addr string) error {
	if addr == "" {
		return errors.New("apiListen is required")
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return errors.New("apiListen must be in host:port format")
	}
	if host == "" {
		return errors.New("apiListen host is required")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return errors.New("apiListen port is invalid")
	}

	return nil
}
