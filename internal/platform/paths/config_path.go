package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const AppName = "cryptodb"

// ConfigEnv points the daemon and CLI at a config file outside the machine-wide location.
const ConfigEnv = "CRYPTODB_CONFIG"

func ConfigFilePath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(ConfigEnv)); p != "" {
		return p, nil
	}
	return appFilePath("config.yaml")
}

func appFilePath(name string) (string, error) {
	switch runtime.GOOS {
	case "windows":
		programData := os.Getenv("PROGRAMDATA")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return filepath.Join(programData, AppName, name), nil
	case "linux":
		return filepath.Join("/etc", AppName, name), nil
	default:
		return "", errors.New("unsupported OS for machine-wide " + name)
	}
}
