package paths

import (
	"path/filepath"
	"runtime"
)

func LoggerFilePath() (string, error) {
	if runtime.GOOS == "linux" {
		return filepath.Join("/var/log", AppName, "server.log"), nil
	}
	return appFilePath("server.log")
}
