//go:build windows

package main

import (
	"cryptodb-gateway/internal/logger"
	"cryptodb-gateway/internal/platform/autostart"
)

func runAsService() bool {
	isService, err := autostart.IsWindowsService()
	if err != nil || !isService {
		return false
	}

	app := &serverApp{}
	if err := autostart.RunService(autostart.ServiceName, app); err != nil {
		logger.NewStderr().Error("windows service failed", err)
	}
	return true
}
