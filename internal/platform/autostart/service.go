package autostart

import (
	"context"

	"cryptodb-gateway/internal/logger"
)

// ServiceName is the name the daemon registers under with the Windows
// service control manager.
const ServiceName = "cryptodbd"

// ServiceApp is the daemon lifecycle driven by the service control manager.
type ServiceApp interface {
	Start() error
	Stop(ctx context.Context)
	Errors() <-chan error
	Logger() logger.LoggerService
}
