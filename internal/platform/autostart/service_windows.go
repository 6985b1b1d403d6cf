//go:build windows

package autostart

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/windows/svc"
)

const serviceStopTimeout = 10 * time.Second

// Service-specific exit codes reported to the service control manager.
const (
	exitStartFailed uint32 = 1
	exitServeFailed uint32 = 2
)

const serviceAccepts = svc.AcceptStop | svc.AcceptShutdown

func IsWindowsService() (bool, error) {
	return svc.IsWindowsService()
}

func RunService(name string, app ServiceApp) error {
	return svc.Run(name, &serviceHandler{name: name, app: app})
}

type serviceHandler struct {
	name string
	app  ServiceApp
}

func (h *serviceHandler) Execute(_ []string, r <-chan svc.ChangeRequest, status chan<- svc.Status) (bool, uint32) {
	status <- svc.Status{State: svc.StartPending}

	if err := h.app.Start(); err != nil {
		h.logError("service start failed", err)
		return h.stopped(status, exitStartFailed)
	}

	status <- svc.Status{State: svc.Running, Accepts: serviceAccepts}
	h.logInfo("service running")

	for {
		select {
		case c := <-r:
			switch c.Cmd {
			case svc.Interrogate:
				status <- c.CurrentStatus
			case svc.Stop, svc.Shutdown:
				h.logInfo("service stop requested", zap.Uint32("cmd", uint32(c.Cmd)))
				h.shutdown(status)
				return h.stopped(status, 0)
			default:
				h.logWarn("unexpected service control request", zap.Uint32("cmd", uint32(c.Cmd)))
			}
		case err := <-h.app.Errors():
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				h.logError("server stopped", err)
			}
			h.shutdown(status)
			return h.stopped(status, exitServeFailed)
		}
	}
}

// shutdown reports StopPending and stops the app, which closes its logger.
func (h *serviceHandler) shutdown(status chan<- svc.Status) {
	status <- svc.Status{State: svc.StopPending}

	ctx, cancel := context.WithTimeout(context.Background(), serviceStopTimeout)
	defer cancel()
	h.app.Stop(ctx)
}

func (h *serviceHandler) stopped(status chan<- svc.Status, code uint32) (bool, uint32) {
	status <- svc.Status{State: svc.Stopped, ServiceSpecificExitCode: code}
	return code != 0, code
}

func (h *serviceHandler) logInfo(msg string, fields ...zap.Field) {
	if logSvc := h.app.Logger(); logSvc != nil {
		logSvc.Info(msg, append(fields, zap.String("service", h.name))...)
	}
}

func (h *serviceHandler) logWarn(msg string, fields ...zap.Field) {
	if logSvc := h.app.Logger(); logSvc != nil {
		logSvc.Warn(msg, append(fields, zap.String("service", h.name))...)
	}
}

func (h *serviceHandler) logError(msg string, err error) {
	if logSvc := h.app.Logger(); logSvc != nil {
		logSvc.Error(msg, err, zap.String("service", h.name))
	}
}
