//go:build windows

package autostart

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"
)

const (
	servicePollInterval = 300 * time.Millisecond
	serviceStartTimeout = 30 * time.Second
	serviceDescription  = "cryptodb SQL gateway: serves POST /crypto against a local SQLite file"
)

// EnsureWindowsServiceAutoStart registers exePath as an automatic service, or
// repoints an existing registration at exePath and args. It reports whether
// the service was newly created.
func EnsureWindowsServiceAutoStart(name, exePath string, args ...string) (bool, error) {
	if name == "" {
		return false, errors.New("service name is required")
	}
	if exePath == "" {
		return false, errors.New("service executable path is required")
	}

	absPath, err := filepath.Abs(exePath)
	if err != nil {
		return false, err
	}

	m, err := mgr.Connect()
	if err != nil {
		return false, err
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		if !errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST) {
			return false, err
		}

		s, err = m.CreateService(name, absPath, mgr.Config{
			StartType:   mgr.StartAutomatic,
			DisplayName: name,
			Description: serviceDescription,
		}, args...)
		if err != nil {
			return false, err
		}
		defer s.Close()
		return true, nil
	}
	defer s.Close()

	binaryPath, err := syscall.UTF16PtrFromString(commandLine(absPath, args))
	if err != nil {
		return false, err
	}
	if err := windows.ChangeServiceConfig(
		s.Handle,
		windows.SERVICE_NO_CHANGE,
		mgr.StartAutomatic,
		windows.SERVICE_NO_CHANGE,
		binaryPath,
		nil,
		nil,
		nil,
		nil,
		nil,
		nil,
	); err != nil {
		return false, err
	}

	return false, nil
}

func commandLine(exe string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, syscall.EscapeArg(exe))
	for _, a := range args {
		parts = append(parts, syscall.EscapeArg(a))
	}
	return strings.Join(parts, " ")
}

func StartWindowsService(name string) error {
	s, closeFn, err := openService(name)
	if err != nil {
		return err
	}
	defer closeFn()

	status, err := s.Query()
	if err == nil {
		switch status.State {
		case svc.Running:
			return nil
		case svc.StartPending:
			return waitForServiceState(s, svc.Running, serviceStartTimeout)
		}
	}

	if err := s.Start(); err != nil && !errors.Is(err, windows.ERROR_SERVICE_ALREADY_RUNNING) {
		return err
	}
	return waitForServiceState(s, svc.Running, serviceStartTimeout)
}

func StopWindowsService(name string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	s, closeFn, err := openService(name)
	if err != nil {
		return err
	}
	defer closeFn()

	status, err := s.Query()
	if err == nil {
		switch status.State {
		case svc.Stopped:
			return nil
		case svc.StopPending:
			return waitForServiceState(s, svc.Stopped, timeout)
		}
	}

	if _, err := s.Control(svc.Stop); err != nil && !errors.Is(err, windows.ERROR_SERVICE_NOT_ACTIVE) {
		return err
	}
	return waitForServiceState(s, svc.Stopped, timeout)
}

func openService(name string) (*mgr.Service, func(), error) {
	if name == "" {
		return nil, nil, errors.New("service name is required")
	}

	m, err := mgr.Connect()
	if err != nil {
		return nil, nil, err
	}

	s, err := m.OpenService(name)
	if err != nil {
		_ = m.Disconnect()
		return nil, nil, err
	}

	return s, func() {
		s.Close()
		_ = m.Disconnect()
	}, nil
}

func waitForServiceState(s *mgr.Service, want svc.State, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		status, err := s.Query()
		if err != nil {
			return err
		}
		if status.State == want {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for service state %d (current %d)", want, status.State)
		}
		time.Sleep(servicePollInterval)
	}
}
