//go:build !windows

package autostart

func IsWindowsService() (bool, error) {
	return false, nil
}

func RunService(_ string, _ ServiceApp) error {
	return ErrWindowsServiceUnsupported
}
