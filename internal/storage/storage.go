package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

var (
	ErrInvalidPath = errors.New("invalid path")
	ErrNotDir      = errors.New("storage path is not a directory")
)

// EnsureDir creates the storage directory (and parents) when it is missing.
func EnsureDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ErrInvalidPath
	}
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return ErrNotDir
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// ListDatabases returns the regular file names directly under dir, sorted.
func ListDatabases(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ResolveDatabasePath joins name onto storageDir and rejects anything that
// would land outside it, symlinks included.
func ResolveDatabasePath(storageDir, name string) (string, error) {
	trimmedDir := strings.TrimSpace(storageDir)
	if trimmedDir == "" {
		return "", ErrInvalidPath
	}
	if strings.TrimSpace(name) == "" {
		return "", ErrInvalidPath
	}

	base, err := canonicalizePath(trimmedDir)
	if err != nil {
		return "", err
	}

	rel := filepath.Clean(name)
	if rel == "." || rel == ".." || filepath.IsAbs(rel) {
		return "", ErrInvalidPath
	}

	fullPath := filepath.Clean(filepath.Join(base, rel))
	if !isWithinBase(base, fullPath) || pathEqual(base, fullPath) {
		return "", ErrInvalidPath
	}

	if resolved, err := filepath.EvalSymlinks(fullPath); err == nil {
		if !isWithinBase(base, resolved) {
			return "", ErrInvalidPath
		}
		fullPath = resolved
	}

	return fullPath, nil
}

func canonicalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = filepath.Clean(resolved)
	}
	return abs, nil
}

func pathEqual(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func isWithinBase(base, target string) bool {
	base = normalizeForCompare(base)
	target = normalizeForCompare(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if strings.HasPrefix(rel, ".."+string(os.PathSeparator)) || rel == ".." {
		return false
	}
	return true
}

func normalizeForCompare(path string) string {
	cleaned := filepath.Clean(path)
	if runtime.GOOS == "windows" {
		return strings.ToLower(cleaned)
	}
	return cleaned
}
