package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileExists simply checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0o755)
}

// SaveTOMLFile encodes data as TOML into filePath.
// The file is written next to the target first and renamed into place so a
// failed encode never leaves a truncated config behind.
func SaveTOMLFile(data any, filePath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".wordrank-*.toml")
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}

// GetAbsolutePath returns the absolute path of a file
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if !filepath.IsAbs(path) {
		if absPath, err := filepath.Abs(path); err == nil {
			return absPath
		}
	}
	return path
}

// IsWritableDir creates dirPath if needed and reports whether a file can be
// written into it.
func IsWritableDir(dirPath string) bool {
	if err := EnsureDir(dirPath); err != nil {
		log.Debugf("Cannot create directory %s: %v", dirPath, err)
		return false
	}
	testFile := filepath.Join(dirPath, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		log.Debugf("Directory %s is not writable: %v", dirPath, err)
		return false
	}
	os.Remove(testFile)
	return true
}
