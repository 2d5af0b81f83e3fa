package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppName names the config and data directories.
const AppName = "wordrank"

// PathResolver resolves config and dictionary locations relative to the
// executable, the working directory and the platform config directory.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     configDirFor(runtime.GOOS, homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// configDirFor returns the appropriate config directory for the platform
func configDirFor(goos, homeDir string) string {
	switch goos {
	case "darwin", "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, "."+AppName)
	}
}

// ConfigDir returns the platform config directory.
func (pr *PathResolver) ConfigDir() string {
	return pr.configDir
}

// GetConfigPath returns the full path for a config file, falling back to
// other writable locations when the config directory is read-only.
func (pr *PathResolver) GetConfigPath(filename string) string {
	candidates := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, "."+AppName),
		filepath.Join(os.TempDir(), AppName),
		pr.executableDir,
	}
	for i, dir := range candidates {
		if IsWritableDir(dir) {
			path := filepath.Join(dir, filename)
			if i > 0 {
				log.Warnf("Using fallback config location: %s", path)
			}
			return path
		}
	}
	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath
}

// GetDictPath resolves a dictionary file. Absolute paths are used as is;
// relative ones are tried against the working directory, the executable
// directory and <config>/data in that order.
func (pr *PathResolver) GetDictPath(userSpecifiedPath string) (string, error) {
	if filepath.IsAbs(userSpecifiedPath) {
		return userSpecifiedPath, nil
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, userSpecifiedPath))
	}
	candidates = append(candidates,
		filepath.Join(pr.executableDir, userSpecifiedPath),
		filepath.Join(pr.configDir, "data", userSpecifiedPath),
	)

	for _, path := range candidates {
		if stat, err := os.Stat(path); err == nil && !stat.IsDir() {
			log.Debugf("Found dictionary: %s", path)
			return path, nil
		}
		log.Debugf("Dictionary candidate not found: %s", path)
	}
	return "", &os.PathError{Op: "resolve", Path: userSpecifiedPath, Err: os.ErrNotExist}
}
