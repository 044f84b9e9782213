// Package paths resolves the configuration directory of the algtype CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "ALGTYPE_CONFIG_DIR"

// ConfigFileName is the name of the configuration file inside the directory.
const ConfigFileName = "config.yaml"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/algtype (fallback ~/.config/algtype)
// macOS:   ~/Library/Application Support/algtype
// Windows: %APPDATA%/algtype
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "algtype"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "algtype"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "algtype"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > ALGTYPE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ConfigFile returns the path of the configuration file in dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}
