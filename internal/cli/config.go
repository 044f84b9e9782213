package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/mesh-intelligence/algtype/internal/paths"
	"github.com/spf13/viper"
)

// Config keys.
const (
	cfgKeyOutput   = "output"
	cfgKeyLimit    = "limit"
	cfgKeyLogLevel = "log_level"
)

// Config defaults, also written by "algtype init".
const (
	outputText      = "text"
	outputJSON      = "json"
	defaultLimit    = 20
	defaultLogLevel = "warn"
)

// loadConfig reads config.yaml from the resolved config directory using Viper.
// A missing directory or config.yaml is not an error. ALGTYPE_OUTPUT,
// ALGTYPE_LIMIT and ALGTYPE_LOG_LEVEL override the file.
func loadConfig(flag string) (*viper.Viper, string, error) {
	dir, err := paths.ResolveConfigDir(flag)
	if err != nil {
		return nil, "", fmt.Errorf("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyOutput, outputText)
	v.SetDefault(cfgKeyLimit, defaultLimit)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetEnvPrefix("algtype")
	v.AutomaticEnv()
	v.SetConfigFile(paths.ConfigFile(dir))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
	}

	switch out := v.GetString(cfgKeyOutput); out {
	case outputText, outputJSON:
	default:
		return nil, "", fmt.Errorf("config %s: unknown output %q", cfgKeyOutput, out)
	}
	return v, dir, nil
}
