package cli

import (
	"fmt"
	"os"

	"github.com/mesh-intelligence/algtype/internal/paths"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Output   string `yaml:"output"`
	Limit    int    `yaml:"limit"`
	LogLevel string `yaml:"log_level"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration",
		Long:  "Create the configuration directory and a default config.yaml if none exists.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	path := paths.ConfigFile(dir)
	created, err := writeConfigIfMissing(path)
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}
	a.log.Debug("init", "path", path, "created", created)

	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "kept existing %s\n", path)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether it wrote the file.
func writeConfigIfMissing(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	cfg := configFile{
		Output:   outputText,
		Limit:    defaultLimit,
		LogLevel: defaultLogLevel,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	return true, os.WriteFile(path, data, 0o644)
}
