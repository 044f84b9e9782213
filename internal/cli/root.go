// Package cli implements the algtype command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by the commands of one root command.
type app struct {
	flags  rootFlags
	config *viper.Viper
	log    *slog.Logger
}

// NewRootCmd creates the top-level "algtype" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	root := &cobra.Command{
		Use:   "algtype",
		Short: "Explore finite algebraic domains",
		Long: "algtype encodes types as sums of products, enumerates their values\n" +
			"and lays them out as dense total maps.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug messages to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newDomainsCmd(a))
	root.AddCommand(newShapeCmd(a))
	root.AddCommand(newSchemaCmd(a))
	root.AddCommand(newCardCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newIndexCmd(a))
	root.AddCommand(newValueCmd(a))
	root.AddCommand(newMapCmd(a))

	return root
}

// setup loads the configuration and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	v, dir, err := loadConfig(a.flags.configDir)
	if err != nil {
		return sysError(err)
	}
	a.config = v

	level := slog.LevelInfo
	if a.flags.verbose {
		level = slog.LevelDebug
	} else if err := level.UnmarshalText([]byte(v.GetString(cfgKeyLogLevel))); err != nil {
		return userError(fmt.Errorf("config %s: %w", cfgKeyLogLevel, err))
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.log.Debug("configuration loaded", "dir", dir, "file", v.ConfigFileUsed())
	return nil
}

// jsonOutput reports whether results are printed as JSON, by flag or config.
func (a *app) jsonOutput() bool {
	return a.flags.jsonMode || a.config.GetString(cfgKeyOutput) == outputJSON
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "algtype:", err)
	}
	os.Exit(exitCode(err))
}

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps a command error to a process exit code. Errors raised by
// cobra itself, such as unknown flags, are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitUserError
}
