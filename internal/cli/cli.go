package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pfrederiksen/dlt-draws/internal/config"
	"github.com/pfrederiksen/dlt-draws/internal/logger"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNewDraws = 2
)

// ExitCodeError ends the process with Code. A nil Err means the command
// succeeded and only the code carries information.
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitCodeError) Unwrap() error { return e.Err }

var (
	flagConfig   string
	flagLogLevel string
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlt-draws",
		Short: "Collect and analyze recent Super Lotto (大乐透) draws",
		Long: `A CLI tool that collects the 100 most recent Super Lotto draws from the
zhcw.com listing, exports them as CSV and reports draws not seen in earlier runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error (default from config)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newFetchCmd(), newStatsCmd(), newShowCmd())
	return cmd
}

func setupLogging(w io.Writer) error {
	name := flagLogLevel
	if name == "" {
		name = "info"
	}
	if flagVerbose {
		name = "debug"
	}
	level, err := logger.ParseLevel(name)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(level, w))
	return nil
}

// loadConfig reads the config file and environment. Flags are applied by the caller.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagLogLevel == "" && !flagVerbose && cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("config log_level: %w", err)
		}
		logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
	}
	return cfg, nil
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	logger.Default().Sync()
	os.Exit(exitCode(err, os.Stderr))
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitError
}
