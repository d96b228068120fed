// Package cli wires the robotplanner commands together.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gravitas-games/robotplanner/internal/config"
	"github.com/gravitas-games/robotplanner/internal/ctxlog"
	"github.com/gravitas-games/robotplanner/internal/planner"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...interface{}) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// failure reports err with the message users of the planner expect.
func failure(err error) error {
	return &ExitError{Code: 1, Message: planner.Message(err)}
}

// app carries the state shared by every command.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

// Run executes the command line in args. Every error it returns is an
// *ExitError.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra rejects on its own is a usage problem.
	return &ExitError{Code: 2, Message: err.Error()}
}

// setup loads configuration, applies flag overrides and installs the logger
// on the command context.
func (a *app) setup(cmd *cobra.Command) error {
	path, explicit := a.configPath, cmd.Flags().Changed("config")
	if !explicit {
		if env := os.Getenv("CONFIG_PATH"); env != "" {
			path, explicit = env, true
		}
	}

	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return usageError("%v", err)
	}

	a.cfg = cfg
	a.logger = ctxlog.New(cfg.Log.Level, cfg.Log.Format, a.stderr)
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), a.logger))

	a.logger.Debug("Configuration loaded", "path", path, "explicit", explicit)
	return nil
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("%s: expected %d arguments, got %d\nUsage: %s", cmd.Name(), n, len(args), cmd.UseLine())
		}
		return nil
	}
}
