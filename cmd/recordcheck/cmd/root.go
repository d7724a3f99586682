// Package cmd implements the recordcheck command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/recordcheck/internal/config"
	"github.com/JonMunkholm/recordcheck/internal/core"
	"github.com/JonMunkholm/recordcheck/internal/logging"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError marks errors caused by bad flags or arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// reportedError marks errors already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// app carries state shared by the subcommands.
type app struct {
	cfgFile   string
	envFile   string
	logLevel  string
	logFormat string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "recordcheck",
		Short: "Validate personal-record batches",
		Long: `recordcheck validates a JSON array of personal records field by field,
counts invalid records per error type, optionally bucket-sorts the valid
records by weight or age and writes them to the chosen destination.

Commands:
  validate  - validate a batch file
  inspect   - list every failing field of each invalid record
  serve     - run the HTTP API`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(
		newValidateCmd(a),
		newInspectCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the environment and configuration and configures logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.envFile != "" {
		// Overload overwrites existing env vars
		if err := godotenv.Overload(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	a.cfg = cfg

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	logging.FromContext(cmd.Context()).Debug("configuration loaded", "config", cfg.String())
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetArgs(normalizeArgs(os.Args[1:]))
	return run(ctx, root)
}

func run(ctx context.Context, root *cobra.Command) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}

	var usage *usageError
	if errors.As(err, &usage) || isCobraUsageError(err) {
		return ExitUsage
	}
	return ExitError
}

// isCobraUsageError recognizes argument errors cobra reports without the
// flag error hook.
func isCobraUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "accepts ") ||
		strings.Contains(msg, "required flag(s)")
}

// normalizeArgs accepts the single-dash -input/-output spellings and runs
// validate when no subcommand is named.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args)+1)
	hasInput, hasCommand := false, false
	for _, arg := range args {
		for _, name := range []string{"input", "output", "sort"} {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				arg = "-" + arg
				break
			}
		}
		if arg == "--input" || strings.HasPrefix(arg, "--input=") {
			hasInput = true
		}
		if subcommands[arg] {
			hasCommand = true
		}
		out = append(out, arg)
	}

	if hasInput && !hasCommand {
		out = append([]string{"validate"}, out...)
	}
	return out
}

var subcommands = map[string]bool{
	"validate":   true,
	"inspect":    true,
	"serve":      true,
	"version":    true,
	"help":       true,
	"completion": true,
}

// userError prints the mapped user message and marks err as reported.
// Errors with no known mapping are shown as is so the detail is not lost.
func userError(cmd *cobra.Command, err error) error {
	if core.IsUserFacing(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", core.FormatUserError(err))
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v (Code: %s)\n", err, core.MapError(err).Code)
	}
	logging.FromContext(cmd.Context()).Debug("command failed", "error", err)
	return &reportedError{err: err}
}
