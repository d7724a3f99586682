package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/recordcheck/internal/core"
	"github.com/JonMunkholm/recordcheck/internal/logging"
	"github.com/JonMunkholm/recordcheck/internal/prompt"
	"github.com/JonMunkholm/recordcheck/internal/report"
)

type validateOptions struct {
	input    string
	output   string
	sort     string
	format   string
	workers  int
	progress bool
}

func newValidateCmd(a *app) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a batch file and write the valid records",
		Long: `Validate reads a JSON array of records, classifies each record by the
first field that fails its rule, and writes the valid records to --output.

Without --sort the sort order is asked interactively when stdin is a
terminal, otherwise BATCH_DEFAULT_SORT applies.`,
		Example: `  recordcheck validate --input batch.json --output valid.txt --sort weight
  recordcheck -input batch.json -output - --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runValidate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "batch file (JSON array of records)")
	f.StringVarP(&opts.output, "output", "o", "", `destination file, "-" for stdout`)
	f.StringVar(&opts.sort, "sort", "", "sort valid records: none, weight, age (or 0, 1, 2)")
	f.StringVar(&opts.format, "format", "", "output format: blocks, json, yaml")
	f.IntVar(&opts.workers, "workers", 0, "classification goroutines (default from config)")
	f.BoolVar(&opts.progress, "progress", true, "show a progress bar on a terminal")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (a *app) runValidate(cmd *cobra.Command, opts *validateOptions) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	format, err := core.ParseOutputFormat(firstNonEmpty(opts.format, a.cfg.Batch.OutputFormat))
	if err != nil {
		return &usageError{err: err}
	}

	var key core.SortKey
	sortGiven := cmd.Flags().Changed("sort")
	if sortGiven {
		if key, err = core.ParseSortKey(opts.sort); err != nil {
			return &usageError{err: err}
		}
	}

	workers := a.cfg.Batch.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}
	showProgress := a.cfg.Batch.Progress
	if cmd.Flags().Changed("progress") {
		showProgress = opts.progress
	}

	records, err := core.ReadRecords(opts.input, a.cfg.Batch.MaxFileSize)
	if err != nil {
		return userError(cmd, err)
	}

	if !sortGiven {
		key, err = a.chooseSortKey(cmd)
		if err != nil {
			return userError(cmd, err)
		}
	}

	procOpts := []core.ProcessorOption{
		core.WithWorkers(workers),
		core.WithLogger(logging.FromContext(ctx)),
	}
	var bar *report.Bar
	if showProgress && isTerminalWriter(stderr) && len(records) > 0 {
		bar = report.NewBar(stderr)
		procOpts = append(procOpts, core.WithProgress(bar.Callback()))
	}

	result, err := core.NewProcessor(nil, procOpts...).Process(ctx, records, key)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return userError(cmd, err)
	}

	start := time.Now()
	if err := writeOutput(cmd, opts.output, result.Valid, format); err != nil {
		return userError(cmd, err)
	}
	result.Timings.Write = time.Since(start)

	summaryOut := cmd.OutOrStdout()
	dest := opts.output
	if opts.output == "-" {
		summaryOut = stderr
		dest = "stdout"
	}
	return report.WriteSummary(summaryOut, report.Summary{
		Source:      opts.input,
		Destination: dest,
		Result:      result,
	})
}

// chooseSortKey asks on a terminal and falls back to the configured default.
func (a *app) chooseSortKey(cmd *cobra.Command) (core.SortKey, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && report.IsTerminal(f) {
		return prompt.SortKey(in, cmd.ErrOrStderr())
	}
	return core.ParseSortKey(a.cfg.Batch.DefaultSort)
}

// writeOutput writes records to path, or to stdout for "-". The file is only
// created once there is something to write.
func writeOutput(cmd *cobra.Command, path string, records []core.Record, format core.OutputFormat) error {
	if path == "-" {
		return core.WriteRecords(cmd.OutOrStdout(), records, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := core.WriteRecords(f, records, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && report.IsTerminal(f)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
