package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/recordcheck/internal/core"
)

func newInspectCmd(a *app) *cobra.Command {
	var input string
	var all bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List every failing field of each invalid record",
		Long: `Inspect reads a batch and, for each invalid record, lists every field that
fails its rule rather than only the first one. Nothing is written or sorted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := core.ReadRecords(input, a.cfg.Batch.MaxFileSize)
			if err != nil {
				return userError(cmd, err)
			}

			v := core.NewValidator()
			w := bufio.NewWriter(cmd.OutOrStdout())
			invalid := 0
			for i, rec := range records {
				errs := v.ValidateAll(rec)
				if len(errs) == 0 {
					if all {
						fmt.Fprintf(w, "record %d: valid\n", i)
					}
					continue
				}
				invalid++
				fmt.Fprintf(w, "record %d: %s\n", i, errs[0].Category)
				for _, fe := range errs {
					fmt.Fprintf(w, "  %s: %s (got %q)\n", fe.Field, fe.Message, fe.Value)
				}
			}
			fmt.Fprintf(w, "%d of %d records invalid\n", invalid, len(records))
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "batch file (JSON array of records)")
	cmd.Flags().BoolVar(&all, "all", false, "also list valid records")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
