package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/d2-nutrition/fao-cli/internal/runlog"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded pipeline runs",
	Long:  "Lists build, fetch, slim and load runs from the run history, newest first.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openRunlog(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		entries, err := st.List(ctx, runsLimit)
		if err != nil {
			return err
		}

		if runsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		if len(entries) == 0 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No runs recorded.")
			return nil
		}

		formatRunsList(cmd.OutOrStdout(), entries)
		return nil
	},
}

// formatRunsList writes a tabular run history to out.
func formatRunsList(out io.Writer, entries []runlog.Entry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCOMMAND\tSOURCE\tSTATUS\tREAD\tKEPT\tWRITTEN\tSTARTED\tDURATION")
	_, _ = fmt.Fprintln(w, "--\t-------\t------\t------\t----\t----\t-------\t-------\t--------")

	for _, e := range entries {
		dur := "-"
		if e.FinishedAt != nil {
			dur = e.FinishedAt.Sub(e.StartedAt).Round(time.Second).String()
		}

		source := e.Source
		if len(source) > 30 {
			source = source[:27] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			truncateID(e.ID),
			e.Command,
			source,
			e.Status,
			e.RowsRead,
			e.RowsKept,
			e.RecordsWritten,
			e.StartedAt.Format("2006-01-02 15:04"),
			dur,
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 50, "max number of runs to display")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "emit the run history as JSON")
	rootCmd.AddCommand(runsCmd)
}
