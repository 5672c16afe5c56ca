package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/d2-nutrition/fao-cli/internal/fao"
	"github.com/d2-nutrition/fao-cli/internal/runlog"
)

var slimEncoding string

var slimCmd = &cobra.Command{
	Use:   "slim <in> <out>",
	Short: "Copy an FAO export keeping only the canonical columns",
	Long: "Writes a CSV copy of an FAO export keeping only the Area, Item, Element, " +
		"Year, Unit, Value and Flag columns. Rows are copied verbatim; nothing is " +
		"parsed or filtered. Raw Food Balance Sheet bulk files carry code and " +
		"description columns that roughly double their size.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		inPath, outPath := args[0], args[1]

		st, err := openRunlog(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runID, err := st.Start(ctx, "slim", inPath, outPath)
		if err != nil {
			return err
		}

		stats, err := fao.Slim(inPath, outPath, slimEncoding)
		result := runlog.Result{
			RowsRead:       stats.Rows,
			RowsKept:       stats.Rows,
			RecordsWritten: stats.Rows,
		}
		finishRun(ctx, st, runID, result, err)
		if err != nil {
			return err
		}

		formatSlimReport(cmd.OutOrStdout(), inPath, outPath, stats)
		return nil
	},
}

func formatSlimReport(out io.Writer, inPath, outPath string, stats fao.SlimStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FILE\tBYTES")
	_, _ = fmt.Fprintln(w, "----\t-----")
	_, _ = fmt.Fprintf(w, "%s\t%d\n", inPath, stats.OriginalBytes)
	_, _ = fmt.Fprintf(w, "%s\t%d\n", outPath, stats.SlimBytes)
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\n%d columns kept: %s\n", len(stats.KeptColumns), strings.Join(stats.KeptColumns, ", "))
	if len(stats.DroppedColumns) > 0 {
		_, _ = fmt.Fprintf(out, "%d columns dropped: %s\n", len(stats.DroppedColumns), strings.Join(stats.DroppedColumns, ", "))
	}
	_, _ = fmt.Fprintf(out, "%d rows copied; size reduced %.1f%%\n", stats.Rows, stats.Reduction())
}

func init() {
	slimCmd.Flags().StringVar(&slimEncoding, "encoding", "", "source charset for CSV input (e.g. latin1); empty means UTF-8")
	rootCmd.AddCommand(slimCmd)
}
