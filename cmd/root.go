package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d2-nutrition/fao-cli/internal/config"
	"github.com/d2-nutrition/fao-cli/internal/runlog"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "fao-cli",
	Short: "FAO Food Balance Sheet artifact pipeline",
	Long:  "Fetches FAO Food Balance Sheet bulk exports, filters and rescales them, and emits the JSON artifacts the nutrition dashboard reads.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// openRunlog opens and migrates the run history store.
func openRunlog(ctx context.Context) (runlog.Store, error) {
	dsn := cfg.Runlog.Path
	if cfg.Runlog.Driver == "postgres" {
		dsn = cfg.RunlogDSN()
	}
	st, err := runlog.Open(ctx, cfg.Runlog.Driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// finishRun closes out a runlog entry, logging rather than failing when the
// bookkeeping write itself errors.
func finishRun(ctx context.Context, st runlog.Store, id string, result runlog.Result, runErr error) {
	if runErr != nil {
		if err := st.Fail(ctx, id, runErr.Error()); err != nil {
			zap.L().Warn("runlog: record failure", zap.String("run_id", id), zap.Error(err))
		}
		return
	}
	if err := st.Complete(ctx, id, result); err != nil {
		zap.L().Warn("runlog: record completion", zap.String("run_id", id), zap.Error(err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
