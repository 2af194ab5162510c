package cmd

import (
	"context"
	"fmt"
	"mirrorsync/internal/logger"
	"mirrorsync/internal/notify"
	"mirrorsync/internal/orchestrator"
	"mirrorsync/internal/repository"
	"mirrorsync/internal/runner"
	"mirrorsync/internal/secret"
	"mirrorsync/internal/store"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one sync pass over all enabled jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()

		st, err := store.Open(cfg.Settings.StatusPath, cfg.Settings.HistoryLimit)
		if err != nil {
			return err
		}

		secrets := secret.Resolver{}
		orch := orchestrator.New(
			cfg,
			runner.New(cfg.Settings, secrets),
			st,
			notify.New(cfg.Settings.Notification, secrets),
			repository.NewHistoryRepository(),
		)

		summary := orch.RunPass(context.Background())

		fmt.Printf("pass complete: %d attempted, %d succeeded, %d failed, %d skipped\n",
			summary.Attempted, summary.Succeeded, summary.Failed, summary.Skipped)

		if summary.Failed > 0 {
			return fmt.Errorf("%d job(s) failed", summary.Failed)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
