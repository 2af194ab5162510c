package cmd

import (
	"fmt"
	"mirrorsync/internal/store"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View the latest result for every job",
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := store.Load(cfg.Settings.StatusPath)
		if err != nil {
			return err
		}

		if record.LastRun == nil {
			fmt.Println("no pass has run yet")
			return nil
		}

		fmt.Printf("last run: %s, total runs: %d\n\n",
			record.LastRun.Format("2006-01-02 15:04:05"), record.TotalRuns)

		fmt.Printf("%-20s %-8s %-20s %-10s %-10s %-6s %-6s\n",
			"JOB", "RESULT", "LAST RUN", "DURATION", "BYTES", "OK", "FAIL")

		for _, job := range cfg.SyncJobs {
			js := record.Jobs[job.Name]
			if js == nil || js.LastResult == nil {
				fmt.Printf("%-20s %-8s\n", job.Name, "never")
				continue
			}

			last := js.LastResult
			transferred := "-"
			if last.BytesTransferred > 0 {
				transferred = humanize.Bytes(uint64(last.BytesTransferred))
			}

			fmt.Printf("%-20s %-8s %-20s %-10s %-10s %-6d %-6d\n",
				job.Name,
				last.Outcome,
				last.StartedAt.Format("2006-01-02 15:04:05"),
				last.Duration.Round(time.Second),
				transferred,
				js.SuccessCount,
				js.FailureCount)

			if last.Failed() && last.ErrorExcerpt != "" {
				fmt.Printf("    %s\n", last.ErrorExcerpt)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
