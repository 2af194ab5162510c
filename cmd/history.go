package cmd

import (
	"fmt"
	"mirrorsync/internal/model"
	"mirrorsync/internal/repository"

	"github.com/spf13/cobra"
)

var (
	historyN   int
	historyJob string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := repository.NewHistoryRepository()

		var histories []model.History
		var err error
		if historyJob != "" {
			histories, err = repo.GetByJob(historyJob, historyN)
		} else {
			histories, err = repo.GetRecent(historyN)
		}
		if err != nil {
			return err
		}

		if len(histories) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, h := range histories {
			status := "✓"
			if h.Outcome == model.OutcomeFailure {
				status = "✗"
			}

			line := fmt.Sprintf("%s [%s] %-20s exit=%d",
				status, h.StartedAt.Format("2006-01-02 15:04:05"), h.JobName, h.ExitCode)

			if h.ErrMsg != "" {
				line += " " + firstLine(h.ErrMsg)
			}

			fmt.Println(line)
		}

		return nil
	},
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}

	return s
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of history entries to show")
	historyCmd.Flags().StringVar(&historyJob, "job", "", "only show entries for this job")
	rootCmd.AddCommand(historyCmd)
}
