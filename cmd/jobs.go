package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List configured sync jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.SyncJobs) == 0 {
			fmt.Println("no jobs configured")
			return nil
		}

		fmt.Printf("%-20s %-8s %-30s %-30s %s\n",
			"NAME", "ENABLED", "SOURCE", "DESTINATION", "EXCLUDE")

		for _, job := range cfg.SyncJobs {
			enabled := "yes"
			if !job.IsEnabled() {
				enabled = "no"
			}

			fmt.Printf("%-20s %-8s %-30s %-30s %s\n",
				job.Name, enabled, job.Source, job.Destination,
				strings.Join(job.Exclude, ","))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}
