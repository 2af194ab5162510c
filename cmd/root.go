package cmd

import (
	"mirrorsync/internal/config"
	"mirrorsync/internal/db"
	"mirrorsync/internal/logger"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:          "mirrorsync",
	Short:        "Mirror local directories to remote hosts and track the results",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logger.Init(debug)

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Commands that only read the config or the status file do not
		// need the history database.
		clientCmds := map[string]bool{
			"status": true, "jobs": true,
		}
		if !clientCmds[cmd.Name()] {
			if err := db.Init(cfg.Settings.DBPath); err != nil {
				return err
			}
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to the config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug mode")
}
