package cmd

import (
	"context"
	"mirrorsync/internal/logger"
	"mirrorsync/internal/server"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the status dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()

		srv := server.New(cfg, cfgFile)
		if err := srv.Start(); err != nil {
			return err
		}

		logger.Log.Info("dashboard ready",
			zap.Int("port", cfg.Settings.Web.Port),
			zap.String("status_path", cfg.Settings.StatusPath))

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		logger.Log.Info("shutting down",
			zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
