package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nhdewitt/modserve/internal/config"
	"github.com/nhdewitt/modserve/internal/logging"
	"github.com/nhdewitt/modserve/internal/server"
)

var workerCmd = &cobra.Command{
	Use:    "worker",
	Short:  "Handle one inherited connection (started by the server)",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

// runWorker reads its configuration from MODSERVE_* variables only.
func runWorker(cmd *cobra.Command, args []string) error {
	os.Stdin.Close()
	os.Stdout.Close()

	cfg, err := config.Load(viper.New(), "")
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(logging.Options{
		Name:     "worker",
		Encoding: cfg.Log.Encoding,
		Level:    cfg.Log.Level,
		Verbose:  cfg.Verbose,
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	registry, cleanup, err := newRegistry(cfg, logger)
	if err != nil {
		logger.Error("setup failed", zap.Error(err))
		return err
	}
	defer cleanup()

	handler := server.NewConnHandler(registry, cfg.Verbose, logger)
	if err := server.ServeInherited(server.InheritedConnFD, os.Getenv(server.ConnIDEnv), handler); err != nil {
		logger.Error("worker failed", zap.Error(err))
		return err
	}
	return nil
}
