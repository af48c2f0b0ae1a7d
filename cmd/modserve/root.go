package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nhdewitt/modserve/internal/config"
	"github.com/nhdewitt/modserve/internal/logging"
	"github.com/nhdewitt/modserve/internal/server"
)

var (
	configPath string
	v          = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "modserve",
	Short: "Serve dynamically loaded content modules over HTTP/1.x",
	Long: `modserve answers GET /<name> by resolving <name> to a content module,
writing an HTTP/1.0 200 header and letting the module write the body.
Modules are looked up in --module-dir as <name>.so plugins first, then
among the built-in modules (time, issue, diskfree, and visits when redis
is configured).`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, json or toml)")

	flags := rootCmd.Flags()
	flags.StringP("address", "a", "", "local address to bind (default any)")
	flags.IntP("port", "p", 0, "port to listen on (0 picks one)")
	flags.BoolP("verbose", "v", false, "log bind address, peers and dispatch events")
	flags.String("isolation", config.IsolationGoroutine, "execution unit per connection: goroutine or process")
	flags.StringP("module-dir", "m", "", "directory holding <name>.so plugins")
	flags.String("log-encoding", "console", "log encoding: console or json")

	bindFlags(flags, map[string]string{
		"address":      "address",
		"port":         "port",
		"verbose":      "verbose",
		"isolation":    "isolation",
		"module-dir":   "module_dir",
		"log-encoding": "log.encoding",
	})
}

func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Options{
		Name:     "server",
		Encoding: cfg.Log.Encoding,
		Level:    cfg.Log.Level,
		Verbose:  cfg.Verbose,
	})
	if err != nil {
		return err
	}
	defer logger.Sync()

	dispatcher, cleanup, err := newDispatcher(cfg, logger)
	if err != nil {
		logger.Error("setup failed", zap.Error(err))
		return err
	}
	defer cleanup()

	srv, err := server.Listen(server.Options{
		Address:    cfg.Address,
		Port:       cfg.Port,
		Verbose:    cfg.Verbose,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("cannot listen", zap.Error(err))
		return err
	}
	logger.Info("server started",
		zap.String("addr", srv.Addr().String()),
		zap.String("isolation", cfg.Isolation),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutting down", zap.String("signal", sig.String()))
		_ = srv.Close()
	}()

	if err := srv.Serve(); err != nil {
		logger.Error("server failed", zap.Error(err))
		return err
	}

	// modules may still be writing, and may still use the redis client
	// released by cleanup
	logger.Info("waiting for open connections")
	srv.Wait()
	logger.Info("server stopped")
	return nil
}

// newDispatcher picks the execution unit. Process isolation re-executes
// this binary as "modserve worker" with the resolved config in its
// environment.
func newDispatcher(cfg *config.Config, logger *zap.Logger) (server.Dispatcher, func(), error) {
	switch cfg.Isolation {
	case config.IsolationProcess:
		exe, err := os.Executable()
		if err != nil {
			return nil, nil, fmt.Errorf("locate executable: %w", err)
		}
		d := server.NewProcessDispatcher(server.ProcessOptions{
			Path:   exe,
			Args:   []string{"worker"},
			Env:    append(os.Environ(), cfg.Environ()...),
			Stderr: os.Stderr,
			Logger: logger.Named("reaper"),
		})
		return d, func() {}, nil
	default:
		registry, cleanup, err := newRegistry(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		handler := server.NewConnHandler(registry, cfg.Verbose, logger.Named("conn"))
		return server.NewGoroutineDispatcher(handler, logger), cleanup, nil
	}
}
