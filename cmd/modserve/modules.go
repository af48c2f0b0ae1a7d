package main

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nhdewitt/modserve/internal/config"
	"github.com/nhdewitt/modserve/internal/module"
	"github.com/nhdewitt/modserve/internal/modules/clock"
	"github.com/nhdewitt/modserve/internal/modules/diskfree"
	"github.com/nhdewitt/modserve/internal/modules/issue"
	"github.com/nhdewitt/modserve/internal/modules/visits"
)

// newRegistry chains the plugin directory, when configured, in front of
// the built-in catalog so a plugin can replace a built-in module.
func newRegistry(cfg *config.Config, logger *zap.Logger) (module.Registry, func(), error) {
	catalog := module.NewCatalog()
	builtins := map[string]module.Factory{
		"time":     clock.New,
		"issue":    issue.New,
		"diskfree": diskfree.New,
	}

	cleanup := func() {}
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		builtins["visits"] = visits.New(client, cfg.Redis.Key)
		cleanup = func() { _ = client.Close() }
	}

	for name, f := range builtins {
		if err := catalog.Register(name, f); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	var chain module.Chain
	if cfg.ModuleDir != "" {
		chain = append(chain, module.NewPluginDir(cfg.ModuleDir))
	}
	chain = append(chain, catalog)

	if cfg.Verbose {
		logger.Info("modules available",
			zap.String("module_dir", cfg.ModuleDir),
			zap.Strings("builtin", catalog.Names()),
		)
	}
	return chain, cleanup, nil
}
