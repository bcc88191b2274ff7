package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/piwi3910/cutlist/internal/cache"
	"github.com/piwi3910/cutlist/internal/config"
	"github.com/piwi3910/cutlist/internal/server"
)

func newServeCommand(opts *Options) *cobra.Command {
	var addr, cacheDir, redisAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the optimizer as an HTTP JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			cfg := opts.Config
			if cmd.Flags().Changed("addr") {
				cfg.ListenAddr = addr
			}
			if cmd.Flags().Changed("cache-dir") {
				cfg.CacheDir = cacheDir
			}
			if cmd.Flags().Changed("redis-addr") {
				cfg.RedisAddr = redisAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := openCache(ctx, cfg, logger)
			if err != nil {
				return err
			}

			srv := server.New(cfg, server.WithLogger(logger), server.WithCache(c))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache results as files in this directory")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Cache results in Redis at host:port (wins over --cache-dir)")
	return cmd
}

// openCache picks Redis, then the file cache, then no cache.
func openCache(ctx context.Context, cfg config.Config, logger *slog.Logger) (cache.Cache, error) {
	switch {
	case cfg.RedisAddr != "":
		c, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: "cutlist",
		})
		if err != nil {
			return nil, err
		}
		logger.Info("using redis cache", "addr", cfg.RedisAddr)
		return c, nil
	case cfg.CacheDir != "":
		c, err := cache.NewFileCache(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		logger.Info("using file cache", "dir", cfg.CacheDir)
		return c, nil
	default:
		logger.Debug("result cache disabled")
		return cache.NewNullCache(), nil
	}
}
