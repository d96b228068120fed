package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/gravitas-games/robotplanner/internal/mapstore"
	"github.com/gravitas-games/robotplanner/internal/planner"
	"github.com/gravitas-games/robotplanner/internal/routecache"
	"github.com/gravitas-games/robotplanner/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		host    string
		port    int
		mapsDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer route requests over websockets",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("host") {
				a.cfg.Server.Host = host
			}
			if flags.Changed("port") {
				a.cfg.Server.Port = port
			}
			if flags.Changed("maps") {
				a.cfg.Server.MapsDir = mapsDir
			}
			return a.runServe(cmd)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")
	cmd.Flags().StringVar(&mapsDir, "maps", "", "directory of .env maps (default from config)")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := a.cfg
	logger := a.logger

	logger.Info("Starting route server...")

	maps, err := mapstore.LoadDir(ctx, cfg.Server.MapsDir)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}

	var cache routecache.Cache = routecache.NewMemory()
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return &ExitError{Code: 1, Message: fmt.Sprintf("failed to connect to Redis: %v", err)}
		}
		logger.Info("Connected to Redis", "address", cfg.Redis.Address)
		cache = routecache.NewRedis(redisClient, cfg.Redis.RoutePrefix, cfg.Redis.RouteTTL)
	}

	srv, err := server.New(ctx, cfg, planner.New(maps, cache), redisClient)
	if err != nil {
		if redisClient != nil {
			redisClient.Close()
		}
		return &ExitError{Code: 1, Message: err.Error()}
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil {
			runErr = &ExitError{Code: 1, Message: fmt.Sprintf("server error: %v", err)}
		}
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down...", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Warn("Error during shutdown", "error", err)
	}
	logger.Info("Server stopped")
	return runErr
}
