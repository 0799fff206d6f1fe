package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"disasterconnect-http-service/internal/app/middleware"
	"disasterconnect-http-service/internal/app/routes"
	"disasterconnect-http-service/internal/domain/services/container"
	"disasterconnect-http-service/internal/infrastructure/config"
	"disasterconnect-http-service/internal/infrastructure/database"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:          "disasterconnect",
		Short:        "DisasterConnect HTTP service",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	// .env is optional, the environment may already be set
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "no .env file loaded: %v\n", err)
		}
	}
	root.AddCommand(serve, newAdminCommand(), newSeedCommand())
	return root
}

// bootstrap loads the configuration, sets up logging and opens the migrated database
func bootstrap() (*config.Config, *database.ConnectionPool, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	if err := Logger.SetupLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(pool.GetDB(), cfg.DBMigrationMode); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return cfg, pool, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := bootstrap()
			if err != nil {
				return err
			}
			defer pool.Close()
			return serve(cmd.Context(), cfg, pool)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, pool *database.ConnectionPool) error {
	if cfg.IsServer() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serviceContainer := container.NewServiceContainer(pool, cfg)
	cache := middleware.NewResponseCache(cfg.ResponseCacheTTL)
	go cache.Run(ctx, time.Minute)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           routes.SetupRouter(serviceContainer, cache),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printSystemInfo(cfg, pool)

	errCh := make(chan error, 1)
	go func() {
		Logger.Info("server listening on http://%s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			Logger.Error("server failed: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// printSystemInfo logs the runtime and database pool state at startup
func printSystemInfo(cfg *config.Config, pool *database.ConnectionPool) {
	Logger.Info("environment: %s, database driver: %s", cfg.EnvType, pool.Driver)
	if stats, err := pool.Stats(); err == nil {
		Logger.Info("database pool: %+v", stats)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	Logger.Info("cpus=%d goroutines=%d alloc=%vMiB sys=%vMiB",
		runtime.NumCPU(), runtime.NumGoroutine(), m.Alloc/1024/1024, m.Sys/1024/1024)
}
