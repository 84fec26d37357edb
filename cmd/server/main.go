package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/tictacgame-go/internal/config"
	"github.com/mcoot/tictacgame-go/internal/dependencies/clock"
	"github.com/mcoot/tictacgame-go/internal/dependencies/random"
	"github.com/mcoot/tictacgame-go/internal/registry"
	"github.com/mcoot/tictacgame-go/internal/server"
	"github.com/mcoot/tictacgame-go/internal/services/auth"
	"github.com/mcoot/tictacgame-go/internal/services/directory"
	"github.com/mcoot/tictacgame-go/internal/services/game"
	"github.com/mcoot/tictacgame-go/internal/services/match"
	"github.com/mcoot/tictacgame-go/internal/storage"
	memorystorage "github.com/mcoot/tictacgame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/tictacgame-go/internal/storage/redis"
	"github.com/mcoot/tictacgame-go/internal/ws"
	"github.com/mcoot/tictacgame-go/internal/ws/handler"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, closeStore, err := buildStorage(cfg)
	if err != nil {
		logger.Error("failed to create storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	clk := clock.New()
	rnd := random.New()
	reg := registry.New()

	authService := auth.New(store, reg, clk, logger)
	directoryService := directory.New(store, reg)
	gameService := game.New(store, reg, clk, rnd, cfg.BoardSize, logger)
	matchCoordinator := match.New(store, reg, gameService, logger)

	router := handler.NewRouter(handler.Config{
		Logger:    logger,
		Registry:  reg,
		Auth:      authService,
		Directory: directoryService,
		Match:     matchCoordinator,
		Games:     gameService,
	})

	wsHandler := ws.NewHandler(reg, router, logger)

	httpRouter := server.NewRouter(server.RouterConfig{
		Logger:    logger,
		WSHandler: wsHandler,
	})

	serverConfig := server.DefaultConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	srv := server.New(httpRouter, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("server started",
		slog.String("addr", srv.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.Int("board_size", cfg.BoardSize),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		wsHandler.Shutdown()
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// buildStorage creates the configured storage backend, returning a cleanup
// function to release its resources
func buildStorage(cfg *config.Config) (storage.Storage, func(), error) {
	switch cfg.StorageType {
	case config.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.GamerTTL = cfg.GamerTTL
		store, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		store := memorystorage.New()
		store.SetGamerTTL(cfg.GamerTTL)
		return store, func() {}, nil
	}
}
