package main

import (
	"context"
	"ctchen222/game-store/internal/api/repository"
	"ctchen222/game-store/internal/api/service"
	"ctchen222/game-store/internal/auth"
	"ctchen222/game-store/internal/config"
	"ctchen222/game-store/internal/db"
	"ctchen222/game-store/internal/logger"
	"ctchen222/game-store/internal/server"
	"ctchen222/game-store/internal/telemetry"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.SlogLevel())
	gin.SetMode(gin.ReleaseMode)

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, telemetry.Config{Enabled: cfg.OtelEnabled, Endpoint: cfg.OtelEndpoint})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	// Initialize the relational store
	DB, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer DB.Close()

	// Initialize Redis when configured
	cache := repository.NewNoopGameCache()
	if cfg.RedisAddr != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = repository.NewGameCache(rdb, cfg.CatalogCacheTTL)
	}

	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	})
	if err != nil {
		return err
	}

	// Create services
	userService, err := service.NewUserService(DB, auth.NewBcryptHasher(cfg.BcryptCost), tokens)
	if err != nil {
		return err
	}
	libraryService, err := service.NewLibraryService(DB)
	if err != nil {
		return err
	}
	gameService := service.NewGameService(DB, cache)

	if cfg.AdminEmail != "" {
		admin, created, err := userService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			slog.Info("bootstrap admin created", "user_id", admin.ID, "email", admin.Email)
		}
	}

	// Create the Gin-based server
	srv, err := server.NewServer(server.Deps{
		DB:       DB,
		Verifier: tokens,
		Users:    userService,
		Games:    gameService,
		Library:  libraryService,
	})
	if err != nil {
		return err
	}

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		return err
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("Server exiting")
	return nil
}
