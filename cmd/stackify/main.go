// Package main is the entry point for the Stackify server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stackify/internal/ai"
	"stackify/internal/auth"
	"stackify/internal/cache"
	"stackify/internal/config"
	"stackify/internal/database"
	"stackify/internal/handlers"
	"stackify/internal/images"
	"stackify/internal/lane"
	"stackify/internal/middleware"
	"stackify/internal/router"
	"stackify/internal/sitegen"
	"stackify/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the development admin (no-op if one already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (site locks + showcase cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		slog.Error("failed to initialize token signing", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	siteStore := store.NewSiteStore(db)

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, cfg.AIProviders())
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)
	if _, err := aiRegistry.Active(); err != nil {
		slog.Warn("no usable ai provider, generation requests will fail", "error", err)
	}

	imageResolver := images.NewResolver(cfg.ImageSearchURL, cfg.ImageWidth, cfg.ImageHeight)
	siteLocks := cache.NewSiteLocks(valkeyClient, cfg.SiteLockTTL)
	generator := sitegen.NewGenerator(aiRegistry, siteStore, imageResolver, siteLocks)

	// One lane for the whole process: image lookups never overlap.
	imageLane := lane.New("image-proxy")
	showcase := cache.NewShowcaseCache(valkeyClient, cache.DefaultShowcaseTTL)

	generateLimit := middleware.NewRateLimiter(cfg.RateLimitGenerate, time.Minute)
	defer generateLimit.Stop()

	r := router.New(router.Deps{
		Tokens:        tokens,
		GenerateLimit: generateLimit,
		DB:            db,
		AI:            handlers.NewAI(generator, imageLane, imageResolver, nil, cfg.ImageFallbackURL),
		Sites:         handlers.NewSites(siteStore, showcase),
		Admin:         handlers.NewAdmin(siteStore, showcase),
		Auth:          handlers.NewAuth(userStore, tokens),
	})

	// WriteTimeout must outlast a full model call on the generate endpoint.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.AITimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	imageLane.Drain()

	slog.Info("server stopped gracefully")
}
