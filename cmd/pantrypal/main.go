package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"pantrypal"
	"pantrypal/api"
	"pantrypal/barcode"
	"pantrypal/pantry"
	"pantrypal/pricing"
	"pantrypal/recipes"
	"pantrypal/shopping"
	"pantrypal/storage"
	"pantrypal/tools"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("SETUP: No .env file loaded", "error", err)
	}

	var serverConfig pantrypal.ServerConfig
	if err := envdecode.Decode(&serverConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var storageConfig pantrypal.StorageConfig
	if err := envdecode.Decode(&storageConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var recipeConfig pantrypal.RecipeAPIConfig
	if err := envdecode.Decode(&recipeConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var productConfig pantrypal.ProductAPIConfig
	if err := envdecode.Decode(&productConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	logger := pantrypal.NewLogger(serverConfig.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	_, _, otelShutdown, err := pantrypal.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	backend, closeBackend, err := storage.Open(ctx, storageConfig)
	if err != nil {
		slog.Error("SETUP: Failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeBackend(); err != nil {
			slog.Error("SETUP: Failed to close storage", "error", err)
		}
	}()

	hub := api.NewHub(serverConfig.AllowOrigins)
	eventLog, closeEvents, err := newEventLogger(serverConfig.EventLog)
	if err != nil {
		slog.Error("SETUP: Failed to create event logger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeEvents(); err != nil {
			slog.Error("Failed to close event log", "error", err)
		}
	}()
	events := pantrypal.MultiEventLogger{eventLog, hub}

	pantryStore := pantry.NewStore(ctx, backend, events)
	shoppingStore := shopping.NewStore(ctx, backend, events)
	recipeSession := recipes.NewSession(ctx,
		recipes.NewClient(recipes.ClientOpts{BaseURL: recipeConfig.BaseURL}),
		backend,
		recipeConfig.APIKey,
		events,
	)
	slog.Info("SETUP: Stores ready",
		"pantry_items", len(pantryStore.Items()),
		"shopping_items", len(shoppingStore.Items()),
		"recent_recipes", len(recipeSession.RecentRecipes()),
	)

	router := api.NewRouter(api.Deps{
		Pantry:       pantryStore,
		Shopping:     shoppingStore,
		Recipes:      recipeSession,
		Products:     barcode.NewClient(barcode.ClientOpts{BaseURL: productConfig.BaseURL}),
		Prices:       pricing.NewEstimator(nil),
		Tools:        tools.NewRegistry(pantryStore, shoppingStore, recipeSession),
		Hub:          hub,
		Logger:       logger,
		AllowOrigins: serverConfig.AllowOrigins,
	})

	srv := &http.Server{
		Addr:    serverConfig.Addr,
		Handler: router,
	}

	go func() {
		slog.Info("SERVER: Listening", "addr", serverConfig.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("SERVER: Failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("SERVER: Shutting down")
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("SERVER: Forced to shutdown", "error", err)
		return
	}
	slog.Info("SERVER: Stopped")
}

func newEventLogger(kind string) (pantrypal.EventLogger, func() error, error) {
	noop := func() error { return nil }
	switch kind {
	case "", "stdout":
		return pantrypal.NewStdoutEventLogger(), noop, nil
	case "none":
		return pantrypal.NewNoOpEventLogger(), noop, nil
	case "file":
		if err := os.MkdirAll("logs", 0o755); err != nil {
			return nil, noop, fmt.Errorf("failed to create log dir: %w", err)
		}
		logFilePath := pantrypal.NewEventLogFilePath("server")
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open log file: %w", err)
		}
		return pantrypal.NewJSONLinesEventLogger(logFile), logFile.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown event log %q", kind)
}
