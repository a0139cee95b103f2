package main

import (
	"bytes"
	"context"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"pantrypal"
	"pantrypal/alerts"
	"pantrypal/pantry"
	"pantrypal/storage"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		slog.Debug("SETUP: No .env file loaded", "error", err)
	}

	var storageConfig pantrypal.StorageConfig
	if err := envdecode.Decode(&storageConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var alertConfig pantrypal.AlertConfig
	if err := envdecode.Decode(&alertConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	window := alertConfig.ExpiringDays
	if len(os.Args) > 1 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n < 0 {
			log.Fatalf("Invalid window %q: expected a non-negative number of days", os.Args[1])
		}
		window = n
	}

	_, _, otelShutdown, err := pantrypal.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	backend, closeBackend, err := storage.Open(ctx, storageConfig)
	if err != nil {
		slog.Error("SETUP: Failed to open storage", "error", err)
		return
	}
	defer closeBackend() // nolint: errcheck

	store := pantry.NewStore(ctx, backend, nil)

	webhookURL := alertConfig.SlackWebhookURL
	if webhookURL == "" {
		// Without a webhook the digest goes to a local sink that just logs what it receives.
		testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := new(bytes.Buffer)
			body.ReadFrom(r.Body) // nolint: errcheck
			slog.Info("FINAL: Received request",
				"method", r.Method,
				"path", r.URL.Path,
				"body", body.String(),
			)
			w.WriteHeader(http.StatusOK)
		}))
		defer testServer.Close()
		webhookURL = testServer.URL
	}

	slackClient := alerts.NewSlackClient(webhookURL, http.DefaultClient)
	digest, err := alerts.Check(ctx, store.Items(), store.Today(), window, slackClient, alertConfig.SlackChannel)
	if err != nil {
		slog.Error("RESULT: Expiry check failed", "error", err)
		return
	}

	pantrypal.Dump(digest)
}
