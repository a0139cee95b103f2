package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joeshaw/envdecode"

	"pantrypal"
	"pantrypal/alerts"
	"pantrypal/pantry"
	"pantrypal/storage"
)

// Params may override the configured window. A zero or missing window uses EXPIRING_DAYS.
type Params struct {
	Window int `json:"window"`
}

type Results struct {
	Digest   alerts.Digest `json:"digest"`
	Notified bool          `json:"notified"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var storageConfig pantrypal.StorageConfig
		if err := envdecode.Decode(&storageConfig); err != nil {
			return Results{}, fmt.Errorf("failed to decode storage config: %w", err)
		}
		// File slots do not outlive an invocation, so S3 is the default here.
		if storageConfig.Backend == "" || storageConfig.Backend == storage.BackendFile {
			storageConfig.Backend = storage.BackendS3
		}

		var alertConfig pantrypal.AlertConfig
		if err := envdecode.Decode(&alertConfig); err != nil {
			return Results{}, fmt.Errorf("failed to decode alert config: %w", err)
		}
		if alertConfig.SlackWebhookURL == "" {
			return Results{}, fmt.Errorf("missing Slack config: SLACK_WEBHOOK_URL must be set")
		}

		window := alertConfig.ExpiringDays
		if params.Window > 0 {
			window = params.Window
		}

		_, _, otelShutdown, err := pantrypal.InitOtel(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
			return Results{}, err
		}
		defer func() {
			if err := otelShutdown(ctx); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()

		backend, closeBackend, err := storage.Open(ctx, storageConfig)
		if err != nil {
			slog.Error("SETUP: Failed to open storage", "error", err)
			return Results{}, err
		}
		defer closeBackend() // nolint: errcheck

		store := pantry.NewStore(ctx, backend, pantrypal.NewStdoutEventLogger())
		slog.Info("SETUP: Pantry loaded", "items", len(store.Items()))

		slackClient := alerts.NewSlackClient(alertConfig.SlackWebhookURL, &http.Client{Timeout: 10 * time.Second})
		digest, err := alerts.Check(ctx, store.Items(), store.Today(), window, slackClient, alertConfig.SlackChannel)
		if err != nil {
			slog.Error("RESULT: Expiry check failed", "error", err)
			return Results{Digest: digest}, err
		}

		return Results{Digest: digest, Notified: !digest.Empty()}, nil
	}

	lambda.Start(fn)
}
