package pantrypal

import (
	"context"
	"net/http"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Notifier delivers a plain-text message to a named channel.
type Notifier interface {
	PostMessage(ctx context.Context, channel string, message string) error
}
