// Package alerts turns the pantry's expiration state into a digest and delivers it to Slack.
package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"pantrypal"
	"pantrypal/pantry"
)

// Digest buckets the pantry by urgency. Items without a date, or further out than Window
// days, are not included.
type Digest struct {
	Date          string        `json:"date"`
	Window        int           `json:"window"`
	Expired       []pantry.Item `json:"expired"`
	ExpiringToday []pantry.Item `json:"expiringToday"`
	ExpiringSoon  []pantry.Item `json:"expiringSoon"`
}

func NewDigest(items []pantry.Item, today time.Time, window int) Digest {
	d := Digest{
		Date:          today.Format(pantry.DateLayout),
		Window:        window,
		Expired:       []pantry.Item{},
		ExpiringToday: []pantry.Item{},
		ExpiringSoon:  []pantry.Item{},
	}
	for _, it := range items {
		days, ok := pantry.DaysUntilExpiration(it, today)
		switch {
		case !ok:
		case days < 0:
			d.Expired = append(d.Expired, it)
		case days == 0:
			d.ExpiringToday = append(d.ExpiringToday, it)
		case days <= window:
			d.ExpiringSoon = append(d.ExpiringSoon, it)
		}
	}
	return d
}

func (d Digest) Empty() bool {
	return len(d.Expired)+len(d.ExpiringToday)+len(d.ExpiringSoon) == 0
}

// Headline is the one-line summary, naming the most urgent bucket only.
func (d Digest) Headline() string {
	switch {
	case len(d.Expired) > 0:
		return plural(len(d.Expired), "item has", "items have") + " expired!"
	case len(d.ExpiringToday) > 0:
		return plural(len(d.ExpiringToday), "item expires", "items expire") + " today!"
	case len(d.ExpiringSoon) > 0:
		return plural(len(d.ExpiringSoon), "item expires", "items expire") + fmt.Sprintf(" in the next %d days", d.Window)
	default:
		return ""
	}
}

// Text renders the full Slack message.
func (d Digest) Text() string {
	if d.Empty() {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", d.Headline())
	section := func(title string, items []pantry.Item) {
		if len(items) == 0 {
			return
		}
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = it.Name
		}
		fmt.Fprintf(&b, "%s: %s\n", title, strings.Join(names, ", "))
	}
	section("Expired", d.Expired)
	section("Expires today", d.ExpiringToday)
	section(fmt.Sprintf("Within %d days", d.Window), d.ExpiringSoon)
	return strings.TrimRight(b.String(), "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// Notify posts d unless it is empty. It reports whether a message was sent.
func Notify(ctx context.Context, n pantrypal.Notifier, channel string, d Digest) (bool, error) {
	if d.Empty() {
		slog.Info("ALERTS: Nothing expiring, skipping notification")
		return false, nil
	}
	if err := n.PostMessage(ctx, channel, d.Text()); err != nil {
		return false, fmt.Errorf("failed to post digest: %w", err)
	}
	slog.Info("ALERTS: Digest posted", "channel", channel, "expired", len(d.Expired), "today", len(d.ExpiringToday), "soon", len(d.ExpiringSoon))
	return true, nil
}

// Check builds the digest for items and sends it. It is the whole expiry-check job.
func Check(ctx context.Context, items []pantry.Item, today time.Time, window int, n pantrypal.Notifier, channel string) (Digest, error) {
	ctx, span := otel.Tracer(pantrypal.TracerNameExpiryCheck).Start(ctx, "alerts.Check")
	defer span.End()

	d := NewDigest(items, today, window)
	span.SetAttributes(
		attribute.Int("items", len(items)),
		attribute.Int("expired", len(d.Expired)),
		attribute.Int("expiring_today", len(d.ExpiringToday)),
		attribute.Int("expiring_soon", len(d.ExpiringSoon)),
	)

	if _, err := Notify(ctx, n, channel, d); err != nil {
		span.SetStatus(codes.Error, "notification failed")
		span.RecordError(err)
		return d, err
	}
	return d, nil
}
