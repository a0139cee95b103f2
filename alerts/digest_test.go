package alerts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pantrypal/alerts"
	"pantrypal/pantry"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

var today = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

func item(name string, offset int) pantry.Item {
	return pantry.Item{Name: name, ExpirationDate: today.AddDate(0, 0, offset).Format(pantry.DateLayout)}
}

type fakeNotifier struct {
	channel string
	text    string
	calls   int
	err     error
}

func (f *fakeNotifier) PostMessage(ctx context.Context, channel, message string) error {
	f.calls++
	f.channel = channel
	f.text = message
	return f.err
}

func TestNewDigest(t *testing.T) {
	items := []pantry.Item{
		item("Milk", -2),
		item("Bread", 0),
		item("Spinach", 1),
		item("Eggs", 3),
		item("Cheese", 4),
		{Name: "Rice"},
	}

	d := alerts.NewDigest(items, today, 3)
	should.Equal(t, "2025-09-01", d.Date)
	must.Len(t, d.Expired, 1)
	must.Len(t, d.ExpiringToday, 1)
	must.Len(t, d.ExpiringSoon, 2)
	should.Equal(t, "Spinach", d.ExpiringSoon[0].Name)
	should.False(t, d.Empty())
}

func TestDigest_Headline(t *testing.T) {
	tests := []struct {
		name  string
		items []pantry.Item
		want  string
	}{
		{"expired wins", []pantry.Item{item("a", -1), item("b", 0)}, "1 item has expired!"},
		{"several expired", []pantry.Item{item("a", -1), item("b", -5)}, "2 items have expired!"},
		{"today", []pantry.Item{item("a", 0), item("b", 2)}, "1 item expires today!"},
		{"soon", []pantry.Item{item("a", 2), item("b", 3)}, "2 items expire in the next 3 days"},
		{"single soon", []pantry.Item{item("a", 1)}, "1 item expires in the next 3 days"},
		{"nothing", []pantry.Item{item("a", 10)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			should.Equal(t, tt.want, alerts.NewDigest(tt.items, today, 3).Headline())
		})
	}
}

func TestDigest_Text(t *testing.T) {
	d := alerts.NewDigest([]pantry.Item{item("Milk", -1), item("Yogurt", -3), item("Kale", 2)}, today, 3)
	should.Equal(t, "*2 items have expired!*\nExpired: Milk, Yogurt\nWithin 3 days: Kale", d.Text())
	should.Empty(t, alerts.NewDigest(nil, today, 3).Text())
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("posts a non-empty digest", func(t *testing.T) {
		n := &fakeNotifier{}
		d, err := alerts.Check(ctx, []pantry.Item{item("Bread", 0)}, today, 3, n, "#pantry")
		must.NoError(t, err)
		should.Equal(t, 1, n.calls)
		should.Equal(t, "#pantry", n.channel)
		should.Equal(t, d.Text(), n.text)
	})

	t.Run("skips an empty digest", func(t *testing.T) {
		n := &fakeNotifier{}
		sent, err := alerts.Notify(ctx, n, "#pantry", alerts.NewDigest(nil, today, 3))
		must.NoError(t, err)
		should.False(t, sent)
		should.Zero(t, n.calls)
	})

	t.Run("delivery failure", func(t *testing.T) {
		boom := errors.New("webhook down")
		n := &fakeNotifier{err: boom}
		_, err := alerts.Check(ctx, []pantry.Item{item("Bread", -1)}, today, 3, n, "#pantry")
		should.ErrorIs(t, err, boom)
	})
}
