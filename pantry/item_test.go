package pantry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want Number
	}{
		{raw: `2`, want: Number{Value: 2, Valid: true, Present: true}},
		{raw: `2.75`, want: Number{Value: 2.75, Valid: true, Present: true}},
		{raw: `"3"`, want: Number{Value: 3, Valid: true, Present: true}},
		{raw: `" 0.5 "`, want: Number{Value: 0.5, Valid: true, Present: true}},
		{raw: `""`, want: Number{Present: true}},
		{raw: `null`, want: Number{Present: true}},
		{raw: `"abc"`, want: Number{Present: true}},
		{raw: `-1`, want: Number{Present: true}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &n))
			assert.Equal(t, tt.want, n)
		})
	}

	t.Run("absent field", func(t *testing.T) {
		var in ItemInput
		require.NoError(t, json.Unmarshal([]byte(`{"name":"x"}`), &in))
		assert.False(t, in.Quantity.Present)
		assert.Equal(t, 1.0, in.Quantity.Or(1))
	})
}

func TestNumber_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: NumberOf(1.25)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.25,"b":null}`, string(b))
}

func TestParseUnit(t *testing.T) {
	tests := map[string]Unit{
		"units": UnitCount,
		"kg":    UnitKilogram,
		"G":     UnitGram,
		"l":     UnitLiter,
		"ML":    UnitMilliliter,
		"":      UnitCount,
		"cups":  UnitCount,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseUnit(in), "unit %q", in)
	}
	assert.Len(t, Units(), 5)
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2025-02-28")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), d)

	d, ok = ParseDate("2025-02-28T23:30:00-05:00")
	require.True(t, ok)
	assert.Equal(t, "2025-02-28", d.Format(DateLayout))

	_, ok = ParseDate("28/02/2025")
	assert.False(t, ok)
	assert.Equal(t, "", NormalizeDate("soon"))
}

func TestStatusOf(t *testing.T) {
	today := time.Date(2025, 1, 30, 9, 0, 0, 0, time.UTC)
	at := func(offset int) Item {
		return Item{ExpirationDate: today.AddDate(0, 0, offset).Format(DateLayout)}
	}

	tests := []struct {
		name       string
		item       Item
		wantStatus ExpirationStatus
		wantText   string
	}{
		{"no date", Item{}, StatusNoDate, "No expiration date"},
		{"expired", at(-2), StatusExpired, "Expired 2 days ago"},
		{"today", at(0), StatusToday, "Expires today"},
		{"tomorrow", at(1), StatusSoon, "Expires tomorrow"},
		{"three days", at(3), StatusSoon, "Expires in 3 days"},
		{"this week", at(7), StatusThisWeek, "Expires in 7 days"},
		{"later, across a month boundary", at(8), StatusFresh, "Expires in 8 days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, StatusOf(tt.item, today))
			assert.Equal(t, tt.wantText, ExpirationText(tt.item, today))
		})
	}
}
