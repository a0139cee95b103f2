package pantrypal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Fresh Produce", CategoryFreshProduce},
		{"  dairy & eggs ", CategoryDairyEggs},
		{"FROZEN", CategoryFrozen},
		{"", CategoryOther},
		{"Snacks", CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.in))
		})
	}
}

func TestCategories(t *testing.T) {
	all := Categories()
	require.Len(t, all, 8)
	assert.Equal(t, CategoryFreshProduce, all[0])
	assert.Equal(t, CategoryOther, all[7])

	all[0] = "mutated"
	assert.Equal(t, CategoryFreshProduce, Categories()[0], "callers get a copy")
}

func TestCategory_UnmarshalJSON(t *testing.T) {
	var v struct {
		Category Category `json:"category"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"category":"canned goods"}`), &v))
	assert.Equal(t, CategoryCannedGoods, v.Category)

	require.NoError(t, json.Unmarshal([]byte(`{"category":"mystery"}`), &v))
	assert.Equal(t, CategoryOther, v.Category)

	assert.Error(t, json.Unmarshal([]byte(`{"category":12}`), &v))
}
