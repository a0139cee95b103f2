// Package tools exposes read-only views of the stores as self-describing tools with JSON
// schemas, for agents and other programmatic callers.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"pantrypal/pantry"
	"pantrypal/recipes"
	"pantrypal/shopping"
)

type Tool interface {
	Name() string
	Title() string
	Description() string
	InputSchema() *jsonschema.Schema
	OutputSchema() *jsonschema.Schema
	Run(ctx context.Context, input map[string]any) (output map[string]any, err error)
}

// Call is a tool invocation as it arrives over the API.
type Call struct {
	Name      string         `json:"name"`
	Input     map[string]any `json:"input"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
}

// PantryReader is the part of *pantry.Store the tools need.
type PantryReader interface {
	Items() []pantry.Item
	Today() time.Time
}

type ShoppingReader interface {
	Items() []shopping.Item
}

type RecipeReader interface {
	RecentRecipes() []recipes.Details
}

// toMap round-trips v through JSON to keep tool outputs uniform.
func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}
	return m, nil
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(input map[string]any, key string) (int, bool, error) {
	v, ok := input[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), true, nil
	case int:
		return n, true, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false, fmt.Errorf("%s: %w", key, err)
		}
		return int(i), true, nil
	default:
		return 0, false, fmt.Errorf("%s: expected an integer, got %T", key, v)
	}
}
