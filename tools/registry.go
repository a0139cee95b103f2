package tools

import (
	"fmt"
	"sort"
)

// Registry maps tool names to implementations
type Registry map[string]Tool

// NewRegistry creates the tool registry over the three stores.
func NewRegistry(p PantryReader, s ShoppingReader, r RecipeReader) *Registry {
	all := []Tool{
		NewPantryGet(p),
		NewShoppingListGet(s),
		NewRecentRecipesGet(r),
	}
	registry := make(Registry, len(all))
	for _, t := range all {
		registry[t.Name()] = t
	}
	return &registry
}

// GetTools returns all tools in the registry, ordered by name
func (r *Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(*r))
	for _, tool := range *r {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r Registry) GetTool(name string) (Tool, error) {
	tool, exists := r[name]
	if !exists {
		return nil, fmt.Errorf("tool %q not found in registry", name)
	}
	return tool, nil
}
