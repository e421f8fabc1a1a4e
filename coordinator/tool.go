package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"stock-analysis/services"
)

// Handler executes one tool call. Handlers never fail; any problem is
// reported inside the returned string so the model can acknowledge it
// and continue with partial data.
type Handler func(ctx context.Context, args string) string

// Tool pairs a model-facing definition with its handler
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     Handler
}

// Registry is the fixed set of tools offered to the model on every run
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates a registry from the given tools. Registration
// order is preserved for the definitions sent to the model.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, tool := range tools {
		if _, exists := r.tools[tool.Name]; !exists {
			r.order = append(r.order, tool.Name)
		}
		r.tools[tool.Name] = tool
	}
	return r
}

// Definitions returns the tool definitions in registration order
func (r *Registry) Definitions() []services.ToolDefinition {
	defs := make([]services.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		defs = append(defs, services.ToolDefinition{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		})
	}
	return defs
}

// Lookup returns the named tool
func (r *Registry) Lookup(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns the registered tool names sorted alphabetically
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}

// symbolSchema is the input schema shared by the three fetcher tools
func symbolSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"symbol": map[string]any{
				"type":        "string",
				"description": "Stock ticker symbol (e.g., 'AAPL', 'MSFT', 'GOOGL')",
			},
		},
		"required": []string{"symbol"},
	}
}

// symbolFromArgs extracts the symbol argument from a tool-call JSON
// payload. A bare string argument is accepted as the symbol itself.
func symbolFromArgs(args string) (string, error) {
	trimmed := strings.TrimSpace(args)
	if trimmed == "" {
		return "", fmt.Errorf("missing symbol argument")
	}

	var payload struct {
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil && payload.Symbol != "" {
		return payload.Symbol, nil
	}

	var bare string
	if err := json.Unmarshal([]byte(trimmed), &bare); err == nil && bare != "" {
		return bare, nil
	}

	return "", fmt.Errorf("missing symbol argument in %q", args)
}

// SymbolTool builds a tool whose handler takes the parsed symbol. An
// unparsable argument payload becomes an error string for the model.
func SymbolTool(name, description string, report func(ctx context.Context, symbol string) string) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Parameters:  symbolSchema(),
		Handler: func(ctx context.Context, args string) string {
			symbol, err := symbolFromArgs(args)
			if err != nil {
				return fmt.Sprintf("Error: %s", err)
			}
			return report(ctx, symbol)
		},
	}
}
