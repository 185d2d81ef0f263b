package toolbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Handler executes a tool with the given JSON input and returns a text result.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is one registered tool: a globally unique name, a description and
// input schema for discovery, and the handler that performs the call.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// ErrToolNotFound is returned by Call when no tool has the requested name.
var ErrToolNotFound = errors.New("tool not found")

// ErrDuplicateTool is returned by Register when a tool name is already taken.
// Registration never overwrites: a silent replacement would make the earlier
// tool unreachable.
var ErrDuplicateTool = errors.New("duplicate tool name")

// ToolBox is the registry of callable tools. It is populated once at startup
// and treated as read-only afterwards, so lookups during dispatch need no
// locking.
type ToolBox struct {
	tools map[string]Tool
}

// New creates a new ToolBox ready for use.
func New() *ToolBox {
	return &ToolBox{
		tools: make(map[string]Tool),
	}
}

// Register adds one or more tools to the ToolBox. A name that is already
// registered fails with ErrDuplicateTool; earlier tools in the same call
// stay registered.
func (tb *ToolBox) Register(tools ...Tool) error {
	for _, t := range tools {
		if _, exists := tb.tools[t.Name]; exists {
			return fmt.Errorf("toolbox: register %q: %w", t.Name, ErrDuplicateTool)
		}
		tb.tools[t.Name] = t
	}

	return nil
}

// Get returns a tool by name and a boolean indicating whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Tools returns all registered tools sorted by name.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result
}

// Call resolves a tool by name and executes its handler. An unknown name
// returns an error wrapping ErrToolNotFound; handler errors pass through
// unchanged so callers can classify them.
func (tb *ToolBox) Call(ctx context.Context, name string, input json.RawMessage) (string, error) {
	t, ok := tb.tools[name]
	if !ok {
		return "", fmt.Errorf("toolbox: %q: %w", name, ErrToolNotFound)
	}

	return t.Handler(ctx, input)
}
