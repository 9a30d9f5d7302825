package tools

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"toolbench/internal/tracker"
)

// Handler is the function signature for tool implementations.
type Handler func(ctx context.Context, args Args) (string, error)

// Metadata describes a tool for the example generator prompt.
type Metadata struct {
	Capabilities   []string
	InputTypes     []string
	InputFormat    string
	OutputFormat   string
	CommonUseCases []string
}

// Tool defines a catalog entry with its handler.
type Tool struct {
	Name        string
	Description string
	Parameters  Schema
	Metadata    Metadata
	Handler     Handler
}

// Descriptor is the view of a tool handed to an agent. Func is already instrumented.
type Descriptor struct {
	Name        string
	Description string
	Parameters  *Schema
	Func        tracker.Func[Args]
	Enabled     bool
}

// Call invokes the descriptor's function.
func (d Descriptor) Call(ctx context.Context, args Args) (string, error) {
	if d.Func == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, d.Name)
	}
	return d.Func(ctx, args)
}

type entry struct {
	tool    Tool
	wrapped tracker.Func[Args]
	enabled bool
}

// Registry is the single source of truth for the tool catalog.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds a tool, wrapping its handler with schema validation and call tracking.
func (r *Registry) Register(tool Tool) error {
	name := strings.TrimSpace(tool.Name)
	if name == "" {
		return fmt.Errorf("tool name is required")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool %s: handler is required", name)
	}
	if tool.Parameters.Type == "" {
		tool.Parameters = ObjectSchema(nil)
	}
	validator, err := NewArgsValidator(tool.Parameters)
	if err != nil {
		return fmt.Errorf("tool %s: %w", name, err)
	}
	tool.Name = name
	handler := tool.Handler
	validated := func(ctx context.Context, args Args) (string, error) {
		if args == nil {
			args = Args{}
		}
		if err := validator.Validate(args); err != nil {
			return "", err
		}
		return handler(ctx, args)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.entries[name] = &entry{
		tool:    tool,
		wrapped: tracker.Instrumented(name, tracker.Func[Args](validated)),
		enabled: true,
	}
	r.order = append(r.order, name)
	return nil
}

// MustRegister registers a tool and panics on error.
func (r *Registry) MustRegister(tool Tool) {
	if err := r.Register(tool); err != nil {
		panic(err)
	}
}

// SetEnabled toggles whether a tool is offered to agents.
func (r *Registry) SetEnabled(name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	e.enabled = enabled
	return nil
}

// Lookup returns the registered tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return Tool{}, false
	}
	return e.tool, true
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// List returns tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].tool)
	}
	return out
}

// Descriptors returns agent-facing descriptors for the named tools, in registration order.
// With no names every registered tool is returned.
func (r *Registry) Descriptors(names ...string) ([]Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	selected := r.order
	if len(names) > 0 {
		for _, name := range names {
			if _, ok := r.entries[name]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
			}
		}
		selected = make([]string, 0, len(names))
		for _, name := range r.order {
			if slices.Contains(names, name) {
				selected = append(selected, name)
			}
		}
	}
	out := make([]Descriptor, 0, len(selected))
	for _, name := range selected {
		e := r.entries[name]
		params := e.tool.Parameters
		out = append(out, Descriptor{
			Name:        name,
			Description: e.tool.Description,
			Parameters:  &params,
			Func:        e.wrapped,
			Enabled:     e.enabled,
		})
	}
	return out, nil
}

// Call invokes a registered tool through its instrumented wrapper.
func (r *Registry) Call(ctx context.Context, name string, args Args) (string, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return e.wrapped(ctx, args)
}

// Unknown returns the names not present in the registry.
func (r *Registry) Unknown(names []string) []string {
	var missing []string
	for _, name := range names {
		if !r.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
