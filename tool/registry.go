package tool

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/llmcore/provider"
)

// DefaultParallelism bounds how many calls ExecuteAll runs at once.
const DefaultParallelism = 4

// Registry keeps the mapping between tool names and implementations.
// It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	tools       map[string]Tool
	parallelism int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:       make(map[string]Tool),
		parallelism: DefaultParallelism,
	}
}

// Register adds a handler under the tool's name. The descriptor is
// snapshotted; the registry does not keep t.
func (r *Registry) Register(t provider.Tool, h Handler) error {
	if t == nil {
		return fmt.Errorf("%w: tool is nil", provider.ErrInvalidInput)
	}
	return r.Add(NewTool(provider.Describe(t), h))
}

// Add registers tools built with New or NewTool.
func (r *Registry) Add(tools ...Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return fmt.Errorf("%w: tool name is empty", provider.ErrInvalidInput)
		}
		if t.Handler == nil {
			return fmt.Errorf("%w: tool %q has no handler", provider.ErrInvalidInput, name)
		}
		if _, exists := r.tools[name]; exists {
			return fmt.Errorf("%w: %q already registered", provider.ErrDuplicateTool, name)
		}
		r.tools[name] = t
	}
	return nil
}

// Remove deletes a tool. Removing an unknown name is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// SetParallelism bounds how many calls ExecuteAll runs at once.
// Values below 1 mean sequential execution.
func (r *Registry) SetParallelism(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parallelism = max(n, 1)
}

// Get fetches a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tools returns the descriptors to advertise in a Request, sorted by name.
// Handlers are not included.
func (r *Registry) Tools() []provider.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]provider.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.ToolSpec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Execute runs the tool a call names.
func (r *Registry) Execute(ctx context.Context, call provider.ToolCall) (string, error) {
	t, ok := r.Get(call.Name)
	if !ok {
		return "", fmt.Errorf("%w: %q", provider.ErrUnknownTool, call.Name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out, err := t.Handler(ctx, call.Arguments)
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", call.Name, err)
	}
	return out, nil
}

// ExecuteAll runs every call of inv and returns one tool-result message per
// call, in call order. A failed call is reported to the model in its message
// rather than aborting the others.
func (r *Registry) ExecuteAll(ctx context.Context, inv provider.ToolInvocation) []provider.Message {
	r.mu.RLock()
	limit := r.parallelism
	r.mu.RUnlock()

	results := make([]provider.Message, len(inv.Calls))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, call := range inv.Calls {
		g.Go(func() error {
			out, err := r.Execute(ctx, call)
			if err != nil {
				out = ErrorContent(err)
			}
			results[i] = provider.NewToolResultMessage(call, out)
			if err != nil {
				results[i].Metadata = provider.Metadata{}
				_ = results[i].Metadata.Set(MetadataError, true)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// MetadataError marks a tool-result message whose call failed.
const MetadataError = "tool_error"

// ErrorContent formats a tool failure for the model.
func ErrorContent(err error) string {
	return "Error: " + err.Error()
}
