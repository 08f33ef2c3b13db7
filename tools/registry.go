package tools

import (
	"sync"

	"github.com/lumenlabs/interactions-go/interaction"
)

// Registry is a read-mostly collection of tools looked up by name. It is
// safe for use from concurrently dispatched function calls.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Add registers tools, replacing any previous tool with the same name.
func (r *Registry) Add(ts ...Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range ts {
		r.tools[t.Name()] = t
	}
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// All returns the registered tools.
func (r *Registry) All() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	return out
}

// Declarations returns request declarations for every registered tool.
func (r *Registry) Declarations() ([]interaction.ToolDecl, error) {
	return Declarations(r.All()...)
}

// defaultRegistry is the optional process-wide registry, used purely for
// lookup by name as a fallback behind a request-scoped registry.
var defaultRegistry = NewRegistry()

// Register adds tools to the process-wide default registry. Typically
// called from init functions.
func Register(ts ...Tool) {
	defaultRegistry.Add(ts...)
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}
