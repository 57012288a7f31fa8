package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-profilegen/pkg/widgets"
)

// Registry stores widget renderers by widget type, providing discovery and
// duplication safeguards.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]WidgetRenderer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]WidgetRenderer),
	}
}

func key(t widgets.WidgetType) string {
	return strings.ToLower(strings.TrimSpace(string(t)))
}

// Register adds a renderer by its Type(). Duplicate types return an error.
func (r *Registry) Register(renderer WidgetRenderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	k := key(renderer.Type())
	if k == "" {
		return fmt.Errorf("render: renderer type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[k]; exists {
		return fmt.Errorf("render: renderer %q already registered", renderer.Type())
	}

	r.renderers[k] = renderer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer WidgetRenderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves the renderer for a widget type.
func (r *Registry) Get(t widgets.WidgetType) (WidgetRenderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[key(t)]
	if !ok {
		return nil, fmt.Errorf("render: no renderer for %q: %w", t, widgets.ErrUnknownWidget)
	}
	return renderer, nil
}

// List returns the sorted widget types that have a renderer.
func (r *Registry) List() []widgets.WidgetType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]widgets.WidgetType, 0, len(r.renderers))
	for _, renderer := range r.renderers {
		out = append(out, renderer.Type())
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether a renderer is registered for t.
func (r *Registry) Has(t widgets.WidgetType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[key(t)]
	return ok
}
