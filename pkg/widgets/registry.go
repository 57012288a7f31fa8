package widgets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// Registry maps widget type tags to their descriptors. Lookups are case
// insensitive; the canonical tag is whatever the descriptor reports.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewRegistry constructs a registry with the built-in widget types
// registered.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry constructs a registry with nothing registered.
func NewEmptyRegistry() *Registry {
	return &Registry{descriptors: make(map[string]Descriptor)}
}

// Register adds a descriptor under its type tag. Duplicate tags return an
// error.
func (r *Registry) Register(descriptor Descriptor) error {
	if descriptor == nil {
		return fmt.Errorf("widgets: descriptor is required")
	}
	tag := descriptor.Metadata().Type
	key := registryKey(tag)
	if key == "" {
		return fmt.Errorf("widgets: descriptor type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[key]; exists {
		return fmt.Errorf("widgets: type %q already registered", tag)
	}
	r.descriptors[key] = descriptor
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(descriptor Descriptor) {
	if err := r.Register(descriptor); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor registered for tag.
func (r *Registry) Lookup(tag WidgetType) (Descriptor, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, tag)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptor, ok := r.descriptors[registryKey(tag)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, tag)
	}
	return descriptor, nil
}

// List returns every descriptor ordered by type tag.
func (r *Registry) List() []Descriptor {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	out := make([]Descriptor, 0, len(r.descriptors))
	for _, descriptor := range r.descriptors {
		out = append(out, descriptor)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Metadata().Type < out[j].Metadata().Type
	})
	return out
}

// Validate decodes raw into the data type registered for tag and runs its
// validator. Unknown tags and structurally malformed payloads return an
// error; user-facing problems are reported through the result.
func (r *Registry) Validate(tag WidgetType, raw []byte) (any, ValidationResult, error) {
	descriptor, err := r.Lookup(tag)
	if err != nil {
		return nil, ValidationResult{}, err
	}
	value, err := descriptor.Decode(raw)
	if err != nil {
		return nil, ValidationResult{}, err
	}
	result, err := descriptor.ValidateValue(value)
	if err != nil {
		return nil, ValidationResult{}, err
	}
	return value, result, nil
}

// Schemas returns the data schema of every registered type keyed by tag.
func (r *Registry) Schemas() openapi3.Schemas {
	schemas := make(openapi3.Schemas)
	for _, descriptor := range r.List() {
		schema := descriptor.Schema()
		if schema == nil {
			continue
		}
		schemas[string(descriptor.Metadata().Type)] = openapi3.NewSchemaRef("", schema)
	}
	return schemas
}

func registryKey(tag WidgetType) string {
	return strings.ToLower(strings.TrimSpace(string(tag)))
}

func (r *Registry) registerBuiltins() {
	r.MustRegister(AgentsConfig)
	r.MustRegister(TitleConfig)
}
