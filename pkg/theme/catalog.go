package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// ErrUnknownTheme is returned when a selection names a theme that was never
// registered.
var ErrUnknownTheme = errors.New("theme: unknown theme")

type manifestRegistrar interface {
	Register(manifest *gotheme.Manifest) error
}

// Catalog keeps the go-theme manifests available to profiles and selects
// them by name and variant.
type Catalog struct {
	mu             sync.RWMutex
	registry       manifestRegistrar
	manifests      map[string]*gotheme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ gotheme.ThemeSelector = (*Catalog)(nil)

// NewCatalog builds an empty catalog. defaultTheme and defaultVariant are
// used when a selection leaves them blank.
func NewCatalog(defaultTheme, defaultVariant string) *Catalog {
	return &Catalog{
		registry:       gotheme.NewRegistry(),
		manifests:      make(map[string]*gotheme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
}

// Register validates the manifest through go-theme, checks the primary
// color of the base tokens and of every variant, and makes it selectable.
func (c *Catalog) Register(manifest *gotheme.Manifest) error {
	if manifest == nil {
		return fmt.Errorf("theme: manifest is required")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return fmt.Errorf("theme: manifest name is required")
	}

	if err := fromTokens(manifest.Tokens).Validate(); err != nil {
		return fmt.Errorf("theme: register %q: %w", name, err)
	}
	for variantName, variant := range manifest.Variants {
		if err := fromTokens(variant.Tokens).Validate(); err != nil {
			return fmt.Errorf("theme: register %q variant %q: %w", name, variantName, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.manifests[name]; exists {
		return fmt.Errorf("theme: %q already registered", name)
	}
	if err := c.registry.Register(manifest); err != nil {
		return fmt.Errorf("theme: register %q: %w", name, err)
	}
	c.manifests[name] = manifest
	return nil
}

// Names lists the registered theme names.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements gotheme.ThemeSelector. An unknown variant falls back to
// the base manifest.
func (c *Catalog) Select(name, variant string, _ ...gotheme.QueryOption) (*gotheme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = c.defaultVariant
	}

	c.mu.RLock()
	manifest, ok := c.manifests[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	if _, ok := manifest.Variants[variant]; !ok {
		variant = ""
	}
	return &gotheme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// Theme selects name/variant and converts it to a Theme.
func (c *Catalog) Theme(name, variant string) (Theme, error) {
	selection, err := c.Select(name, variant)
	if err != nil {
		return Theme{}, err
	}
	return FromSelection(selection), nil
}

// FromSelection reads the theme tokens of a go-theme selection. Variant
// tokens override the base manifest.
func FromSelection(selection *gotheme.Selection) Theme {
	if selection == nil || selection.Manifest == nil {
		return Theme{}
	}
	manifest := selection.Manifest
	out := fromTokens(manifest.Tokens)
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		out = out.Merge(fromTokens(variant.Tokens))
	}
	return out
}

func fromTokens(tokens map[string]string) Theme {
	return Theme{
		PrimaryColor: tokens[TokenPrimaryColor],
		FontFamily:   tokens[TokenFontFamily],
	}
}
