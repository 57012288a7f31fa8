// Package theme resolves the presentation settings public widgets read at
// render time. A Theme is an explicit optional structure; empty fields mean
// "not supplied" and Resolve applies the defaults.
package theme

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultTextColor is used when no primary color is supplied.
const DefaultTextColor = "#111827"

// Token names read from go-theme manifests.
const (
	TokenPrimaryColor = "primaryColor"
	TokenFontFamily   = "fontFamily"
)

// Family is a resolved font family.
type Family string

const (
	FamilySans  Family = "sans"
	FamilySerif Family = "serif"
	FamilyMono  Family = "mono"
)

// Class returns the utility class applying the family.
func (f Family) Class() string {
	return "font-" + string(f)
}

// CSS returns a font-family declaration value for the family.
func (f Family) CSS() string {
	switch f {
	case FamilySerif:
		return "ui-serif, Georgia, serif"
	case FamilyMono:
		return "ui-monospace, Menlo, monospace"
	default:
		return "ui-sans-serif, system-ui, sans-serif"
	}
}

// Theme holds the optional presentation overrides of a profile.
type Theme struct {
	PrimaryColor string `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty"`
	FontFamily   string `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
}

// Resolved is a Theme with every default applied.
type Resolved struct {
	Color  string
	Family Family
}

// Resolve applies defaults: a blank or invalid color falls back to
// DefaultTextColor, "serif" and "mono" select those families and anything
// else is sans.
func (t Theme) Resolve() Resolved {
	resolved := Resolved{
		Color:  DefaultTextColor,
		Family: ResolveFamily(t.FontFamily),
	}
	if color, err := NormalizeColor(t.PrimaryColor); err == nil {
		resolved.Color = color
	}
	return resolved
}

// NormalizeColor parses a #rgb or #rrggbb color and returns it as
// lowercase #rrggbb, the only form written into style attributes.
func NormalizeColor(value string) (string, error) {
	value = strings.TrimSpace(value)
	if len(value) != 4 && len(value) != 7 {
		return "", fmt.Errorf("theme: invalid color %q", value)
	}
	for _, r := range value[1:] {
		if !isHexDigit(r) {
			return "", fmt.Errorf("theme: invalid color %q", value)
		}
	}
	color, err := colorful.Hex(strings.ToLower(value))
	if err != nil {
		return "", fmt.Errorf("theme: invalid color %q: %w", value, err)
	}
	return color.Hex(), nil
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// Validate reports a primary color that is set but not a hex color.
func (t Theme) Validate() error {
	if strings.TrimSpace(t.PrimaryColor) == "" {
		return nil
	}
	_, err := NormalizeColor(t.PrimaryColor)
	return err
}

// ResolveFamily maps a font family setting to a Family.
func ResolveFamily(value string) Family {
	switch value {
	case "serif":
		return FamilySerif
	case "mono":
		return FamilyMono
	default:
		return FamilySans
	}
}

// Merge returns t with every non-empty field of override applied.
func (t Theme) Merge(override Theme) Theme {
	if v := strings.TrimSpace(override.PrimaryColor); v != "" {
		t.PrimaryColor = v
	}
	if v := strings.TrimSpace(override.FontFamily); v != "" {
		t.FontFamily = v
	}
	return t
}

// IsZero reports whether nothing was supplied.
func (t Theme) IsZero() bool {
	return strings.TrimSpace(t.PrimaryColor) == "" && strings.TrimSpace(t.FontFamily) == ""
}
