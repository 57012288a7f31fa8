package theme

import (
	"errors"
	"testing"

	gotheme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name  string
		theme Theme
		want  Resolved
	}{
		{name: "zero", theme: Theme{}, want: Resolved{Color: DefaultTextColor, Family: FamilySans}},
		{name: "serif", theme: Theme{FontFamily: "serif"}, want: Resolved{Color: DefaultTextColor, Family: FamilySerif}},
		{name: "mono", theme: Theme{FontFamily: "mono"}, want: Resolved{Color: DefaultTextColor, Family: FamilyMono}},
		{name: "unknown family", theme: Theme{FontFamily: "cursive"}, want: Resolved{Color: DefaultTextColor, Family: FamilySans}},
		{name: "primary color", theme: Theme{PrimaryColor: "#ff0000"}, want: Resolved{Color: "#ff0000", Family: FamilySans}},
		{name: "blank color", theme: Theme{PrimaryColor: "  "}, want: Resolved{Color: DefaultTextColor, Family: FamilySans}},
		{name: "short hex color", theme: Theme{PrimaryColor: "#ABC"}, want: Resolved{Color: "#aabbcc", Family: FamilySans}},
		{name: "style injection", theme: Theme{PrimaryColor: "red; background: url(x)"}, want: Resolved{Color: DefaultTextColor, Family: FamilySans}},
		{name: "trailing declaration", theme: Theme{PrimaryColor: "#ff0000;}"}, want: Resolved{Color: DefaultTextColor, Family: FamilySans}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, tc.theme.Resolve()); diff != "" {
				t.Fatalf("resolve mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeColor(t *testing.T) {
	valid := map[string]string{
		"#0f766e":   "#0f766e",
		" #0F766E ": "#0f766e",
		"#fff":      "#ffffff",
	}
	for in, want := range valid {
		got, err := NormalizeColor(in)
		if err != nil {
			t.Fatalf("NormalizeColor(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("NormalizeColor(%q) = %q, want %q", in, got, want)
		}
	}

	invalid := []string{"", "red", "#12345", "#gggggg", "# 1 2 3", "#fff\"\u003e", "expression(alert(1))"}
	for _, in := range invalid {
		if _, err := NormalizeColor(in); err == nil {
			t.Fatalf("NormalizeColor(%q) should fail", in)
		}
	}

	if err := (Theme{}).Validate(); err != nil {
		t.Fatalf("empty theme should be valid: %v", err)
	}
	if err := (Theme{PrimaryColor: "blue;"}).Validate(); err == nil {
		t.Fatalf("expected invalid color error")
	}
}

func TestMerge(t *testing.T) {
	base := Theme{PrimaryColor: "#111111", FontFamily: "serif"}
	got := base.Merge(Theme{FontFamily: "mono"})
	if diff := cmp.Diff(Theme{PrimaryColor: "#111111", FontFamily: "mono"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func testManifest() *gotheme.Manifest {
	return &gotheme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			TokenPrimaryColor: "#123456",
			TokenFontFamily:   "serif",
		},
		Variants: map[string]gotheme.Variant{
			"dark": {
				Tokens: map[string]string{
					TokenPrimaryColor: "#f9fafb",
				},
			},
		},
	}
}

func TestCatalog_SelectAndConvert(t *testing.T) {
	catalog := NewCatalog("acme", "")
	if err := catalog.Register(testManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}

	base, err := catalog.Theme("", "")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	if diff := cmp.Diff(Theme{PrimaryColor: "#123456", FontFamily: "serif"}, base); diff != "" {
		t.Fatalf("base theme mismatch (-want +got):\n%s", diff)
	}

	dark, err := catalog.Theme("acme", "dark")
	if err != nil {
		t.Fatalf("theme dark: %v", err)
	}
	if diff := cmp.Diff(Theme{PrimaryColor: "#f9fafb", FontFamily: "serif"}, dark); diff != "" {
		t.Fatalf("variant theme mismatch (-want +got):\n%s", diff)
	}

	selection, err := catalog.Select("acme", "sepia")
	if err != nil {
		t.Fatalf("select unknown variant: %v", err)
	}
	if selection.Variant != "" {
		t.Fatalf("unknown variant should fall back to base, got %q", selection.Variant)
	}
}

func TestCatalog_Errors(t *testing.T) {
	catalog := NewCatalog("", "")
	if _, err := catalog.Select("missing", ""); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if err := catalog.Register(nil); err == nil {
		t.Fatalf("expected nil manifest error")
	}
	if err := catalog.Register(testManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := catalog.Register(testManifest()); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if diff := cmp.Diff([]string{"acme"}, catalog.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_RejectsInvalidColors(t *testing.T) {
	base := testManifest()
	base.Tokens[TokenPrimaryColor] = "#123456\" onmouseover=\"x"

	variant := testManifest()
	variant.Variants["dark"] = gotheme.Variant{Tokens: map[string]string{TokenPrimaryColor: "url(evil)"}}

	for name, manifest := range map[string]*gotheme.Manifest{"base": base, "variant": variant} {
		catalog := NewCatalog("acme", "")
		if err := catalog.Register(manifest); err == nil {
			t.Fatalf("%s: expected invalid color error", name)
		}
		if len(catalog.Names()) != 0 {
			t.Fatalf("%s: rejected manifest should not be selectable", name)
		}
	}
}
