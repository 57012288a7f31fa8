// Package config loads the profilegen configuration: server settings,
// theme manifests, the agent directory and seed profiles.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/theme"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

// Environment variables read by ApplyEnv.
const (
	EnvAddr      = "PROFILEGEN_ADDR"
	EnvOrigin    = "PROFILEGEN_ORIGIN"
	EnvConfig    = "PROFILEGEN_CONFIG"
	EnvLogLevel  = "PROFILEGEN_LOG_LEVEL"
	EnvTemplates = "PROFILEGEN_TEMPLATES_DIR"
)

// Defaults.
const (
	DefaultAddr   = ":8484"
	DefaultOrigin = "http://localhost:8484"
)

// Config is the root configuration document.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Log       LogConfig       `json:"log" yaml:"log"`
	Templates TemplatesConfig `json:"templates" yaml:"templates"`
	Theme     string          `json:"theme" yaml:"theme"`
	Themes    []ThemeConfig   `json:"themes" yaml:"themes"`
	Agents    []profile.Agent `json:"agents" yaml:"agents"`
	Profiles  []ProfileConfig `json:"profiles" yaml:"profiles"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	// Origin is the public origin used to build share links. Empty means
	// the origin is taken from each request.
	Origin string `json:"origin" yaml:"origin"`
	// Username is the profile edited on /profile.
	Username string `json:"username" yaml:"username"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// TemplatesConfig configures template loading.
type TemplatesConfig struct {
	// Dir holds templates that replace the embedded ones with the same
	// path (e.g. templates/title.tpl). Empty uses the embedded set only.
	Dir string `json:"dir" yaml:"dir"`
}

// ThemeConfig declares a go-theme manifest.
type ThemeConfig struct {
	Name     string                   `json:"name" yaml:"name"`
	Version  string                   `json:"version" yaml:"version"`
	Tokens   map[string]string        `json:"tokens" yaml:"tokens"`
	Variants map[string]VariantConfig `json:"variants" yaml:"variants"`
}

// VariantConfig declares the token overrides of a theme variant.
type VariantConfig struct {
	Tokens map[string]string `json:"tokens" yaml:"tokens"`
}

// ProfileConfig declares a seed profile.
type ProfileConfig struct {
	Username    string         `json:"username" yaml:"username"`
	DisplayName string         `json:"displayName" yaml:"displayName"`
	Theme       ThemeRefConfig `json:"theme" yaml:"theme"`
	Widgets     []WidgetConfig `json:"widgets" yaml:"widgets"`
}

// ThemeRefConfig selects a theme for a profile.
type ThemeRefConfig struct {
	Name      string      `json:"name" yaml:"name"`
	Variant   string      `json:"variant" yaml:"variant"`
	Overrides theme.Theme `json:"overrides" yaml:"overrides"`
}

// WidgetConfig declares a widget instance. Data mirrors the widget's JSON
// shape.
type WidgetConfig struct {
	ID   string         `json:"id" yaml:"id"`
	Type string         `json:"type" yaml:"type"`
	Data map[string]any `json:"data" yaml:"data"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:     DefaultAddr,
			Origin:   DefaultOrigin,
			Username: "username",
		},
		Log:   LogConfig{Level: "info"},
		Theme: "default",
		Themes: []ThemeConfig{{
			Name:    "default",
			Version: "1.0.0",
			Tokens: map[string]string{
				theme.TokenPrimaryColor: theme.DefaultTextColor,
				theme.TokenFontFamily:   string(theme.FamilySans),
			},
		}},
	}
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are not an error.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// LoadFS reads path from fsys on top of Default.
func LoadFS(fsys fs.FS, path string) (Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a JSON or YAML document on top of Default. Lists replace
// the defaults; scalars left empty keep them.
func Parse(data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		cfg = Default()
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables read through
// lookup (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvAddr); ok && strings.TrimSpace(v) != "" {
		c.Server.Addr = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvOrigin); ok {
		c.Server.Origin = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.Log.Level = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvTemplates); ok {
		c.Templates.Dir = strings.TrimSpace(v)
	}
}

// Validate checks references between sections. All problems are reported.
func (c Config) Validate() error {
	var errs []error

	themes := make(map[string]bool, len(c.Themes))
	for i, th := range c.Themes {
		name := strings.TrimSpace(th.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("themes[%d]: name is required", i))
		case themes[name]:
			errs = append(errs, fmt.Errorf("themes[%d]: duplicate theme %q", i, name))
		}
		themes[name] = true
	}

	registry := widgets.NewRegistry()
	users := make(map[string]bool, len(c.Profiles))
	for i, p := range c.Profiles {
		username := strings.ToLower(strings.TrimSpace(p.Username))
		if username == "" {
			errs = append(errs, fmt.Errorf("profiles[%d]: username is required", i))
		} else if users[username] {
			errs = append(errs, fmt.Errorf("profiles[%d]: duplicate username %q", i, p.Username))
		}
		users[username] = true

		if name := strings.TrimSpace(p.Theme.Name); name != "" && !themes[name] {
			errs = append(errs, fmt.Errorf("profiles[%d]: unknown theme %q", i, name))
		}
		if err := p.Theme.Overrides.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("profiles[%d].theme.overrides: %w", i, err))
		}
		for j, w := range p.Widgets {
			if _, err := registry.Lookup(widgets.WidgetType(w.Type)); err != nil {
				errs = append(errs, fmt.Errorf("profiles[%d].widgets[%d]: %w", i, j, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Manifests converts the theme section into go-theme manifests.
func (c Config) Manifests() []*gotheme.Manifest {
	out := make([]*gotheme.Manifest, 0, len(c.Themes))
	for _, th := range c.Themes {
		manifest := &gotheme.Manifest{
			Name:    strings.TrimSpace(th.Name),
			Version: th.Version,
			Tokens:  cloneTokens(th.Tokens),
		}
		if manifest.Version == "" {
			manifest.Version = "1.0.0"
		}
		if len(th.Variants) > 0 {
			manifest.Variants = make(map[string]gotheme.Variant, len(th.Variants))
			for name, variant := range th.Variants {
				manifest.Variants[name] = gotheme.Variant{Tokens: cloneTokens(variant.Tokens)}
			}
		}
		out = append(out, manifest)
	}
	return out
}

// Catalog registers every configured theme in a new catalog.
func (c Config) Catalog() (*theme.Catalog, error) {
	catalog := theme.NewCatalog(c.Theme, "")
	for _, manifest := range c.Manifests() {
		if err := catalog.Register(manifest); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return catalog, nil
}

// Directory builds the agent directory.
func (c Config) Directory() *profile.Directory {
	return profile.NewDirectory(c.Agents...)
}

// SeedProfiles converts the profiles section.
func (c Config) SeedProfiles() ([]profile.Profile, error) {
	registry := widgets.NewRegistry()
	out := make([]profile.Profile, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		instances := make([]profile.Instance, 0, len(p.Widgets))
		for _, w := range p.Widgets {
			var data json.RawMessage
			if w.Data != nil {
				raw, err := json.Marshal(w.Data)
				if err != nil {
					return nil, fmt.Errorf("config: profile %q widget %q: %w", p.Username, w.ID, err)
				}
				data = raw
			}
			descriptor, err := registry.Lookup(widgets.WidgetType(w.Type))
			if err != nil {
				return nil, fmt.Errorf("config: profile %q widget %q: %w", p.Username, w.ID, err)
			}
			instances = append(instances, profile.Instance{
				ID:   strings.TrimSpace(w.ID),
				Type: descriptor.Metadata().Type,
				Data: data,
			})
		}
		out = append(out, profile.Profile{
			Username:    strings.TrimSpace(p.Username),
			DisplayName: p.DisplayName,
			Theme: profile.ThemeRef{
				Name:      p.Theme.Name,
				Variant:   p.Theme.Variant,
				Overrides: p.Theme.Overrides,
			},
			Widgets: instances,
		})
	}
	return out, nil
}

// Store seeds an in-memory profile store.
func (c Config) Store() (*profile.MemoryStore, error) {
	seed, err := c.SeedProfiles()
	if err != nil {
		return nil, err
	}
	return profile.NewMemoryStore(seed...)
}

func cloneTokens(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
