// Package orchestrator wires the widget registry, profile store, theme
// catalog and renderers behind the operations the HTTP server and the CLI
// expose: validate, edit and render profiles.
package orchestrator
