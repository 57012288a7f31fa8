// Package template defines the template rendering contract shared by the
// public widget renderers and the page shell, plus a pongo2-backed adapter
// in the gotemplate subpackage.
package template
