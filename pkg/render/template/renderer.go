package template

import (
	"io"
)

// TemplateRenderer is the seam widget renderers and page layouts render
// through. Output is returned and, when writers are given, copied to each.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
