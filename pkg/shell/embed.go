package shell

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	rendertemplate "github.com/goliatone/go-profilegen/pkg/render/template"
	gotemplate "github.com/goliatone/go-profilegen/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded shell templates (layout and editor).
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

var (
	defaultEngineOnce sync.Once
	defaultEngine     rendertemplate.TemplateRenderer
	defaultEngineErr  error
)

func resolveTemplates(tr rendertemplate.TemplateRenderer) (rendertemplate.TemplateRenderer, error) {
	if tr != nil {
		return tr, nil
	}
	defaultEngineOnce.Do(func() {
		engine, err := gotemplate.New(gotemplate.WithFS(TemplatesFS()))
		if err != nil {
			defaultEngineErr = fmt.Errorf("shell: configure template renderer: %w", err)
			return
		}
		defaultEngine = engine
	})
	return defaultEngine, defaultEngineErr
}
