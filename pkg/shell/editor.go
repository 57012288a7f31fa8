package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-profilegen/pkg/profile"
	rendertemplate "github.com/goliatone/go-profilegen/pkg/render/template"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

const editorTemplate = "templates/editor.tpl"

// SourceAgents is the Field.Source served from the agent directory.
const SourceAgents = "agents"

// EditorState carries a rejected submission back into the editor so the
// form shows what the user typed next to the validation messages.
type EditorState struct {
	// Drafts holds the submitted payload per widget id.
	Drafts map[string]json.RawMessage
	// Results holds the validation outcome per widget id.
	Results map[string]widgets.ValidationResult
	// Notice is a flash message shown above the forms.
	Notice string
}

// Invalid records a rejected submission for id.
func (s *EditorState) Invalid(id string, draft json.RawMessage, result widgets.ValidationResult) {
	if s.Drafts == nil {
		s.Drafts = make(map[string]json.RawMessage)
	}
	if s.Results == nil {
		s.Results = make(map[string]widgets.ValidationResult)
	}
	s.Drafts[id] = draft
	s.Results[id] = result
}

// Editor renders one form per widget instance of a profile.
type Editor struct {
	widgets   *widgets.Registry
	agents    *profile.Directory
	templates rendertemplate.TemplateRenderer
	action    string
}

// NewEditor builds an editor. action is the form action prefix; the widget
// id is appended to it.
func NewEditor(registry *widgets.Registry, agents *profile.Directory, templates rendertemplate.TemplateRenderer, action string) (*Editor, error) {
	tr, err := resolveTemplates(templates)
	if err != nil {
		return nil, err
	}
	if registry == nil {
		registry = widgets.NewRegistry()
	}
	if agents == nil {
		agents = profile.NewDirectory()
	}
	if action == "" {
		action = "/profile/widgets"
	}
	return &Editor{
		widgets:   registry,
		agents:    agents,
		templates: tr,
		action:    strings.TrimRight(action, "/"),
	}, nil
}

// Render renders the editor forms for every widget of p.
func (e *Editor) Render(ctx context.Context, p profile.Profile, state EditorState) (template.HTML, error) {
	forms := make([]any, 0, len(p.Widgets))
	for _, instance := range p.Widgets {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		descriptor, err := e.widgets.Lookup(instance.Type)
		if err != nil {
			continue
		}

		data := instance.Data
		if draft, ok := state.Drafts[instance.ID]; ok {
			data = draft
		}
		values := map[string]any{}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &values); err != nil {
				values = map[string]any{}
			}
		}

		result := state.Results[instance.ID]
		meta := descriptor.Metadata()
		fields := make([]any, 0, len(meta.Fields))
		for _, field := range meta.Fields {
			fields = append(fields, e.fieldView(field, values[field.Name], result))
		}

		forms = append(forms, map[string]any{
			"id":     instance.ID,
			"type":   string(meta.Type),
			"label":  meta.Label,
			"icon":   string(meta.Icon.HTML()),
			"action": e.action + "/" + url.PathEscape(instance.ID),
			"fields": fields,
		})
	}

	out, err := e.templates.RenderTemplate(editorTemplate, map[string]any{
		"forms":  forms,
		"notice": state.Notice,
	})
	if err != nil {
		return "", fmt.Errorf("shell: render editor: %w", err)
	}
	return template.HTML(strings.TrimSpace(out)), nil
}

func (e *Editor) fieldView(field widgets.Field, value any, result widgets.ValidationResult) map[string]any {
	view := map[string]any{
		"name":  field.Name,
		"label": field.Label,
		"kind":  string(field.Kind),
	}
	if message, ok := result.Error(field.Name); ok {
		view["error"] = message
	}

	selected := selectedValues(value)
	switch field.Kind {
	case widgets.FieldKindText:
		if s, ok := value.(string); ok {
			view["value"] = s
		}
	default:
		options := make([]any, 0)
		for _, option := range e.options(field) {
			options = append(options, map[string]any{
				"value":    option.value,
				"label":    option.label,
				"selected": selected[option.value],
			})
		}
		view["options"] = options
	}
	return view
}

type option struct {
	value string
	label string
}

func (e *Editor) options(field widgets.Field) []option {
	if field.Source == SourceAgents {
		agents := e.agents.List()
		out := make([]option, 0, len(agents))
		for _, agent := range agents {
			out = append(out, option{value: agent.ID, label: agent.Name})
		}
		return out
	}
	out := make([]option, 0, len(field.Options))
	for _, value := range field.Options {
		out = append(out, option{value: value, label: value})
	}
	return out
}

func selectedValues(value any) map[string]bool {
	out := make(map[string]bool)
	switch v := value.(type) {
	case string:
		out[v] = true
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out[s] = true
			}
		}
	}
	return out
}

// DecodeForm builds the JSON payload of a widget from a submitted form.
// Text and select fields take the first value; multiselect fields take
// every non-empty value in submission order.
func DecodeForm(fields []widgets.Field, form url.Values) (json.RawMessage, error) {
	payload := make(map[string]any, len(fields))
	for _, field := range fields {
		switch field.Kind {
		case widgets.FieldKindMultiSelect:
			values := make([]string, 0, len(form[field.Name]))
			for _, value := range form[field.Name] {
				if value = strings.TrimSpace(value); value != "" {
					values = append(values, value)
				}
			}
			payload[field.Name] = values
		default:
			payload[field.Name] = form.Get(field.Name)
		}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("shell: encode form: %w", err)
	}
	return raw, nil
}

// MessageList flattens a validation result into field-ordered messages.
func MessageList(result widgets.ValidationResult) []string {
	errs := result.Errors()
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, errs[field])
	}
	return out
}
