package public

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/render"
	rendertemplate "github.com/goliatone/go-profilegen/pkg/render/template"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

// AgentDirectory resolves agent ids in order, skipping unknown ids.
type AgentDirectory interface {
	Resolve(ids []string) []profile.Agent
}

var agentsTemplates = map[widgets.DisplayStyle]string{
	widgets.DisplayStyleCard:   "templates/agents_card.tpl",
	widgets.DisplayStyleList:   "templates/agents_list.tpl",
	widgets.DisplayStyleBubble: "templates/agents_bubble.tpl",
}

// AgentsRenderer renders the agents showcase block.
type AgentsRenderer struct {
	templates rendertemplate.TemplateRenderer
	directory AgentDirectory
}

var _ render.WidgetRenderer = (*AgentsRenderer)(nil)

// NewAgentsRenderer builds an agents renderer over directory. A nil
// template renderer selects the embedded templates.
func NewAgentsRenderer(templates rendertemplate.TemplateRenderer, directory AgentDirectory) (*AgentsRenderer, error) {
	if directory == nil {
		return nil, fmt.Errorf("public: agent directory is required")
	}
	tr, err := resolveTemplates(templates)
	if err != nil {
		return nil, err
	}
	return &AgentsRenderer{templates: tr, directory: directory}, nil
}

func (r *AgentsRenderer) Type() widgets.WidgetType {
	return widgets.TypeAgents
}

func (r *AgentsRenderer) Render(_ context.Context, data any, options render.RenderOptions) (template.HTML, error) {
	var agents widgets.AgentsWidgetData
	switch v := data.(type) {
	case widgets.AgentsWidgetData:
		agents = v
	case *widgets.AgentsWidgetData:
		if v == nil {
			return "", fmt.Errorf("public: agents data is nil")
		}
		agents = *v
	default:
		return "", fmt.Errorf("public: agents renderer cannot handle %T", data)
	}

	name, ok := agentsTemplates[agents.DisplayStyle]
	if !ok {
		return "", fmt.Errorf("public: unknown display style %q", agents.DisplayStyle)
	}

	resolved := options.Theme.Resolve()
	views := make([]any, 0, len(agents.AgentIDs))
	for _, agent := range r.directory.Resolve(agents.AgentIDs) {
		views = append(views, map[string]any{
			"id":        agent.ID,
			"name":      agent.Name,
			"role":      agent.Role,
			"avatarUrl": agent.AvatarURL,
			"initials":  agent.Initials(),
		})
	}

	out, err := r.templates.RenderTemplate(name, map[string]any{
		"title":       agents.Title,
		"agents":      views,
		"color":       resolved.Color,
		"familyClass": resolved.Family.Class(),
		"className":   strings.TrimSpace(options.ClassName),
	})
	if err != nil {
		return "", fmt.Errorf("public: render agents: %w", err)
	}
	return template.HTML(strings.TrimSpace(out)), nil
}
