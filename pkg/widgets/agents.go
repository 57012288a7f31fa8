package widgets

import (
	"strings"
	"unicode/utf8"
)

// DisplayStyle selects how the agents block lays out its agents.
type DisplayStyle string

const (
	DisplayStyleCard   DisplayStyle = "card"
	DisplayStyleList   DisplayStyle = "list"
	DisplayStyleBubble DisplayStyle = "bubble"
)

// DisplayStyles lists the accepted display styles in editor order.
var DisplayStyles = []DisplayStyle{DisplayStyleCard, DisplayStyleList, DisplayStyleBubble}

// Valid reports whether s is one of the known display styles.
func (s DisplayStyle) Valid() bool {
	switch s {
	case DisplayStyleCard, DisplayStyleList, DisplayStyleBubble:
		return true
	}
	return false
}

// AgentsWidgetData is the data of the agents showcase block. AgentIDs order
// is the display order.
type AgentsWidgetData struct {
	Title        string       `json:"title"`
	AgentIDs     []string     `json:"agentIds"`
	DisplayStyle DisplayStyle `json:"displayStyle"`
}

// Agents widget field names, as used in ValidationResult errors.
const (
	FieldTitle        = "title"
	FieldAgentIDs     = "agentIds"
	FieldDisplayStyle = "displayStyle"
)

const (
	MaxAgentsTitleLength = 100
	MaxAgents            = 10
)

const (
	MsgTitleRequired       = "El título es requerido"
	MsgTitleTooLong        = "El título no puede tener más de 100 caracteres"
	MsgAgentsRequired      = "Debes seleccionar al menos un agente"
	MsgAgentsTooMany       = "No puedes seleccionar más de 10 agentes"
	MsgDisplayStyleInvalid = "Estilo de visualización inválido"
)

// ValidateAgents checks every field of the agents block and collects all
// failures. The title length is measured on the untrimmed value.
func ValidateAgents(data AgentsWidgetData) ValidationResult {
	errs := make(map[string]string)

	if strings.TrimSpace(data.Title) == "" {
		errs[FieldTitle] = MsgTitleRequired
	} else if utf8.RuneCountInString(data.Title) > MaxAgentsTitleLength {
		errs[FieldTitle] = MsgTitleTooLong
	}

	if len(data.AgentIDs) == 0 {
		errs[FieldAgentIDs] = MsgAgentsRequired
	} else if len(data.AgentIDs) > MaxAgents {
		errs[FieldAgentIDs] = MsgAgentsTooMany
	}

	if !data.DisplayStyle.Valid() {
		errs[FieldDisplayStyle] = MsgDisplayStyleInvalid
	}

	return NewValidationResult(errs)
}

// AgentsConfig is the agents showcase widget type.
var AgentsConfig = &Config[AgentsWidgetData]{
	Type:        TypeAgents,
	Label:       "Agentes",
	Description: "Muestra los agentes con los que tus visitantes pueden chatear",
	Icon:        agentsIcon,
	Fields: []Field{
		{Name: FieldTitle, Label: "Título", Kind: FieldKindText},
		{Name: FieldAgentIDs, Label: "Agentes", Kind: FieldKindMultiSelect, Source: "agents"},
		{
			Name:    FieldDisplayStyle,
			Label:   "Estilo de visualización",
			Kind:    FieldKindSelect,
			Options: []string{string(DisplayStyleCard), string(DisplayStyleList), string(DisplayStyleBubble)},
		},
	},
	DefaultData: AgentsWidgetData{
		Title:        "Chat con nuestros agentes",
		AgentIDs:     []string{},
		DisplayStyle: DisplayStyleCard,
	},
	Validator:  ValidateAgents,
	DataSchema: agentsSchema(),
}
