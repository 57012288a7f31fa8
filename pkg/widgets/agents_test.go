package widgets

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func agentIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("a%d", i+1)
	}
	return ids
}

func validAgents() AgentsWidgetData {
	return AgentsWidgetData{Title: "Chat", AgentIDs: []string{"a1", "a2"}, DisplayStyle: DisplayStyleCard}
}

func TestValidateAgents_Title(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{name: "empty", title: "", want: MsgTitleRequired},
		{name: "spaces", title: "   ", want: MsgTitleRequired},
		{name: "whitespace mix", title: "\t\n ", want: MsgTitleRequired},
		{name: "long whitespace", title: strings.Repeat(" ", 150), want: MsgTitleRequired},
		{name: "over limit", title: strings.Repeat("a", 101), want: MsgTitleTooLong},
		{name: "over limit with padding", title: " " + strings.Repeat("a", 100), want: MsgTitleTooLong},
		{name: "multibyte at limit", title: strings.Repeat("é", 100), want: ""},
		{name: "at limit", title: strings.Repeat("a", 100), want: ""},
		{name: "short", title: "Chat", want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			data := validAgents()
			data.Title = tc.title

			got, ok := ValidateAgents(data).Error(FieldTitle)
			if tc.want == "" {
				if ok {
					t.Fatalf("expected no title error, got %q", got)
				}
				return
			}
			if got != tc.want {
				t.Fatalf("title error: want %q, got %q", tc.want, got)
			}
			if tc.want == MsgTitleTooLong && got == MsgTitleRequired {
				t.Fatalf("required message must not appear for long titles")
			}
		})
	}
}

func TestValidateAgents_AgentIDs(t *testing.T) {
	cases := []struct {
		name string
		ids  []string
		want string
	}{
		{name: "nil", ids: nil, want: MsgAgentsRequired},
		{name: "empty", ids: []string{}, want: MsgAgentsRequired},
		{name: "eleven", ids: agentIDs(11), want: MsgAgentsTooMany},
	}
	for n := 1; n <= MaxAgents; n++ {
		cases = append(cases, struct {
			name string
			ids  []string
			want string
		}{name: fmt.Sprintf("%d ids", n), ids: agentIDs(n)})
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			data := validAgents()
			data.AgentIDs = tc.ids

			got, ok := ValidateAgents(data).Error(FieldAgentIDs)
			if tc.want == "" {
				if ok {
					t.Fatalf("expected no agentIds error, got %q", got)
				}
				return
			}
			if got != tc.want {
				t.Fatalf("agentIds error: want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidateAgents_DisplayStyle(t *testing.T) {
	for _, style := range []DisplayStyle{"card", "list", "bubble"} {
		data := validAgents()
		data.DisplayStyle = style
		if msg, ok := ValidateAgents(data).Error(FieldDisplayStyle); ok {
			t.Fatalf("style %q: unexpected error %q", style, msg)
		}
	}

	for _, style := range []DisplayStyle{"grid", "", "Card", " card"} {
		data := validAgents()
		data.DisplayStyle = style
		if msg, _ := ValidateAgents(data).Error(FieldDisplayStyle); msg != MsgDisplayStyleInvalid {
			t.Fatalf("style %q: want %q, got %q", style, MsgDisplayStyleInvalid, msg)
		}
	}
}

func TestValidateAgents_EndToEnd(t *testing.T) {
	valid := ValidateAgents(AgentsWidgetData{Title: "Chat", AgentIDs: []string{"a1", "a2"}, DisplayStyle: "card"})
	if !valid.IsValid() {
		t.Fatalf("expected valid result, got %v", valid.Errors())
	}
	if diff := cmp.Diff(map[string]string{}, valid.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	invalid := ValidateAgents(AgentsWidgetData{Title: "", AgentIDs: []string{}, DisplayStyle: "grid"})
	if invalid.IsValid() {
		t.Fatalf("expected invalid result")
	}
	want := map[string]string{
		FieldTitle:        MsgTitleRequired,
		FieldAgentIDs:     MsgAgentsRequired,
		FieldDisplayStyle: MsgDisplayStyleInvalid,
	}
	if diff := cmp.Diff(want, invalid.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAgents_ZeroValue(t *testing.T) {
	result := ValidateAgents(AgentsWidgetData{})
	if len(result.Errors()) != 3 {
		t.Fatalf("expected all three fields to fail, got %v", result.Errors())
	}
}

func TestValidateAgents_IsValidMatchesErrors(t *testing.T) {
	inputs := []AgentsWidgetData{
		{},
		validAgents(),
		{Title: "x", AgentIDs: agentIDs(3), DisplayStyle: "bubble"},
		{Title: strings.Repeat("x", 101), AgentIDs: agentIDs(1), DisplayStyle: "list"},
		{Title: "ok", AgentIDs: agentIDs(12), DisplayStyle: "list"},
	}
	for i, input := range inputs {
		result := ValidateAgents(input)
		if result.IsValid() != (len(result.Errors()) == 0) {
			t.Fatalf("input %d: isValid=%v with errors %v", i, result.IsValid(), result.Errors())
		}
	}
}

func TestAgentsConfig_Descriptor(t *testing.T) {
	meta := AgentsConfig.Metadata()
	if meta.Type != TypeAgents || meta.Label != "Agentes" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.Description == "" || meta.Icon.Name == "" || meta.Icon.SVG == "" {
		t.Fatalf("expected description and icon, got %+v", meta)
	}

	want := AgentsWidgetData{Title: "Chat con nuestros agentes", AgentIDs: []string{}, DisplayStyle: DisplayStyleCard}
	if diff := cmp.Diff(want, AgentsConfig.DefaultData); diff != "" {
		t.Fatalf("default data mismatch (-want +got):\n%s", diff)
	}

	// Defaults seed a widget that still needs agents picked.
	result := AgentsConfig.Validate(AgentsConfig.DefaultData)
	if diff := cmp.Diff(map[string]string{FieldAgentIDs: MsgAgentsRequired}, result.Errors()); diff != "" {
		t.Fatalf("default validation mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_DefaultValueIsCopy(t *testing.T) {
	first, ok := AgentsConfig.DefaultValue().(AgentsWidgetData)
	if !ok {
		t.Fatalf("expected AgentsWidgetData, got %T", AgentsConfig.DefaultValue())
	}
	first.AgentIDs = append(first.AgentIDs, "a1")
	first.Title = "changed"

	if len(AgentsConfig.DefaultData.AgentIDs) != 0 || AgentsConfig.DefaultData.Title != "Chat con nuestros agentes" {
		t.Fatalf("default data mutated: %+v", AgentsConfig.DefaultData)
	}
}
