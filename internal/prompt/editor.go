package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/shell"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

// DefaultAttempts bounds the edit rounds of EditWidget.
const DefaultAttempts = 3

// EditOptions tunes EditWidget.
type EditOptions struct {
	// Agents supplies choices for fields sourced from the agent directory.
	Agents *profile.Directory
	// Attempts is the number of rounds before giving up. Zero means
	// DefaultAttempts.
	Attempts int
}

// EditWidget walks the user through every field of descriptor, starting
// from initial (or the descriptor default when initial is empty), and
// re-prompts with the validation messages until the data is valid.
func EditWidget(ctx context.Context, d Driver, descriptor widgets.Descriptor, initial json.RawMessage, opts EditOptions) (json.RawMessage, widgets.ValidationResult, error) {
	if d == nil || descriptor == nil {
		return nil, widgets.ValidationResult{}, fmt.Errorf("prompt: driver and descriptor are required")
	}
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	meta := descriptor.Metadata()
	current, err := initialValues(descriptor, initial)
	if err != nil {
		return nil, widgets.ValidationResult{}, err
	}

	var (
		raw    json.RawMessage
		result widgets.ValidationResult
	)
	for round := 0; round < attempts; round++ {
		if err := d.Info(ctx, fmt.Sprintf("%s: %s", meta.Label, meta.Description)); err != nil {
			return nil, widgets.ValidationResult{}, err
		}

		form := url.Values{}
		for _, field := range meta.Fields {
			values, err := askField(ctx, d, field, current, opts.Agents)
			if err != nil {
				return nil, widgets.ValidationResult{}, err
			}
			form[field.Name] = values
		}

		raw, err = shell.DecodeForm(meta.Fields, form)
		if err != nil {
			return nil, widgets.ValidationResult{}, err
		}
		value, err := descriptor.Decode(raw)
		if err != nil {
			return nil, widgets.ValidationResult{}, err
		}
		result, err = descriptor.ValidateValue(value)
		if err != nil {
			return nil, widgets.ValidationResult{}, err
		}
		if result.IsValid() {
			return raw, result, nil
		}

		for _, msg := range shell.MessageList(result) {
			if err := d.Info(ctx, "  - "+msg); err != nil {
				return nil, widgets.ValidationResult{}, err
			}
		}
		current = form
	}
	return raw, result, ErrTooManyAttempts
}

func askField(ctx context.Context, d Driver, field widgets.Field, current url.Values, agents *profile.Directory) ([]string, error) {
	switch field.Kind {
	case widgets.FieldKindSelect:
		idx, err := d.Select(ctx, SelectConfig{
			Message:      field.Label,
			Options:      field.Options,
			DefaultIndex: indexOf(field.Options, current.Get(field.Name)),
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return []string{""}, nil
		}
		return []string{field.Options[idx]}, nil

	case widgets.FieldKindMultiSelect:
		ids, labels := choices(field, agents)
		picked, err := d.MultiSelect(ctx, SelectConfig{
			Message:  field.Label,
			Options:  labels,
			Defaults: indicesOf(ids, current[field.Name]),
		})
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(ids) {
				out = append(out, ids[idx])
			}
		}
		return out, nil

	default:
		value, err := d.Input(ctx, InputConfig{
			Message: field.Label,
			Default: current.Get(field.Name),
		})
		if err != nil {
			return nil, err
		}
		return []string{value}, nil
	}
}

// choices returns option values and their display labels.
func choices(field widgets.Field, agents *profile.Directory) ([]string, []string) {
	if field.Source == shell.SourceAgents {
		list := agents.List()
		ids := make([]string, 0, len(list))
		labels := make([]string, 0, len(list))
		for _, agent := range list {
			ids = append(ids, agent.ID)
			labels = append(labels, fmt.Sprintf("%s (%s)", agent.Name, agent.ID))
		}
		return ids, labels
	}
	return field.Options, field.Options
}

// initialValues flattens widget data into form values keyed by field name.
func initialValues(descriptor widgets.Descriptor, initial json.RawMessage) (url.Values, error) {
	raw := initial
	if len(raw) == 0 {
		encoded, err := json.Marshal(descriptor.DefaultValue())
		if err != nil {
			return nil, fmt.Errorf("prompt: encode default data: %w", err)
		}
		raw = encoded
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("prompt: decode initial data: %w", err)
	}

	values := url.Values{}
	for _, field := range descriptor.Metadata().Fields {
		switch v := data[field.Name].(type) {
		case string:
			values.Set(field.Name, v)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					values.Add(field.Name, s)
				}
			}
		}
	}
	return values, nil
}
