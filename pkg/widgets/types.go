package widgets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// WidgetType is the tag a widget config is registered under.
type WidgetType string

// Built-in widget types.
const (
	TypeAgents WidgetType = "Agents"
	TypeTitle  WidgetType = "Title"
)

func (t WidgetType) String() string {
	return string(t)
}

// ErrUnknownWidget is returned when no config is registered for a type tag.
var ErrUnknownWidget = errors.New("widgets: unknown widget type")

// DecodeError reports a payload that does not have the JSON shape of the
// widget data. It is distinct from a ValidationResult: the payload never
// reached the validator.
type DecodeError struct {
	Type WidgetType
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("widgets: decode %s data: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ValidationResult is the outcome of validating widget data. Errors maps a
// field name to a message meant to be shown next to the form field; fields
// that passed are absent. Validity is derived from the error map.
type ValidationResult struct {
	errors map[string]string
}

// NewValidationResult builds a result from the collected field errors.
// Entries with an empty message are dropped.
func NewValidationResult(errs map[string]string) ValidationResult {
	out := make(map[string]string, len(errs))
	for field, message := range errs {
		if strings.TrimSpace(message) == "" {
			continue
		}
		out[field] = message
	}
	return ValidationResult{errors: out}
}

// IsValid reports whether no field error was recorded.
func (r ValidationResult) IsValid() bool {
	return len(r.errors) == 0
}

// Errors returns a copy of the field error map. It is never nil.
func (r ValidationResult) Errors() map[string]string {
	out := make(map[string]string, len(r.errors))
	for field, message := range r.errors {
		out[field] = message
	}
	return out
}

// Error returns the message recorded for field.
func (r ValidationResult) Error(field string) (string, bool) {
	message, ok := r.errors[field]
	return message, ok
}

type validationResultJSON struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

func (r ValidationResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(validationResultJSON{
		IsValid: r.IsValid(),
		Errors:  r.Errors(),
	})
}

// UnmarshalJSON restores a result from its wire form. The isValid flag is
// ignored and recomputed from errors.
func (r *ValidationResult) UnmarshalJSON(data []byte) error {
	var payload validationResultJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	*r = NewValidationResult(payload.Errors)
	return nil
}

// FieldKind tells editors which control to use for a field.
type FieldKind string

const (
	FieldKindText        FieldKind = "text"
	FieldKindSelect      FieldKind = "select"
	FieldKindMultiSelect FieldKind = "multiselect"
)

// Field describes one editable property of a widget's data.
type Field struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Options []string  `json:"options,omitempty"`
	// Source names an external option provider (e.g. "agents") used instead
	// of Options when the choices are not static.
	Source string `json:"source,omitempty"`
}

// Meta is the display metadata of a widget type.
type Meta struct {
	Type        WidgetType `json:"type"`
	Label       string     `json:"label"`
	Description string     `json:"description"`
	Icon        Icon       `json:"icon"`
	Fields      []Field    `json:"fields"`
}

// Descriptor is the type-erased view of a Config that registries, editors
// and renderers work with.
type Descriptor interface {
	Metadata() Meta
	// DefaultValue returns a fresh copy of the default data.
	DefaultValue() any
	// Decode parses a JSON payload into the widget's data type. Empty and
	// null payloads decode to the zero value.
	Decode(raw []byte) (any, error)
	// ValidateValue runs the validator against a decoded value.
	ValidateValue(value any) (ValidationResult, error)
	// Schema describes the JSON shape of the data.
	Schema() *openapi3.Schema
}

// Config describes one widget type with data of shape T.
type Config[T any] struct {
	Type        WidgetType
	Label       string
	Description string
	Icon        Icon
	Fields      []Field
	DefaultData T
	Validator   func(T) ValidationResult
	DataSchema  *openapi3.Schema
}

var _ Descriptor = (*Config[AgentsWidgetData])(nil)

func (c *Config[T]) Metadata() Meta {
	return Meta{
		Type:        c.Type,
		Label:       c.Label,
		Description: c.Description,
		Icon:        c.Icon,
		Fields:      append([]Field(nil), c.Fields...),
	}
}

func (c *Config[T]) DefaultValue() any {
	raw, err := json.Marshal(c.DefaultData)
	if err != nil {
		return c.DefaultData
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return c.DefaultData
	}
	return out
}

func (c *Config[T]) Decode(raw []byte) (any, error) {
	return c.DecodeData(raw)
}

// DecodeData is the typed form of Decode.
func (c *Config[T]) DecodeData(raw []byte) (T, error) {
	var out T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, nil
	}

	if c.DataSchema != nil {
		var generic any
		if err := json.Unmarshal(trimmed, &generic); err != nil {
			return out, &DecodeError{Type: c.Type, Err: err}
		}
		if err := c.DataSchema.VisitJSON(generic); err != nil {
			return out, &DecodeError{Type: c.Type, Err: err}
		}
	}

	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, &DecodeError{Type: c.Type, Err: err}
	}
	return out, nil
}

func (c *Config[T]) ValidateValue(value any) (ValidationResult, error) {
	switch v := value.(type) {
	case T:
		return c.Validate(v), nil
	case *T:
		if v == nil {
			var zero T
			return c.Validate(zero), nil
		}
		return c.Validate(*v), nil
	default:
		return ValidationResult{}, fmt.Errorf("widgets: %s validator cannot handle %T", c.Type, value)
	}
}

// Validate runs the validator. A config without a validator accepts
// everything.
func (c *Config[T]) Validate(data T) ValidationResult {
	if c.Validator == nil {
		return NewValidationResult(nil)
	}
	return c.Validator(data)
}

func (c *Config[T]) Schema() *openapi3.Schema {
	return c.DataSchema
}
