// Package profile models a public profile as an ordered list of widget
// instances and keeps profiles in memory.
package profile

import (
	"encoding/json"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/goliatone/go-profilegen/pkg/theme"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

// Instance is one widget placed on a profile. Data holds the JSON payload of
// the widget's data type.
type Instance struct {
	ID   string             `json:"id"`
	Type widgets.WidgetType `json:"type"`
	Data json.RawMessage    `json:"data"`
}

// ThemeRef selects a catalog theme and optionally overrides its tokens.
type ThemeRef struct {
	Name      string      `json:"name,omitempty"`
	Variant   string      `json:"variant,omitempty"`
	Overrides theme.Theme `json:"overrides,omitempty"`
}

// Profile is a user's public page.
type Profile struct {
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	Theme       ThemeRef   `json:"theme"`
	Widgets     []Instance `json:"widgets"`
}

// Widget returns the instance with the given id.
func (p Profile) Widget(id string) (Instance, bool) {
	for _, instance := range p.Widgets {
		if instance.ID == id {
			return instance, true
		}
	}
	return Instance{}, false
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	out := p
	out.Widgets = make([]Instance, len(p.Widgets))
	for i, instance := range p.Widgets {
		out.Widgets[i] = instance.clone()
	}
	return out
}

func (i Instance) clone() Instance {
	out := i
	if i.Data != nil {
		out.Data = append(json.RawMessage(nil), i.Data...)
	}
	return out
}

// NewInstanceID returns a fresh, sortable widget instance id.
func NewInstanceID() string {
	return strings.ToLower(ulid.Make().String())
}
