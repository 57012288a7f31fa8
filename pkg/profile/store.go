package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-profilegen/pkg/widgets"
)

var (
	// ErrNotFound is returned when no profile exists for a username.
	ErrNotFound = errors.New("profile: not found")
	// ErrWidgetNotFound is returned when a profile has no widget with the id.
	ErrWidgetNotFound = errors.New("profile: widget not found")
)

// Store reads and edits profiles.
type Store interface {
	Get(ctx context.Context, username string) (Profile, error)
	Put(ctx context.Context, profile Profile) error
	AddWidget(ctx context.Context, username string, widgetType widgets.WidgetType, data json.RawMessage) (Instance, error)
	UpdateWidget(ctx context.Context, username, id string, data json.RawMessage) (Instance, error)
	RemoveWidget(ctx context.Context, username, id string) error
	Usernames(ctx context.Context) ([]string, error)
}

// MemoryStore keeps profiles in a map. Values are copied on the way in and
// out so callers never share slices with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore seeds a store with the supplied profiles.
func NewMemoryStore(seed ...Profile) (*MemoryStore, error) {
	store := &MemoryStore{profiles: make(map[string]Profile, len(seed))}
	for _, p := range seed {
		if err := store.Put(context.Background(), p); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (s *MemoryStore) Get(ctx context.Context, username string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[key(username)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrNotFound, username)
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key(p.Username) == "" {
		return fmt.Errorf("profile: username is required")
	}
	clone := p.Clone()
	for i := range clone.Widgets {
		if strings.TrimSpace(clone.Widgets[i].ID) == "" {
			clone.Widgets[i].ID = NewInstanceID()
		}
	}

	s.mu.Lock()
	s.profiles[key(p.Username)] = clone
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) AddWidget(ctx context.Context, username string, widgetType widgets.WidgetType, data json.RawMessage) (Instance, error) {
	if err := ctx.Err(); err != nil {
		return Instance{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[key(username)]
	if !ok {
		return Instance{}, fmt.Errorf("%w: %q", ErrNotFound, username)
	}
	instance := Instance{
		ID:   NewInstanceID(),
		Type: widgetType,
		Data: append(json.RawMessage(nil), data...),
	}
	p.Widgets = append(p.Widgets, instance)
	s.profiles[key(username)] = p
	return instance.clone(), nil
}

func (s *MemoryStore) UpdateWidget(ctx context.Context, username, id string, data json.RawMessage) (Instance, error) {
	if err := ctx.Err(); err != nil {
		return Instance{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[key(username)]
	if !ok {
		return Instance{}, fmt.Errorf("%w: %q", ErrNotFound, username)
	}
	for i := range p.Widgets {
		if p.Widgets[i].ID != id {
			continue
		}
		p.Widgets[i].Data = append(json.RawMessage(nil), data...)
		return p.Widgets[i].clone(), nil
	}
	return Instance{}, fmt.Errorf("%w: %q", ErrWidgetNotFound, id)
}

func (s *MemoryStore) RemoveWidget(ctx context.Context, username, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[key(username)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, username)
	}
	for i := range p.Widgets {
		if p.Widgets[i].ID != id {
			continue
		}
		p.Widgets = append(p.Widgets[:i:i], p.Widgets[i+1:]...)
		s.profiles[key(username)] = p
		return nil
	}
	return fmt.Errorf("%w: %q", ErrWidgetNotFound, id)
}

func (s *MemoryStore) Usernames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for _, p := range s.profiles {
		names = append(names, p.Username)
	}
	sort.Strings(names)
	return names, nil
}

func key(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
