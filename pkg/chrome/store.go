// Package chrome holds page-wide display state (the page title and the
// share link) that a screen sets while it is shown and layouts read while
// rendering.
package chrome

import (
	"context"
	"sync"
)

// Setter is the write side of the chrome state handed to screens.
type Setter interface {
	SetTitle(title string)
	// SetShareURL registers the share link; nil clears it.
	SetShareURL(url *string)
}

// Snapshot is a point-in-time copy of the chrome state.
type Snapshot struct {
	Title    string
	ShareURL string
	HasShare bool
}

// Store is a concurrency-safe Setter.
type Store struct {
	mu       sync.RWMutex
	title    string
	shareURL *string
}

var _ Setter = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

func (s *Store) SetShareURL(url *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if url == nil {
		s.shareURL = nil
		return
	}
	value := *url
	s.shareURL = &value
}

// Title returns the current page title.
func (s *Store) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// ShareURL returns the registered share link, if any.
func (s *Store) ShareURL() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.shareURL == nil {
		return "", false
	}
	return *s.shareURL, true
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Title: s.title}
	if s.shareURL != nil {
		snap.ShareURL = *s.shareURL
		snap.HasShare = true
	}
	return snap
}

type contextKey struct{}

// WithStore attaches store to ctx.
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, store)
}

// FromContext returns the store attached to ctx.
func FromContext(ctx context.Context) (*Store, bool) {
	store, ok := ctx.Value(contextKey{}).(*Store)
	return store, ok && store != nil
}
