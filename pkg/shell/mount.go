package shell

import (
	"reflect"
	"strings"
	"sync"

	"github.com/goliatone/go-profilegen/pkg/chrome"
)

const (
	// PageTitle is the chrome title of the profile screen.
	PageTitle = "My Profile"
	// PlaceholderUsername is the path segment of the share link.
	PlaceholderUsername = "username"
)

// ShareURL joins origin and the placeholder username.
func ShareURL(origin string) string {
	return strings.TrimRight(origin, "/") + "/" + PlaceholderUsername
}

// Mounted is a live registration of the profile screen chrome. Unmount
// releases it.
type Mounted struct {
	setter chrome.Setter
	origin string
	once   sync.Once
}

// Mount sets the page title and registers the share link on setter.
func Mount(setter chrome.Setter, origin string) *Mounted {
	setter.SetTitle(PageTitle)
	url := ShareURL(origin)
	setter.SetShareURL(&url)
	return &Mounted{setter: setter, origin: origin}
}

// Unmount clears the share link. Only the first call has an effect.
func (m *Mounted) Unmount() {
	if m == nil {
		return
	}
	m.once.Do(func() {
		m.setter.SetShareURL(nil)
	})
}

// Setter returns the chrome the screen is mounted on.
func (m *Mounted) Setter() chrome.Setter {
	if m == nil {
		return nil
	}
	return m.setter
}

// Remount keeps m while setter and origin are unchanged. Otherwise m is
// unmounted and the screen is mounted again on setter.
func Remount(m *Mounted, setter chrome.Setter, origin string) *Mounted {
	if m != nil && m.origin == origin && sameSetter(m.setter, setter) {
		return m
	}
	m.Unmount()
	return Mount(setter, origin)
}

func sameSetter(a, b chrome.Setter) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
