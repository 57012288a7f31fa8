package profile

import "strings"

// Agent is an entry of the agent directory the agents widget picks from.
type Agent struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Role      string `json:"role,omitempty" yaml:"role,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
}

// Initials returns up to two uppercase initials of the agent name, used
// when no avatar is configured.
func (a Agent) Initials() string {
	var out []rune
	for _, word := range strings.Fields(a.Name) {
		for _, r := range word {
			out = append(out, r)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}

// Directory is an ordered, read-only set of agents.
type Directory struct {
	order []string
	byID  map[string]Agent
}

// NewDirectory builds a directory. Later duplicates of an id are ignored.
func NewDirectory(agents ...Agent) *Directory {
	dir := &Directory{byID: make(map[string]Agent, len(agents))}
	for _, agent := range agents {
		id := strings.TrimSpace(agent.ID)
		if id == "" {
			continue
		}
		if _, exists := dir.byID[id]; exists {
			continue
		}
		agent.ID = id
		dir.byID[id] = agent
		dir.order = append(dir.order, id)
	}
	return dir
}

// Lookup returns the agent with id.
func (d *Directory) Lookup(id string) (Agent, bool) {
	if d == nil {
		return Agent{}, false
	}
	agent, ok := d.byID[strings.TrimSpace(id)]
	return agent, ok
}

// List returns every agent in directory order.
func (d *Directory) List() []Agent {
	if d == nil {
		return nil
	}
	out := make([]Agent, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

// IDs returns every agent id in directory order.
func (d *Directory) IDs() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.order...)
}

// Resolve maps ids to agents keeping the given order. Unknown ids are
// skipped.
func (d *Directory) Resolve(ids []string) []Agent {
	out := make([]Agent, 0, len(ids))
	for _, id := range ids {
		if agent, ok := d.Lookup(id); ok {
			out = append(out, agent)
		}
	}
	return out
}
