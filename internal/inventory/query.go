package inventory

import "strings"

// Criteria filters servers. Empty fields are ignored; all set fields must
// match.
type Criteria struct {
	Env      string
	Role     string
	Provider string
	Status   string
	Tag      string
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Match reports whether s satisfies every set criterion.
func (c Criteria) Match(s *Server) bool {
	if c.Env != "" && s.Env != c.Env {
		return false
	}
	if c.Role != "" && s.Role != c.Role {
		return false
	}
	if c.Provider != "" && s.Provider != c.Provider {
		return false
	}
	if c.Status != "" && s.Status != c.Status {
		return false
	}
	if c.Tag != "" && !s.HasTag(c.Tag) {
		return false
	}
	return true
}

// FindServers returns the servers matching c, in collection order.
func FindServers(inv *Inventory, c Criteria) []*Server {
	var out []*Server
	for _, s := range inv.ServerList() {
		if c.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// LookupServer finds a server by id. An exact match wins; otherwise the
// first server, in collection order, whose id matches ignoring case.
func LookupServer(inv *Inventory, id string) (*Server, bool) {
	if s, ok := inv.Servers[id]; ok {
		return s, true
	}
	for _, s := range inv.ServerList() {
		if strings.EqualFold(s.ID, id) {
			return s, true
		}
	}
	return nil, false
}
