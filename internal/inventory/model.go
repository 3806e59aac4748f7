package inventory

// DefaultVersion is the inventory format version assumed when the source
// does not declare one.
const DefaultVersion = "1"

// Metadata holds the AGENT_DEVOPS_* header of an inventory.
type Metadata struct {
	Version string `json:"version" yaml:"version" toml:"version"`
	Project string `json:"project,omitempty" yaml:"project,omitempty" toml:"project,omitempty"`
	Owner   string `json:"owner,omitempty" yaml:"owner,omitempty" toml:"owner,omitempty"`
	Notes   string `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`
	// Extra is keyed by the full source key, e.g. AGENT_DEVOPS_TEAM.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
}

// Provider is a hosting provider or network that servers live in.
type Provider struct {
	Name          string            `json:"name" yaml:"name" toml:"name"`
	Type          string            `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	AuthMethod    string            `json:"auth_method,omitempty" yaml:"auth_method,omitempty" toml:"auth_method,omitempty"`
	AuthFile      string            `json:"auth_file,omitempty" yaml:"auth_file,omitempty" toml:"auth_file,omitempty"`
	DefaultRegion string            `json:"default_region,omitempty" yaml:"default_region,omitempty" toml:"default_region,omitempty"`
	Label         string            `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Notes         string            `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`
	Extra         map[string]string `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
}

// DisplayName returns the label, falling back to the name.
func (p *Provider) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// Connection methods known to the ssh command.
const (
	ConnectViaSSH   = "ssh"
	ConnectViaLocal = "local"
)

// Server is a machine (VM, physical box, local PC) reachable by an agent.
type Server struct {
	ID         string            `json:"id" yaml:"id" toml:"id"`
	Provider   string            `json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider,omitempty"`
	Kind       string            `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Name       string            `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	ConnectVia string            `json:"connect_via,omitempty" yaml:"connect_via,omitempty" toml:"connect_via,omitempty"`
	Env        string            `json:"env,omitempty" yaml:"env,omitempty" toml:"env,omitempty"`
	OS         string            `json:"os,omitempty" yaml:"os,omitempty" toml:"os,omitempty"`
	Role       string            `json:"role,omitempty" yaml:"role,omitempty" toml:"role,omitempty"`
	Status     string            `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	Tags       []string          `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	Host       string            `json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`
	Port       *int              `json:"port,omitempty" yaml:"port,omitempty" toml:"port,omitempty"`
	User       string            `json:"user,omitempty" yaml:"user,omitempty" toml:"user,omitempty"`
	SSHKeyPath string            `json:"ssh_key_path,omitempty" yaml:"ssh_key_path,omitempty" toml:"ssh_key_path,omitempty"`
	Notes      string            `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`
	Extra      map[string]string `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
}

// DisplayName returns the server name, falling back to its id.
func (s *Server) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// HasTag reports whether tag is one of the server's tags.
func (s *Server) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SetPort sets the port.
func (s *Server) SetPort(port int) {
	s.Port = &port
}

// Inventory is the aggregate of metadata, providers and servers.
// Collections remember the order in which entries were first added.
type Inventory struct {
	Metadata  Metadata             `json:"metadata" yaml:"metadata" toml:"metadata"`
	Providers map[string]*Provider `json:"providers" yaml:"providers" toml:"providers"`
	Servers   map[string]*Server   `json:"servers" yaml:"servers" toml:"servers"`

	providerOrder []string
	serverOrder   []string
}

// New creates an empty inventory with the default version.
func New() *Inventory {
	return &Inventory{
		Metadata:  Metadata{Version: DefaultVersion},
		Providers: make(map[string]*Provider),
		Servers:   make(map[string]*Server),
	}
}

// Provider returns the provider called name, creating it on first use.
func (inv *Inventory) Provider(name string) *Provider {
	if p, ok := inv.Providers[name]; ok {
		return p
	}
	if inv.Providers == nil {
		inv.Providers = make(map[string]*Provider)
	}
	p := &Provider{Name: name}
	inv.Providers[name] = p
	inv.providerOrder = append(inv.providerOrder, name)
	return p
}

// Server returns the server with the given id, creating it on first use.
func (inv *Inventory) Server(id string) *Server {
	if s, ok := inv.Servers[id]; ok {
		return s
	}
	if inv.Servers == nil {
		inv.Servers = make(map[string]*Server)
	}
	s := &Server{ID: id}
	inv.Servers[id] = s
	inv.serverOrder = append(inv.serverOrder, id)
	return s
}

// ProviderList returns providers in insertion order. Entries placed in the
// map directly come last, sorted by name.
func (inv *Inventory) ProviderList() []*Provider {
	names := orderedKeys(inv.providerOrder, inv.Providers)
	out := make([]*Provider, 0, len(names))
	for _, name := range names {
		out = append(out, inv.Providers[name])
	}
	return out
}

// ServerList returns servers in insertion order. Entries placed in the map
// directly come last, sorted by id.
func (inv *Inventory) ServerList() []*Server {
	ids := orderedKeys(inv.serverOrder, inv.Servers)
	out := make([]*Server, 0, len(ids))
	for _, id := range ids {
		out = append(out, inv.Servers[id])
	}
	return out
}
