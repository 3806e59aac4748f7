package inventory

import (
	"strconv"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/envfile"
)

// Field names recognized in each namespace.
const (
	FieldVersion = "VERSION"
	FieldProject = "PROJECT"
	FieldOwner   = "OWNER"
	FieldNotes   = "NOTES"

	FieldType          = "TYPE"
	FieldAuthMethod    = "AUTH_METHOD"
	FieldAuthFile      = "AUTH_FILE"
	FieldDefaultRegion = "DEFAULT_REGION"
	FieldLabel         = "LABEL"

	FieldProvider   = "PROVIDER"
	FieldKind       = "KIND"
	FieldName       = "NAME"
	FieldConnectVia = "CONNECT_VIA"
	FieldEnv        = "ENV"
	FieldOS         = "OS"
	FieldRole       = "ROLE"
	FieldStatus     = "STATUS"
	FieldTags       = "TAGS"
	FieldHost       = "HOST"
	FieldPort       = "PORT"
	FieldUser       = "USER"
	FieldSSHKeyPath = "SSH_KEY_PATH"
)

type metadataSetter func(m *Metadata, value string)

var metadataFields = map[string]metadataSetter{
	FieldVersion: func(m *Metadata, v string) { m.Version = v },
	FieldProject: func(m *Metadata, v string) { m.Project = v },
	FieldOwner:   func(m *Metadata, v string) { m.Owner = v },
	FieldNotes:   func(m *Metadata, v string) { m.Notes = v },
}

type providerSetter func(p *Provider, value string)

var providerFields = map[string]providerSetter{
	FieldType:          func(p *Provider, v string) { p.Type = v },
	FieldAuthMethod:    func(p *Provider, v string) { p.AuthMethod = v },
	FieldAuthFile:      func(p *Provider, v string) { p.AuthFile = v },
	FieldDefaultRegion: func(p *Provider, v string) { p.DefaultRegion = v },
	FieldLabel:         func(p *Provider, v string) { p.Label = v },
	FieldNotes:         func(p *Provider, v string) { p.Notes = v },
}

// serverSetter returns a finding when the value cannot be coerced.
type serverSetter func(s *Server, value string) *Finding

func str(assign func(s *Server, v string)) serverSetter {
	return func(s *Server, v string) *Finding {
		assign(s, v)
		return nil
	}
}

var serverFields = map[string]serverSetter{
	FieldProvider:   str(func(s *Server, v string) { s.Provider = v }),
	FieldKind:       str(func(s *Server, v string) { s.Kind = v }),
	FieldName:       str(func(s *Server, v string) { s.Name = v }),
	FieldConnectVia: str(func(s *Server, v string) { s.ConnectVia = v }),
	FieldEnv:        str(func(s *Server, v string) { s.Env = v }),
	FieldOS:         str(func(s *Server, v string) { s.OS = v }),
	FieldRole:       str(func(s *Server, v string) { s.Role = v }),
	FieldStatus:     str(func(s *Server, v string) { s.Status = v }),
	FieldTags:       str(func(s *Server, v string) { s.Tags = SplitTags(v) }),
	FieldHost:       str(func(s *Server, v string) { s.Host = v }),
	FieldUser:       str(func(s *Server, v string) { s.User = v }),
	FieldSSHKeyPath: str(func(s *Server, v string) { s.SSHKeyPath = v }),
	FieldNotes:      str(func(s *Server, v string) { s.Notes = v }),
	FieldPort:       setPort,
}

func setPort(s *Server, v string) *Finding {
	port, err := strconv.Atoi(v)
	if err != nil {
		s.Port = nil
		f := serverFinding(s.ID, "Invalid PORT for server %s: %q", s.ID, v)
		return &f
	}
	s.SetPort(port)
	return nil
}

// SplitTags splits a comma separated list, trimming entries and dropping
// empty ones.
func SplitTags(v string) []string {
	var tags []string
	for _, t := range strings.Split(v, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// IsProviderField reports whether field has a dedicated Provider attribute.
func IsProviderField(field string) bool {
	_, ok := providerFields[field]
	return ok
}

// IsServerField reports whether field has a dedicated Server attribute.
func IsServerField(field string) bool {
	_, ok := serverFields[field]
	return ok
}

// Build assembles an inventory from parsed entries. Coercion failures are
// returned as findings; Build never fails.
func Build(entries *envfile.Entries) (*Inventory, []Finding) {
	inv := New()
	var findings []Finding

	for _, raw := range entries.Keys() {
		value, _ := entries.Get(raw)

		switch k := ResolveKey(raw).(type) {
		case MetadataKey:
			applyMetadata(&inv.Metadata, k, value)
		case ProviderKey:
			applyProvider(inv.Provider(k.Name), k.Field, value)
		case ServerKey:
			if f := applyServer(inv.Server(k.ID), k.Field, value); f != nil {
				findings = append(findings, *f)
			}
		}
	}

	if inv.Metadata.Version == "" {
		inv.Metadata.Version = DefaultVersion
	}

	return inv, findings
}

func applyMetadata(m *Metadata, k MetadataKey, value string) {
	if set, ok := metadataFields[k.Field]; ok {
		set(m, value)
		return
	}
	if m.Extra == nil {
		m.Extra = make(map[string]string)
	}
	m.Extra[k.Source] = value
}

func applyProvider(p *Provider, field, value string) {
	if set, ok := providerFields[field]; ok {
		set(p, value)
		return
	}
	if p.Extra == nil {
		p.Extra = make(map[string]string)
	}
	p.Extra[field] = value
}

func applyServer(s *Server, field, value string) *Finding {
	if set, ok := serverFields[field]; ok {
		return set(s, value)
	}
	if s.Extra == nil {
		s.Extra = make(map[string]string)
	}
	s.Extra[field] = value
	return nil
}
