package inventory

import "strings"

// Key namespaces.
const (
	MetadataPrefix = "AGENT_DEVOPS_"
	ProviderPrefix = "PROVIDER_"
	ServerPrefix   = "SERVER_"
)

// Key is the result of resolving a raw inventory key. It is one of
// MetadataKey, ProviderKey, ServerKey or UnrecognizedKey.
type Key interface {
	Raw() string
	isKey()
}

// MetadataKey is AGENT_DEVOPS_<FIELD>.
type MetadataKey struct {
	Source string
	Field  string
}

// ProviderKey is PROVIDER_<NAME>_<FIELD>.
type ProviderKey struct {
	Source string
	Name   string
	Field  string
}

// ServerKey is SERVER_<ID>_<FIELD>.
type ServerKey struct {
	Source string
	ID     string
	Field  string
}

// UnrecognizedKey is anything outside the three namespaces, or an entity
// key missing its name or field.
type UnrecognizedKey struct {
	Source string
}

func (k MetadataKey) Raw() string     { return k.Source }
func (k ProviderKey) Raw() string     { return k.Source }
func (k ServerKey) Raw() string       { return k.Source }
func (k UnrecognizedKey) Raw() string { return k.Source }

func (MetadataKey) isKey()     {}
func (ProviderKey) isKey()     {}
func (ServerKey) isKey()       {}
func (UnrecognizedKey) isKey() {}

// ResolveKey classifies a raw key.
//
// Entity keys are split on '_' after the prefix: the first segment is the
// provider name or server id and the rest is the field, so names can never
// contain underscores while fields (DEFAULT_REGION, SSH_KEY_PATH) can.
func ResolveKey(raw string) Key {
	switch {
	case strings.HasPrefix(raw, MetadataPrefix):
		return MetadataKey{Source: raw, Field: raw[len(MetadataPrefix):]}
	case strings.HasPrefix(raw, ProviderPrefix):
		name, field, ok := splitEntity(raw[len(ProviderPrefix):])
		if !ok {
			return UnrecognizedKey{Source: raw}
		}
		return ProviderKey{Source: raw, Name: name, Field: field}
	case strings.HasPrefix(raw, ServerPrefix):
		id, field, ok := splitEntity(raw[len(ServerPrefix):])
		if !ok {
			return UnrecognizedKey{Source: raw}
		}
		return ServerKey{Source: raw, ID: id, Field: field}
	}
	return UnrecognizedKey{Source: raw}
}

func splitEntity(rest string) (name, field string, ok bool) {
	name, field, found := strings.Cut(rest, "_")
	if !found || name == "" || field == "" {
		return "", "", false
	}
	return name, field, true
}

// ProviderKeyFor formats the key for a provider field.
func ProviderKeyFor(name, field string) string {
	return ProviderPrefix + name + "_" + field
}

// ServerKeyFor formats the key for a server field.
func ServerKeyFor(id, field string) string {
	return ServerPrefix + id + "_" + field
}

// ValidName reports whether s can be used as a provider name or server id.
func ValidName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
