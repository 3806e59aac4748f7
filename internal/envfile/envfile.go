// Package envfile reads .env-style KEY=VALUE text into an ordered map.
package envfile

import (
	"regexp"
	"strings"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Entries is an ordered mapping of key to value. Keys keep the position of
// their first occurrence; a later duplicate replaces the value only.
type Entries struct {
	keys   []string
	values map[string]string
}

// NewEntries returns an empty Entries.
func NewEntries() *Entries {
	return &Entries{values: make(map[string]string)}
}

// Set stores value under key.
func (e *Entries) Set(key, value string) {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Get returns the value for key and whether it was present.
func (e *Entries) Get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Keys returns the keys in source order.
func (e *Entries) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of distinct keys.
func (e *Entries) Len() int {
	return len(e.keys)
}

// Map returns an unordered copy of the entries.
func (e *Entries) Map() map[string]string {
	out := make(map[string]string, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// FromMap builds Entries from m in the order given by keys. Keys absent
// from m are skipped.
func FromMap(m map[string]string, keys []string) *Entries {
	e := NewEntries()
	for _, k := range keys {
		if v, ok := m[k]; ok {
			e.Set(k, v)
		}
	}
	return e
}

// Parse tokenizes .env text. Blank lines, # comments and lines without '='
// are skipped. Keys are accepted as-is, even when they are not valid
// shell identifiers.
func Parse(text string) *Entries {
	return parse(text, false)
}

// ParseStrict is Parse, but lines whose key is not a valid identifier
// ([A-Za-z_][A-Za-z0-9_]*) are dropped.
func ParseStrict(text string) *Entries {
	return parse(text, true)
}

// ValidKey reports whether key is a valid identifier.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

func parse(text string, strict bool) *Entries {
	entries := NewEntries()

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if strict && !ValidKey(key) {
			continue
		}

		entries.Set(key, Unquote(strings.TrimSpace(value)))
	}

	return entries
}

// Unquote strips one pair of matching straight quotes from s.
func Unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// NeedsQuoting reports whether s would be altered by Parse if written
// bare after '='.
func NeedsQuoting(s string) bool {
	if s != strings.TrimSpace(s) {
		return true
	}
	return Unquote(s) != s
}

// Quote wraps s in double quotes when it would not survive a bare round trip.
func Quote(s string) string {
	if NeedsQuoting(s) {
		return `"` + s + `"`
	}
	return s
}
