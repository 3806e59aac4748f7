package importer

import (
	"context"
	"fmt"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
)

// Importer reads servers from an external source. Importers register
// themselves in init and are configured from the import.sources section.
type Importer interface {
	Metadata() Metadata
	Enabled(sources map[string]any) bool
	Configure(section map[string]any) error
	Validate() []ValidationError
	Import(ctx context.Context) ([]*inventory.Server, error)
}

// Metadata describes an importer for discovery and documentation.
type Metadata struct {
	Name         string // internal key, e.g. "ansible"
	DisplayName  string // human-readable, e.g. "Ansible Inventory"
	Description  string // one-line description
	ConfigKey    string // key under import.sources
	DetectHint   string // filesystem hint for auto-detection
	ProviderType string // TYPE given to providers created by an import
}

// ValidationError reports a config problem with a suggested fix.
type ValidationError struct {
	Field      string // dotted path, e.g. "import.sources.ansible.inventory"
	Message    string // what's wrong
	Suggestion string // how to fix it
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var registry []func() Importer

// Register adds an importer factory to the global registry.
func Register(factory func() Importer) {
	registry = append(registry, factory)
}

// All returns fresh instances of every registered importer.
func All() []Importer {
	out := make([]Importer, len(registry))
	for i, f := range registry {
		out[i] = f()
	}
	return out
}

// Lookup returns a fresh importer by name.
func Lookup(name string) (Importer, bool) {
	for _, imp := range All() {
		if imp.Metadata().Name == name {
			return imp, true
		}
	}
	return nil, false
}

// Names lists registered importer names in registration order.
func Names() []string {
	var names []string
	for _, imp := range All() {
		names = append(names, imp.Metadata().Name)
	}
	return names
}
