// Package export writes inventories and findings in machine-readable formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	FormatEnv  = "env"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Formats lists every format accepted by Inventory.
var Formats = []string{FormatEnv, FormatJSON, FormatYAML, FormatTOML}

// Inventory writes inv to w in the given format. The env format is the
// native inventory text.
func Inventory(w io.Writer, inv *inventory.Inventory, format string) error {
	if format == FormatEnv {
		return inventory.Write(w, inv)
	}
	return encode(w, inv, format)
}

// Servers writes a server list.
func Servers(w io.Writer, servers []*inventory.Server, format string) error {
	if servers == nil {
		servers = []*inventory.Server{}
	}
	if format == FormatTOML {
		// TOML documents must be tables.
		return encode(w, map[string][]*inventory.Server{"servers": servers}, format)
	}
	return encode(w, servers, format)
}

// Findings writes a findings list.
func Findings(w io.Writer, findings []inventory.Finding, format string) error {
	if findings == nil {
		findings = []inventory.Finding{}
	}
	if format == FormatTOML {
		return encode(w, map[string][]inventory.Finding{"findings": findings}, format)
	}
	return encode(w, findings, format)
}

func encode(w io.Writer, v any, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported format %q", format)
}
