package inventory

import "fmt"

// Scope says which kind of entity a finding is about.
type Scope string

const (
	ScopeProvider Scope = "provider"
	ScopeServer   Scope = "server"
	ScopeFile     Scope = "file"
)

// Finding is a non-fatal diagnostic produced while building or validating.
type Finding struct {
	Scope   Scope  `json:"scope" yaml:"scope" toml:"scope"`
	ID      string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Message string `json:"message" yaml:"message" toml:"message"`
}

func (f Finding) String() string {
	if f.ID == "" {
		return fmt.Sprintf("[%s] %s", f.Scope, f.Message)
	}
	return fmt.Sprintf("[%s %s] %s", f.Scope, f.ID, f.Message)
}

func providerFinding(name, format string, args ...any) Finding {
	return Finding{Scope: ScopeProvider, ID: name, Message: fmt.Sprintf(format, args...)}
}

func serverFinding(id, format string, args ...any) Finding {
	return Finding{Scope: ScopeServer, ID: id, Message: fmt.Sprintf(format, args...)}
}

// FilterFindings returns the findings with the given scope.
func FilterFindings(findings []Finding, scope Scope) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Scope == scope {
			out = append(out, f)
		}
	}
	return out
}
