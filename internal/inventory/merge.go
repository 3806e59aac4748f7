package inventory

import (
	"fmt"

	"github.com/ThomasCrouzet/devops-inventory/internal/envfile"
)

// Source is one named inventory document, typically a file.
type Source struct {
	Name string
	Text string
}

// Merge parses several sources as one inventory. Later sources override
// earlier ones key by key. A provider or server declared in more than one
// source is reported with a file-scope finding.
func Merge(sources ...Source) Result {
	return merge(envfile.Parse, sources)
}

// MergeStrict is Merge, but lines whose key is not a valid identifier are
// dropped while tokenizing.
func MergeStrict(sources ...Source) Result {
	return merge(envfile.ParseStrict, sources)
}

func merge(parse func(string) *envfile.Entries, sources []Source) Result {
	combined := envfile.NewEntries()
	providerOrigin := make(map[string]string)
	serverOrigin := make(map[string]string)
	var findings []Finding

	declare := func(origin map[string]string, kind, id, source string) {
		prev, ok := origin[id]
		if !ok {
			origin[id] = source
			return
		}
		if prev == source {
			return
		}
		findings = append(findings, Finding{
			Scope:   ScopeFile,
			ID:      source,
			Message: fmt.Sprintf("%s %s is declared in both %s and %s", kind, id, prev, source),
		})
		origin[id] = source
	}

	for _, src := range sources {
		entries := parse(src.Text)
		for _, k := range entries.Keys() {
			v, _ := entries.Get(k)
			combined.Set(k, v)

			switch rk := ResolveKey(k).(type) {
			case ProviderKey:
				declare(providerOrigin, "Provider", rk.Name, src.Name)
			case ServerKey:
				declare(serverOrigin, "Server", rk.ID, src.Name)
			}
		}
	}

	res := FromEntries(combined)
	res.Findings = append(findings, res.Findings...)
	return res
}
