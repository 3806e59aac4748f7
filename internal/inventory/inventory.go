// Package inventory implements the Agent DevOps inventory language: flat
// .env-style text describing providers and servers.
//
// Keys live in three namespaces:
//
//	AGENT_DEVOPS_<FIELD>        inventory metadata
//	PROVIDER_<NAME>_<FIELD>     a hosting provider
//	SERVER_<ID>_<FIELD>         a server
//
// Parsing never fails on bad input. Problems are reported as findings next
// to a best-effort model, and callers decide which findings are fatal.
package inventory

import "github.com/ThomasCrouzet/devops-inventory/internal/envfile"

// Result is a parsed inventory together with everything found wrong with it.
type Result struct {
	Inventory *Inventory
	Findings  []Finding
}

// OK reports whether there are no findings.
func (r Result) OK() bool {
	return len(r.Findings) == 0
}

// Parse parses and validates inventory text.
func Parse(text string) Result {
	return FromEntries(envfile.Parse(text))
}

// FromEntries builds and validates an inventory from already tokenized
// entries, e.g. a decrypted secrets vault.
func FromEntries(entries *envfile.Entries) Result {
	inv, findings := Build(entries)
	findings = append(findings, Validate(inv)...)
	return Result{Inventory: inv, Findings: findings}
}

// FromMap is FromEntries for a plain map. Keys are processed in sorted order.
func FromMap(m map[string]string) Result {
	return FromEntries(envfile.FromMap(m, sortedKeys(m)))
}
