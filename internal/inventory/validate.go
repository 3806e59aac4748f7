package inventory

// MaxPort is the largest valid TCP port.
const MaxPort = 65535

// Validate checks structural rules over the whole inventory. It does not
// modify inv.
func Validate(inv *Inventory) []Finding {
	var findings []Finding

	for _, p := range inv.ProviderList() {
		if p.Type == "" {
			findings = append(findings, providerFinding(p.Name, "Provider %s is missing %s", p.Name, FieldType))
		}
	}

	for _, s := range inv.ServerList() {
		required := []struct {
			field string
			value string
		}{
			{FieldProvider, s.Provider},
			{FieldKind, s.Kind},
			{FieldName, s.Name},
			{FieldConnectVia, s.ConnectVia},
		}
		for _, r := range required {
			if r.value == "" {
				findings = append(findings, serverFinding(s.ID, "Server %s is missing %s", s.ID, r.field))
			}
		}

		if s.Provider != "" {
			if _, ok := inv.Providers[s.Provider]; !ok {
				findings = append(findings, serverFinding(s.ID, "Server %s references unknown provider %s", s.ID, s.Provider))
			}
		}

		if s.Port != nil && (*s.Port < 1 || *s.Port > MaxPort) {
			findings = append(findings, serverFinding(s.ID, "Server %s has PORT %d out of range", s.ID, *s.Port))
		}
	}

	return findings
}
