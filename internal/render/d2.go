package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/config"
	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/util"
)

const (
	unassignedID = "unassigned"
	operatorID   = "operator"
)

// D2Renderer generates D2 diagram text.
type D2Renderer struct {
	DetailLevel string // minimal, standard, detailed
}

func (r *D2Renderer) detail() string {
	if r.DetailLevel == "" {
		return "standard"
	}
	return r.DetailLevel
}

// providerGroup is a provider container and the servers drawn inside it.
type providerGroup struct {
	id       string
	label    string
	provider *inventory.Provider
	servers  []*inventory.Server
	nodeIDs  []string // parallel to servers
}

// idSet hands out D2 identifiers that are unique within one scope. Names
// that sanitize to a taken id get a numeric suffix.
type idSet map[string]bool

func (ids idSet) claim(name string) string {
	base := util.SanitizeID(name)
	id := base
	for n := 2; ids[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	ids[id] = true
	return id
}

func (g *providerGroup) add(s *inventory.Server, ids idSet) {
	g.servers = append(g.servers, s)
	g.nodeIDs = append(g.nodeIDs, ids.claim(s.ID))
}

func (r *D2Renderer) Render(inv *inventory.Inventory, cfg *config.DiagramConfig) string {
	r.DetailLevel = cfg.DetailLevel
	theme := GetTheme(cfg.Theme)
	var b strings.Builder

	direction := cfg.Direction
	if direction == "" {
		direction = "right"
	}
	fmt.Fprintf(&b, "direction: %s\n\n", direction)

	if inv.Metadata.Project != "" {
		fmt.Fprintf(&b, "title: %s {\n  near: top-center\n  shape: text\n  style.font-size: 24\n}\n\n", util.Quote(inv.Metadata.Project))
	}

	groups := groupServers(inv)
	for _, g := range groups {
		r.renderGroup(&b, g, theme)
	}

	if r.detail() != "minimal" {
		r.renderConnections(&b, groups, theme)
	}

	return b.String()
}

// groupServers puts every server under its provider. Servers with no
// provider, or one that is not declared, go to a trailing Unassigned group.
func groupServers(inv *inventory.Inventory) []*providerGroup {
	var groups []*providerGroup
	byName := make(map[string]*providerGroup)
	topLevel := idSet{unassignedID: true, operatorID: true, "title": true, "direction": true}
	nodes := make(map[*providerGroup]idSet)

	for _, p := range inv.ProviderList() {
		g := &providerGroup{
			id:       topLevel.claim(p.Name),
			label:    p.DisplayName(),
			provider: p,
		}
		groups = append(groups, g)
		byName[p.Name] = g
	}

	unassigned := &providerGroup{id: unassignedID, label: "Unassigned"}
	for _, s := range inv.ServerList() {
		g, ok := byName[s.Provider]
		if !ok {
			g = unassigned
		}
		if nodes[g] == nil {
			nodes[g] = idSet{}
		}
		g.add(s, nodes[g])
	}
	if len(unassigned.servers) > 0 {
		groups = append(groups, unassigned)
	}

	return groups
}

func (r *D2Renderer) renderGroup(b *strings.Builder, g *providerGroup, theme *Theme) {
	color := theme.ColorForElement("provider")
	if g.provider == nil {
		color = theme.ColorForElement("unassigned")
	}

	label := g.label
	if g.provider != nil && g.provider.Type != "" && r.detail() != "minimal" {
		label = fmt.Sprintf("%s (%s)", g.label, g.provider.Type)
	}

	fmt.Fprintf(b, "%s: %s {\n", g.id, util.Quote(label))
	fmt.Fprintf(b, "  style.fill: %q\n", color.Fill)
	fmt.Fprintf(b, "  style.stroke: %q\n", color.Stroke)

	if g.provider != nil && r.detail() != "minimal" {
		if icon := LookupProviderIcon(g.provider.Type); icon != "" {
			fmt.Fprintf(b, "  icon: %s\n", icon)
		}
		if g.provider.DefaultRegion != "" {
			fmt.Fprintf(b, "  tooltip: %q\n", "Region: "+g.provider.DefaultRegion)
		}
	}

	if len(g.servers) > 8 {
		b.WriteString("  grid-columns: 4\n")
	}
	b.WriteString("\n")

	for i, s := range g.servers {
		r.renderServer(b, g.nodeIDs[i], s, theme, "  ")
	}

	b.WriteString("}\n\n")
}

func (r *D2Renderer) renderServer(b *strings.Builder, id string, s *inventory.Server, theme *Theme, indent string) {
	color := theme.ColorForEnv(s.Env)

	fmt.Fprintf(b, "%s%s: %s {\n", indent, id, util.Quote(r.serverLabel(s)))
	fmt.Fprintf(b, "%s  style.fill: %q\n", indent, color.Fill)
	fmt.Fprintf(b, "%s  style.stroke: %q\n", indent, color.Stroke)

	if r.detail() != "minimal" {
		if icon := LookupOSIcon(s.OS); icon != "" {
			fmt.Fprintf(b, "%s  icon: %s\n", indent, icon)
		}
		if addr := serverAddress(s); addr != "" {
			fmt.Fprintf(b, "%s  tooltip: %q\n", indent, addr)
		}
	}

	if s.Status != "" && s.Status != "active" {
		fmt.Fprintf(b, "%s  style.stroke-dash: 3\n", indent)
	}

	fmt.Fprintf(b, "%s}\n", indent)
}

// serverLabel builds the node label. Line breaks are written as the
// two-character escape D2 expects inside double quotes.
func (r *D2Renderer) serverLabel(s *inventory.Server) string {
	label := s.DisplayName()
	if r.detail() == "minimal" {
		return label
	}

	if s.Host != "" {
		label += `\n` + s.Host
	}

	if r.detail() == "detailed" {
		var facts []string
		for _, f := range []string{s.Kind, s.Role, s.Env, s.Status} {
			if f != "" {
				facts = append(facts, f)
			}
		}
		if len(facts) > 0 {
			label += `\n` + strings.Join(facts, " · ")
		}
		if len(s.Tags) > 0 {
			label += `\n#` + strings.Join(s.Tags, " #")
		}
	}

	return label
}

func serverAddress(s *inventory.Server) string {
	if s.Host == "" {
		return ""
	}
	addr := s.Host
	if s.User != "" {
		addr = s.User + "@" + addr
	}
	if s.Port != nil {
		addr += ":" + strconv.Itoa(*s.Port)
	}
	return addr
}

// renderConnections draws how an operator reaches each server.
func (r *D2Renderer) renderConnections(b *strings.Builder, groups []*providerGroup, theme *Theme) {
	var edges []string
	for _, g := range groups {
		for i, s := range g.servers {
			if s.ConnectVia == "" {
				continue
			}
			edge := fmt.Sprintf("%s -> %s.%s: %s", operatorID, g.id, g.nodeIDs[i], util.Quote(s.ConnectVia))
			if s.ConnectVia != inventory.ConnectViaSSH {
				edge += " { style.stroke-dash: 3 }"
			}
			edges = append(edges, edge)
		}
	}

	if len(edges) == 0 {
		return
	}

	color := theme.ColorForElement("operator")
	fmt.Fprintf(b, "%s: \"Operator\" {\n  shape: person\n  style.fill: %q\n  style.stroke: %q\n}\n\n", operatorID, color.Fill, color.Stroke)
	for _, e := range edges {
		b.WriteString(e + "\n")
	}
}
