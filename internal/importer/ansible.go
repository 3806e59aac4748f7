package importer

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/util"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(func() Importer { return &AnsibleImporter{} })
}

// Groups that every host implicitly belongs to and that never become tags.
var implicitGroups = map[string]bool{"all": true, "ungrouped": true}

// AnsibleImporter reads hosts from an Ansible YAML inventory.
type AnsibleImporter struct {
	InventoryPath string
	Provider      string
	Kind          string
	Env           string
}

func (ai *AnsibleImporter) Metadata() Metadata {
	return Metadata{
		Name:         "ansible",
		DisplayName:  "Ansible Inventory",
		Description:  "Imports hosts, connection vars and groups from an Ansible YAML inventory",
		ConfigKey:    "ansible",
		DetectHint:   "hosts.yml",
		ProviderType: "ansible",
	}
}

func (ai *AnsibleImporter) Enabled(sources map[string]any) bool {
	section, ok := sources["ansible"].(map[string]any)
	if !ok {
		return false
	}
	inv, _ := section["inventory"].(string)
	return inv != ""
}

func (ai *AnsibleImporter) Configure(section map[string]any) error {
	if section == nil {
		return nil
	}
	if v, ok := section["inventory"].(string); ok {
		ai.InventoryPath = util.ExpandPath(v)
	}
	if v, ok := section["provider"].(string); ok {
		ai.Provider = v
	}
	if v, ok := section["kind"].(string); ok {
		ai.Kind = v
	}
	if v, ok := section["env"].(string); ok {
		ai.Env = v
	}
	return nil
}

func (ai *AnsibleImporter) Validate() []ValidationError {
	var errs []ValidationError
	if ai.InventoryPath == "" {
		errs = append(errs, ValidationError{
			Field:      "import.sources.ansible.inventory",
			Message:    "no inventory file configured",
			Suggestion: "pass --source or set import.sources.ansible.inventory in devinv.yml",
		})
	} else if _, err := os.Stat(ai.InventoryPath); err != nil {
		errs = append(errs, ValidationError{
			Field:      "import.sources.ansible.inventory",
			Message:    fmt.Sprintf("file not found: %s", ai.InventoryPath),
			Suggestion: "check the path or run 'devinv init' to detect it",
		})
	}
	if ai.Provider != "" && !inventory.ValidName(ai.Provider) {
		errs = append(errs, ValidationError{
			Field:      "import.sources.ansible.provider",
			Message:    fmt.Sprintf("invalid provider name %q", ai.Provider),
			Suggestion: "provider names are letters and digits only, e.g. HOME",
		})
	}
	return errs
}

// ansibleGroup is one group of the inventory tree.
type ansibleGroup struct {
	hosts    map[string]bool
	vars     map[string]any
	children []string
}

// ansibleTree is a flattened Ansible inventory.
type ansibleTree struct {
	groups   map[string]*ansibleGroup
	hostVars map[string]map[string]any
	parents  map[string][]string
}

func (ai *AnsibleImporter) Import(_ context.Context) ([]*inventory.Server, error) {
	data, err := os.ReadFile(ai.InventoryPath)
	if err != nil {
		return nil, fmt.Errorf("reading ansible inventory: %w", err)
	}

	tree, err := parseAnsible(data)
	if err != nil {
		return nil, fmt.Errorf("parsing ansible inventory: %w", err)
	}

	kind := ai.Kind
	if kind == "" {
		kind = "vm"
	}

	var servers []*inventory.Server
	for _, host := range tree.hostNames() {
		id := util.InventoryName(host)
		if id == "" {
			continue
		}

		groups := tree.membership(host)
		s := &inventory.Server{
			ID:         id,
			Provider:   ai.Provider,
			Kind:       kind,
			Name:       strings.ToLower(host),
			ConnectVia: inventory.ConnectViaSSH,
			Env:        ai.Env,
			Host:       tree.lookup(host, groups, "ansible_host"),
			User:       tree.lookup(host, groups, "ansible_user"),
			SSHKeyPath: tree.lookup(host, groups, "ansible_ssh_private_key_file"),
			Tags:       tagsFromGroups(groups),
		}
		if port, err := strconv.Atoi(tree.lookup(host, groups, "ansible_port")); err == nil {
			s.SetPort(port)
		}
		servers = append(servers, s)
	}

	return servers, nil
}

func parseAnsible(data []byte) (*ansibleTree, error) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(util.StripJinja2(string(data))), &doc); err != nil {
		return nil, err
	}

	tree := &ansibleTree{
		groups:   make(map[string]*ansibleGroup),
		hostVars: make(map[string]map[string]any),
		parents:  make(map[string][]string),
	}
	for name, node := range doc {
		tree.visit(name, node)
	}
	return tree, nil
}

func (t *ansibleTree) group(name string) *ansibleGroup {
	g, ok := t.groups[name]
	if !ok {
		g = &ansibleGroup{hosts: make(map[string]bool), vars: make(map[string]any)}
		t.groups[name] = g
	}
	return g
}

// visit records a group definition. A group may be defined in several
// places (a child reference with no body is common); definitions merge.
func (t *ansibleTree) visit(name string, node any) {
	g := t.group(name)

	groupMap, ok := node.(map[string]any)
	if !ok {
		return
	}

	if hosts, ok := groupMap["hosts"].(map[string]any); ok {
		for host, hostData := range hosts {
			g.hosts[host] = true
			vars := t.hostVars[host]
			if vars == nil {
				vars = make(map[string]any)
				t.hostVars[host] = vars
			}
			if hostMap, ok := hostData.(map[string]any); ok {
				for k, v := range hostMap {
					vars[k] = v
				}
			}
		}
	}

	if vars, ok := groupMap["vars"].(map[string]any); ok {
		for k, v := range vars {
			g.vars[k] = v
		}
	}

	if children, ok := groupMap["children"].(map[string]any); ok {
		for child, childNode := range children {
			if !contains(g.children, child) {
				g.children = append(g.children, child)
				t.parents[child] = append(t.parents[child], name)
			}
			t.visit(child, childNode)
		}
	}
}

func (t *ansibleTree) hostNames() []string {
	names := make([]string, 0, len(t.hostVars))
	for name := range t.hostVars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// membership returns every group host belongs to, nearest first: groups
// listing the host directly, then their ancestors, then "all".
func (t *ansibleTree) membership(host string) []string {
	var direct []string
	for name, g := range t.groups {
		if g.hosts[host] {
			direct = append(direct, name)
		}
	}
	sort.Strings(direct)

	seen := make(map[string]bool)
	var out []string
	queue := direct
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)

		parents := append([]string(nil), t.parents[name]...)
		sort.Strings(parents)
		queue = append(queue, parents...)
	}

	if _, ok := t.groups["all"]; ok && !seen["all"] {
		out = append(out, "all")
	}
	return out
}

// lookup resolves an Ansible variable for host. Host vars win over group
// vars, and nearer groups win over their ancestors.
func (t *ansibleTree) lookup(host string, groups []string, key string) string {
	if v := toString(t.hostVars[host][key]); v != "" {
		return v
	}
	for _, name := range groups {
		if v := toString(t.groups[name].vars[key]); v != "" {
			return v
		}
	}
	return ""
}

func tagsFromGroups(groups []string) []string {
	var tags []string
	for _, g := range groups {
		if !implicitGroups[g] {
			tags = append(tags, g)
		}
	}
	sort.Strings(tags)
	return tags
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// toString renders a scalar YAML value. Stripped Jinja2 expressions count as
// unset.
func toString(v any) string {
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}
	if strings.Contains(s, util.JinjaPlaceholder) {
		return ""
	}
	return s
}
