package importer

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/util"
)

func init() {
	Register(func() Importer { return &ProxmoxImporter{} })
}

// ProxmoxImporter reads nodes, VMs and LXC containers from the Proxmox VE API.
type ProxmoxImporter struct {
	APIURL         string
	TokenID        string
	Token          string
	Insecure       bool
	IncludeStopped bool
	Provider       string
}

func (pi *ProxmoxImporter) Metadata() Metadata {
	return Metadata{
		Name:         "proxmox",
		DisplayName:  "Proxmox VE",
		Description:  "Imports hypervisor nodes, VMs and LXC containers from Proxmox VE clusters",
		ConfigKey:    "proxmox",
		ProviderType: "proxmox",
	}
}

func (pi *ProxmoxImporter) Enabled(sources map[string]any) bool {
	section, ok := sources["proxmox"].(map[string]any)
	if !ok {
		return false
	}
	url, _ := section["api_url"].(string)
	return url != ""
}

func (pi *ProxmoxImporter) Configure(section map[string]any) error {
	if section == nil {
		section = map[string]any{}
	}
	if v, ok := section["api_url"].(string); ok {
		pi.APIURL = strings.TrimSuffix(v, "/")
	}
	if v, ok := section["token_id"].(string); ok {
		pi.TokenID = v
	}
	if v, ok := section["token"].(string); ok {
		pi.Token = v
	}
	if pi.TokenID == "" {
		pi.TokenID = os.Getenv("DEVINV_PROXMOX_TOKEN_ID")
	}
	if pi.Token == "" {
		pi.Token = os.Getenv("DEVINV_PROXMOX_TOKEN")
	}
	if v, ok := section["insecure"].(bool); ok {
		pi.Insecure = v
	}
	if v, ok := section["include_stopped"].(bool); ok {
		pi.IncludeStopped = v
	}
	if v, ok := section["provider"].(string); ok {
		pi.Provider = v
	}
	return nil
}

func (pi *ProxmoxImporter) Validate() []ValidationError {
	var errs []ValidationError
	if pi.APIURL == "" {
		errs = append(errs, ValidationError{
			Field:      "import.sources.proxmox.api_url",
			Message:    "api_url is required",
			Suggestion: "set the URL of your Proxmox VE instance, e.g. https://pve.local:8006",
		})
	}
	if pi.TokenID == "" || pi.Token == "" {
		errs = append(errs, ValidationError{
			Field:      "import.sources.proxmox.token_id",
			Message:    "token_id and token are required for API authentication",
			Suggestion: "create an API token in Datacenter > Permissions > API Tokens, or run through 'devinv secrets exec' with DEVINV_PROXMOX_TOKEN_ID and DEVINV_PROXMOX_TOKEN in the vault",
		})
	}
	if pi.Provider != "" && !inventory.ValidName(pi.Provider) {
		errs = append(errs, ValidationError{
			Field:      "import.sources.proxmox.provider",
			Message:    fmt.Sprintf("invalid provider name %q", pi.Provider),
			Suggestion: "provider names are letters and digits only, e.g. PVE",
		})
	}
	return errs
}

type pveResponse[T any] struct {
	Data []T `json:"data"`
}

type pveNode struct {
	Node   string `json:"node"`
	Status string `json:"status"`
}

type pveResource struct {
	ID     string `json:"id"`
	Type   string `json:"type"` // "qemu" or "lxc"
	Node   string `json:"node"`
	VMID   int    `json:"vmid"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Tags   string `json:"tags"` // semicolon separated
}

func (pi *ProxmoxImporter) Import(ctx context.Context) ([]*inventory.Server, error) {
	var nodes pveResponse[pveNode]
	if err := pi.apiGet(ctx, "/api2/json/nodes", &nodes); err != nil {
		return nil, fmt.Errorf("getting nodes: %w", err)
	}

	var resources pveResponse[pveResource]
	if err := pi.apiGet(ctx, "/api2/json/cluster/resources?type=vm", &resources); err != nil {
		return nil, fmt.Errorf("getting resources: %w", err)
	}

	var servers []*inventory.Server

	for _, node := range nodes.Data {
		id := util.InventoryName(node.Node)
		if id == "" {
			continue
		}
		status := "active"
		if node.Status != "online" {
			status = "offline"
		}
		servers = append(servers, &inventory.Server{
			ID:         id,
			Provider:   pi.Provider,
			Kind:       "physical",
			Name:       node.Node,
			ConnectVia: inventory.ConnectViaSSH,
			Role:       "hypervisor",
			Status:     status,
			Tags:       []string{"proxmox"},
		})
	}

	for _, res := range resources.Data {
		if res.Status != "running" && !pi.IncludeStopped {
			continue
		}
		id := util.InventoryName(res.Name)
		if id == "" {
			id = "VM" + strconv.Itoa(res.VMID)
		}

		kind := "vm"
		if res.Type == "lxc" {
			kind = "lxc"
		}
		status := "active"
		if res.Status != "running" {
			status = res.Status
		}

		s := &inventory.Server{
			ID:         id,
			Provider:   pi.Provider,
			Kind:       kind,
			Name:       res.Name,
			ConnectVia: inventory.ConnectViaSSH,
			Status:     status,
			Tags:       pveTags(res.Tags),
			Extra: map[string]string{
				"PVE_NODE": res.Node,
				"PVE_VMID": strconv.Itoa(res.VMID),
			},
		}
		servers = append(servers, s)
	}

	sort.SliceStable(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })
	return servers, nil
}

func pveTags(raw string) []string {
	var tags []string
	for _, t := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' }) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (pi *ProxmoxImporter) httpClient() *http.Client {
	client := &http.Client{Timeout: 30 * time.Second}
	if pi.Insecure {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // user-configured
		}
	}
	return client
}

func (pi *ProxmoxImporter) apiGet(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pi.APIURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("PVEAPIToken=%s=%s", pi.TokenID, pi.Token))

	resp, err := pi.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("proxmox API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("parsing proxmox response: %w", err)
	}
	return nil
}
