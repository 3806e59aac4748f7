package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/util"
)

func init() {
	Register(func() Importer { return &TailscaleImporter{} })
}

// tailscaleStatusCommand runs `tailscale status --json`. Tests replace it.
var tailscaleStatusCommand = func(ctx context.Context) ([]byte, error) {
	return exec.CommandContext(ctx, "tailscale", "status", "--json").Output()
}

// TailscaleImporter reads tailnet peers from `tailscale status --json`.
type TailscaleImporter struct {
	JsonFile       string
	IncludeOffline bool
	IncludeDevices bool
	Provider       string
	Kind           string
}

func (ti *TailscaleImporter) Metadata() Metadata {
	return Metadata{
		Name:         "tailscale",
		DisplayName:  "Tailscale",
		Description:  "Imports tailnet machines with their tailscale IPs, OS and online status",
		ConfigKey:    "tailscale",
		DetectHint:   "tailscale",
		ProviderType: "tailnet",
	}
}

func (ti *TailscaleImporter) Enabled(sources map[string]any) bool {
	section, ok := sources["tailscale"].(map[string]any)
	if !ok {
		return false
	}
	if enabled, ok := section["enabled"].(bool); ok {
		return enabled
	}
	return false
}

func (ti *TailscaleImporter) Configure(section map[string]any) error {
	if section == nil {
		return nil
	}
	if v, ok := section["json_file"].(string); ok {
		ti.JsonFile = util.ExpandPath(v)
	}
	if v, ok := section["include_offline"].(bool); ok {
		ti.IncludeOffline = v
	}
	if v, ok := section["include_devices"].(bool); ok {
		ti.IncludeDevices = v
	}
	if v, ok := section["provider"].(string); ok {
		ti.Provider = v
	}
	if v, ok := section["kind"].(string); ok {
		ti.Kind = v
	}
	return nil
}

func (ti *TailscaleImporter) Validate() []ValidationError {
	var errs []ValidationError
	if ti.JsonFile != "" {
		if _, err := os.Stat(ti.JsonFile); err != nil {
			errs = append(errs, ValidationError{
				Field:      "import.sources.tailscale.json_file",
				Message:    fmt.Sprintf("file not found: %s", ti.JsonFile),
				Suggestion: "check the path or remove json_file to use live tailscale status",
			})
		}
	} else if _, err := exec.LookPath("tailscale"); err != nil {
		errs = append(errs, ValidationError{
			Field:      "import.sources.tailscale",
			Message:    "tailscale binary not found in PATH",
			Suggestion: "install tailscale or provide a json_file path",
		})
	}
	if ti.Provider != "" && !inventory.ValidName(ti.Provider) {
		errs = append(errs, ValidationError{
			Field:      "import.sources.tailscale.provider",
			Message:    fmt.Sprintf("invalid provider name %q", ti.Provider),
			Suggestion: "provider names are letters and digits only, e.g. TAILNET",
		})
	}
	return errs
}

// tailscaleStatus represents the JSON output of `tailscale status --json`.
type tailscaleStatus struct {
	Self           tailscalePeer            `json:"Self"`
	Peer           map[string]tailscalePeer `json:"Peer"`
	MagicDNSSuffix string                   `json:"MagicDNSSuffix"`
	CurrentTailnet *tailscaleTailnet        `json:"CurrentTailnet"`
}

type tailscaleTailnet struct {
	Name string `json:"Name"`
}

type tailscalePeer struct {
	HostName     string   `json:"HostName"`
	DNSName      string   `json:"DNSName"`
	OS           string   `json:"OS"`
	TailscaleIPs []string `json:"TailscaleIPs"`
	Online       bool     `json:"Online"`
	Tags         []string `json:"Tags"`
}

// isServer reports whether the peer carries a server tag such as
// tag:server or tag:server-prod.
func (p tailscalePeer) isServer() bool {
	for _, tag := range p.Tags {
		if strings.Contains(tag, "server") {
			return true
		}
	}
	return false
}

func (ti *TailscaleImporter) Import(ctx context.Context) ([]*inventory.Server, error) {
	data, err := ti.getData(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting tailscale data: %w", err)
	}

	var status tailscaleStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("parsing tailscale json: %w", err)
	}

	peers := []tailscalePeer{status.Self}
	keys := make([]string, 0, len(status.Peer))
	for k := range status.Peer {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		peers = append(peers, status.Peer[k])
	}

	var servers []*inventory.Server
	for _, peer := range peers {
		if !peer.Online && !ti.IncludeOffline {
			continue
		}
		if !peer.isServer() && !ti.IncludeDevices {
			continue
		}
		if s := ti.toServer(peer); s != nil {
			servers = append(servers, s)
		}
	}

	sort.SliceStable(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })
	return servers, nil
}

func (ti *TailscaleImporter) getData(ctx context.Context) ([]byte, error) {
	if ti.JsonFile != "" {
		return os.ReadFile(ti.JsonFile)
	}

	output, err := tailscaleStatusCommand(ctx)
	if err != nil {
		return nil, fmt.Errorf("running tailscale status: %w", err)
	}
	return output, nil
}

func (ti *TailscaleImporter) toServer(peer tailscalePeer) *inventory.Server {
	hostname := strings.ToLower(peer.HostName)
	id := util.InventoryName(hostname)
	if id == "" {
		return nil
	}

	kind := ti.Kind
	if kind == "" {
		kind = "vm"
	}

	status := "active"
	if !peer.Online {
		status = "offline"
	}

	s := &inventory.Server{
		ID:         id,
		Provider:   ti.Provider,
		Kind:       kind,
		Name:       hostname,
		ConnectVia: inventory.ConnectViaSSH,
		OS:         strings.ToLower(peer.OS),
		Status:     status,
	}
	if len(peer.TailscaleIPs) > 0 {
		s.Host = peer.TailscaleIPs[0]
	}
	for _, tag := range peer.Tags {
		s.Tags = append(s.Tags, strings.TrimPrefix(tag, "tag:"))
	}
	if dns := strings.TrimSuffix(peer.DNSName, "."); dns != "" {
		s.Extra = map[string]string{"TAILSCALE_DNS": dns}
	}
	return s
}
