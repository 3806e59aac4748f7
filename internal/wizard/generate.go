package wizard

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
)

// WizardAnswers holds all user responses from the wizard.
type WizardAnswers struct {
	// Metadata
	Project string
	Owner   string

	// First provider
	ProviderName   string
	ProviderType   string
	ProviderRegion string
	ProviderLabel  string

	// First server
	ServerID         string
	ServerName       string
	ServerKind       string
	ServerConnectVia string
	ServerHost       string
	ServerPort       string
	ServerUser       string
	ServerSSHKey     string
	ServerEnv        string
	ServerRole       string
	ServerTags       string

	// Import sources for devinv.yml
	EnableAnsible    bool
	AnsibleInventory string
	EnableTailscale  bool
	TailscaleJSON    string
	IncludeOffline   bool

	// Diagram settings
	Direction   string
	DetailLevel string
	AutoRender  bool
}

// GenerateInventory turns the answers into inventory text.
func GenerateInventory(answers WizardAnswers) (string, error) {
	inv := inventory.New()
	inv.Metadata.Project = strings.TrimSpace(answers.Project)
	inv.Metadata.Owner = strings.TrimSpace(answers.Owner)

	providerName := strings.ToUpper(strings.TrimSpace(answers.ProviderName))
	if providerName != "" {
		if !inventory.ValidName(providerName) {
			return "", fmt.Errorf("invalid provider name %q: use letters and digits only", answers.ProviderName)
		}
		p := inv.Provider(providerName)
		p.Type = strings.TrimSpace(answers.ProviderType)
		p.DefaultRegion = strings.TrimSpace(answers.ProviderRegion)
		p.Label = strings.TrimSpace(answers.ProviderLabel)
	}

	serverID := strings.ToUpper(strings.TrimSpace(answers.ServerID))
	if serverID != "" {
		if !inventory.ValidName(serverID) {
			return "", fmt.Errorf("invalid server id %q: use letters and digits only", answers.ServerID)
		}
		s := inv.Server(serverID)
		s.Provider = providerName
		s.Kind = strings.TrimSpace(answers.ServerKind)
		s.Name = strings.TrimSpace(answers.ServerName)
		s.ConnectVia = strings.TrimSpace(answers.ServerConnectVia)
		s.Host = strings.TrimSpace(answers.ServerHost)
		s.User = strings.TrimSpace(answers.ServerUser)
		s.SSHKeyPath = strings.TrimSpace(answers.ServerSSHKey)
		s.Env = strings.TrimSpace(answers.ServerEnv)
		s.Role = strings.TrimSpace(answers.ServerRole)
		s.Tags = inventory.SplitTags(answers.ServerTags)

		if port := strings.TrimSpace(answers.ServerPort); port != "" {
			n, err := strconv.Atoi(port)
			if err != nil || n < 1 || n > inventory.MaxPort {
				return "", fmt.Errorf("invalid port %q", answers.ServerPort)
			}
			s.SetPort(n)
		}
	}

	return inventory.Serialize(inv), nil
}

const configTemplate = `# devinv configuration

inventory:
  - {{ .Inventory }}

diagram:
  output: inventory.d2
  direction: {{ .Direction }}
  detail_level: {{ .DetailLevel }}
  auto_render: {{ if .AutoRender }}true{{ else }}false{{ end }}

{{- if or .EnableAnsible .EnableTailscale }}

import:
  sources:
{{- if .EnableAnsible }}
    ansible:
      inventory: {{ .AnsibleInventory }}
{{- if .Provider }}
      provider: {{ .Provider }}
{{- end }}
{{- end }}
{{- if .EnableTailscale }}
    tailscale:
      enabled: true
{{- if .TailscaleJSON }}
      json_file: {{ .TailscaleJSON }}
{{- end }}
      include_offline: {{ if .IncludeOffline }}true{{ else }}false{{ end }}
{{- end }}
{{- end }}
`

type configData struct {
	WizardAnswers
	Inventory string
	Provider  string
}

// GenerateConfig renders devinv.yml from wizard answers. inventoryPath is
// the inventory file the config points at.
func GenerateConfig(answers WizardAnswers, inventoryPath string) (string, error) {
	if answers.Direction == "" {
		answers.Direction = "right"
	}
	if answers.DetailLevel == "" {
		answers.DetailLevel = "standard"
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", err
	}

	data := configData{
		WizardAnswers: answers,
		Inventory:     inventoryPath,
		Provider:      strings.ToUpper(strings.TrimSpace(answers.ProviderName)),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
