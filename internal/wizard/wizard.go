package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/charmbracelet/huh"
)

// Run executes the interactive wizard and returns the user's answers.
func Run(detection DetectionResult) (*WizardAnswers, error) {
	answers := &WizardAnswers{
		ProviderType:     "local_network",
		ServerKind:       "vm",
		ServerConnectVia: inventory.ConnectViaSSH,
		ServerPort:       "22",
		Direction:        "right",
		DetailLevel:      "standard",
		EnableAnsible:    detection.AnsibleInventory != "",
		AnsibleInventory: detection.AnsibleInventory,
		EnableTailscale:  detection.TailscaleAvailable,
		AutoRender:       detection.D2Available,
	}

	var hints []string
	if detection.AnsibleInventory != "" {
		hints = append(hints, fmt.Sprintf("Ansible inventory found: %s", detection.AnsibleInventory))
	}
	if detection.TailscaleAvailable {
		hints = append(hints, "Tailscale detected")
	}
	if detection.D2Available {
		hints = append(hints, "d2 detected")
	}

	desc := "Describe the project and the first provider and server of the inventory."
	if len(hints) > 0 {
		desc += "\n\nAuto-detected:\n  " + strings.Join(hints, "\n  ")
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description(desc).
				Value(&answers.Project),
			huh.NewInput().
				Title("Owner (optional)").
				Placeholder("ops@example.com").
				Value(&answers.Owner),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Provider name").
				Description("Letters and digits, e.g. OCI or HOME. Leave empty to skip.").
				Validate(optionalName).
				Value(&answers.ProviderName),
			huh.NewSelect[string]().
				Title("Provider type").
				Options(
					huh.NewOption("Local network", "local_network"),
					huh.NewOption("Oracle Cloud", "oci"),
					huh.NewOption("AWS", "aws"),
					huh.NewOption("Google Cloud", "gcp"),
					huh.NewOption("Azure", "azure"),
					huh.NewOption("Hetzner", "hetzner"),
					huh.NewOption("DigitalOcean", "digitalocean"),
					huh.NewOption("Proxmox", "proxmox"),
				).
				Value(&answers.ProviderType),
			huh.NewInput().
				Title("Default region (optional)").
				Value(&answers.ProviderRegion),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Server id").
				Description("Letters and digits, e.g. WEB01. Leave empty to skip.").
				Validate(optionalName).
				Value(&answers.ServerID),
			huh.NewInput().
				Title("Server name").
				Value(&answers.ServerName),
			huh.NewSelect[string]().
				Title("Kind").
				Options(
					huh.NewOption("Virtual machine", "vm"),
					huh.NewOption("Physical", "physical"),
					huh.NewOption("Local PC", "local_pc"),
				).
				Value(&answers.ServerKind),
			huh.NewSelect[string]().
				Title("Connect via").
				Options(
					huh.NewOption("SSH", inventory.ConnectViaSSH),
					huh.NewOption("Local", inventory.ConnectViaLocal),
				).
				Value(&answers.ServerConnectVia),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Host").
				Placeholder("203.0.113.10").
				Value(&answers.ServerHost),
			huh.NewInput().
				Title("Port").
				Validate(optionalPort).
				Value(&answers.ServerPort),
			huh.NewInput().
				Title("User").
				Value(&answers.ServerUser),
			huh.NewInput().
				Title("SSH key path (optional)").
				Placeholder("~/.ssh/id_ed25519").
				Value(&answers.ServerSSHKey),
			huh.NewInput().
				Title("Environment").
				Placeholder("prod").
				Value(&answers.ServerEnv),
			huh.NewInput().
				Title("Tags (comma separated)").
				Value(&answers.ServerTags),
		).WithHideFunc(func() bool {
			return answers.ServerID == "" || answers.ServerConnectVia == inventory.ConnectViaLocal
		}),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Import hosts from the Ansible inventory?").
				Value(&answers.EnableAnsible),
			huh.NewInput().
				Title("Ansible inventory path").
				Value(&answers.AnsibleInventory),
			huh.NewConfirm().
				Title("Import machines from Tailscale?").
				Value(&answers.EnableTailscale),
			huh.NewConfirm().
				Title("Include offline peers?").
				Value(&answers.IncludeOffline),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Diagram direction").
				Options(
					huh.NewOption("Right (horizontal)", "right"),
					huh.NewOption("Down (vertical)", "down"),
				).
				Value(&answers.Direction),
			huh.NewSelect[string]().
				Title("Detail level").
				Options(
					huh.NewOption("Minimal: providers and servers only", "minimal"),
					huh.NewOption("Standard: addresses, icons and connections", "standard"),
					huh.NewOption("Detailed: roles, status and tags", "detailed"),
				).
				Value(&answers.DetailLevel),
			huh.NewConfirm().
				Title("Render the diagram with d2 automatically?").
				Value(&answers.AutoRender),
		),
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		return nil, err
	}

	return answers, nil
}

func optionalName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || inventory.ValidName(strings.ToUpper(s)) {
		return nil
	}
	return fmt.Errorf("use letters and digits only")
}

func optionalPort(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > inventory.MaxPort {
		return fmt.Errorf("port must be between 1 and %d", inventory.MaxPort)
	}
	return nil
}
