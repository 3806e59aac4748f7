package wizard

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ThomasCrouzet/devops-inventory/internal/config"
)

// DetectionResult holds what was auto-detected on the system.
type DetectionResult struct {
	ExistingInventory  string // path of an inventory that already exists
	AnsibleInventory   string // path if found, empty otherwise
	TailscaleAvailable bool
	D2Available        bool
}

// Detector abstracts filesystem and path lookups for testing.
type Detector interface {
	LookPath(name string) (string, error)
	Stat(path string) (os.FileInfo, error)
	Glob(pattern string) ([]string, error)
}

// OSDetector uses the real OS for detection.
type OSDetector struct{}

func (OSDetector) LookPath(name string) (string, error)  { return exec.LookPath(name) }
func (OSDetector) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }
func (OSDetector) Glob(pattern string) ([]string, error) { return filepath.Glob(pattern) }

var ansibleInventoryPaths = []string{
	"hosts.yml",
	"hosts.yaml",
	"inventory/hosts.yml",
	"inventory/hosts.yaml",
	"../inventory/hosts.yml",
}

// Detect scans the environment for an existing inventory and import sources.
func Detect(d Detector) DetectionResult {
	if d == nil {
		d = OSDetector{}
	}

	result := DetectionResult{}

	if info, err := d.Stat(config.DefaultInventory); err == nil && !info.IsDir() {
		result.ExistingInventory = config.DefaultInventory
	} else if matches, err := d.Glob("*.agent-devops.env"); err == nil && len(matches) > 0 {
		result.ExistingInventory = matches[0]
	}

	for _, p := range ansibleInventoryPaths {
		if _, err := d.Stat(p); err == nil {
			result.AnsibleInventory = p
			break
		}
	}

	if _, err := d.LookPath("tailscale"); err == nil {
		result.TailscaleAvailable = true
	}
	if _, err := d.LookPath("d2"); err == nil {
		result.D2Available = true
	}

	return result
}
