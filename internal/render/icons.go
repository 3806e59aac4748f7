package render

import (
	"sort"
	"strings"
)

const (
	terrastruct = "https://icons.terrastruct.com"
	selfhst     = "https://cdn.jsdelivr.net/gh/selfhst/icons/svg"
)

// providerIcons maps provider types to icon URLs.
var providerIcons = map[string]string{
	"aws":           terrastruct + "/aws%2F_Group%20Icons%2FAWS-Cloud-alt_light-bg.svg",
	"gcp":           terrastruct + "/gcp%2F_Products%20and%20services%2FCompute%2FCompute%20Engine.svg",
	"azure":         terrastruct + "/azure%2F_Companies%2FAzure.svg",
	"oci":           selfhst + "/oracle-cloud.svg",
	"hetzner":       selfhst + "/hetzner.svg",
	"digitalocean":  selfhst + "/digitalocean.svg",
	"linode":        selfhst + "/linode.svg",
	"vultr":         selfhst + "/vultr.svg",
	"contabo":       selfhst + "/contabo.svg",
	"proxmox":       selfhst + "/proxmox.svg",
	"local_network": terrastruct + "/essentials%2F112-server.svg",
}

// osIcons maps OS name fragments to icon URLs.
var osIcons = map[string]string{
	"ubuntu":  terrastruct + "/dev/ubuntu.svg",
	"debian":  terrastruct + "/dev/debian.svg",
	"centos":  terrastruct + "/dev/centos.svg",
	"redhat":  terrastruct + "/dev/redhat.svg",
	"fedora":  selfhst + "/fedora.svg",
	"alpine":  selfhst + "/alpine-linux.svg",
	"arch":    selfhst + "/arch-linux.svg",
	"linux":   terrastruct + "/dev/linux.svg",
	"macos":   terrastruct + "/dev/apple.svg",
	"darwin":  terrastruct + "/dev/apple.svg",
	"windows": terrastruct + "/dev/windows.svg",
	"freebsd": selfhst + "/freebsd.svg",
}

// LookupProviderIcon returns the icon URL for a provider type.
func LookupProviderIcon(providerType string) string {
	return providerIcons[strings.ToLower(providerType)]
}

// LookupOSIcon returns the icon URL for an OS string such as
// "ubuntu-22.04". Longer fragments win so "ubuntu" beats "linux".
func LookupOSIcon(os string) string {
	osLower := strings.ToLower(os)
	if osLower == "" {
		return ""
	}

	keys := make([]string, 0, len(osIcons))
	for key := range osIcons {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, key := range keys {
		if strings.Contains(osLower, key) {
			return osIcons[key]
		}
	}
	return ""
}
