package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProxmoxServer(t *testing.T) *httptest.Server {
	t.Helper()
	nodes, err := os.ReadFile("../../testdata/proxmox/nodes.json")
	require.NoError(t, err)
	resources, err := os.ReadFile("../../testdata/proxmox/resources.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "PVEAPIToken=root@pam!devinv=secret" {
			http.Error(w, "authentication failure", http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/api2/json/nodes":
			_, _ = w.Write(nodes)
		case "/api2/json/cluster/resources":
			_, _ = w.Write(resources)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProxmoxImporter(t *testing.T) {
	srv := newProxmoxServer(t)
	pi := &ProxmoxImporter{APIURL: srv.URL, TokenID: "root@pam!devinv", Token: "secret", Provider: "PVE"}

	servers, err := pi.Import(context.Background())
	require.NoError(t, err)

	got := byID(servers)
	require.Len(t, got, 4)

	pve1 := got["PVE1"]
	require.NotNil(t, pve1)
	assert.Equal(t, "physical", pve1.Kind)
	assert.Equal(t, "hypervisor", pve1.Role)
	assert.Equal(t, "active", pve1.Status)
	assert.Equal(t, "PVE", pve1.Provider)
	assert.Equal(t, "offline", got["PVE2"].Status)

	vm := got["UBUNTUSERVER"]
	require.NotNil(t, vm)
	assert.Equal(t, "vm", vm.Kind)
	assert.Equal(t, "ubuntu-server", vm.Name)
	assert.Equal(t, []string{"prod", "web"}, vm.Tags)
	assert.Equal(t, "pve1", vm.Extra["PVE_NODE"])
	assert.Equal(t, "100", vm.Extra["PVE_VMID"])

	assert.Equal(t, "lxc", got["PIHOLE"].Kind)
	assert.NotContains(t, got, "WINDOWSDESKTOP")
}

func TestProxmoxImporterIncludeStopped(t *testing.T) {
	srv := newProxmoxServer(t)
	pi := &ProxmoxImporter{APIURL: srv.URL, TokenID: "root@pam!devinv", Token: "secret", IncludeStopped: true}

	servers, err := pi.Import(context.Background())
	require.NoError(t, err)

	got := byID(servers)
	require.Contains(t, got, "WINDOWSDESKTOP")
	assert.Equal(t, "stopped", got["WINDOWSDESKTOP"].Status)
}

func TestProxmoxImporterAuthFailure(t *testing.T) {
	srv := newProxmoxServer(t)
	pi := &ProxmoxImporter{APIURL: srv.URL, TokenID: "root@pam!devinv", Token: "wrong"}

	_, err := pi.Import(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestProxmoxConfigure(t *testing.T) {
	t.Setenv("DEVINV_PROXMOX_TOKEN_ID", "root@pam!env")
	t.Setenv("DEVINV_PROXMOX_TOKEN", "from-env")

	pi := &ProxmoxImporter{}
	require.NoError(t, pi.Configure(map[string]any{
		"api_url":         "https://pve.local:8006/",
		"include_stopped": true,
		"provider":        "PVE",
	}))
	assert.Equal(t, "https://pve.local:8006", pi.APIURL)
	assert.Equal(t, "root@pam!env", pi.TokenID)
	assert.Equal(t, "from-env", pi.Token)
	assert.True(t, pi.IncludeStopped)
	assert.Empty(t, pi.Validate())
}

func TestProxmoxValidate(t *testing.T) {
	t.Setenv("DEVINV_PROXMOX_TOKEN_ID", "")
	t.Setenv("DEVINV_PROXMOX_TOKEN", "")

	pi := &ProxmoxImporter{}
	require.NoError(t, pi.Configure(map[string]any{"provider": "bad-name"}))

	errs := pi.Validate()
	require.Len(t, errs, 3)
	assert.Equal(t, "import.sources.proxmox.api_url", errs[0].Field)
	assert.Equal(t, "import.sources.proxmox.provider", errs[2].Field)
}

func TestProxmoxEnabled(t *testing.T) {
	pi := &ProxmoxImporter{}
	assert.False(t, pi.Enabled(map[string]any{}))
	assert.True(t, pi.Enabled(map[string]any{
		"proxmox": map[string]any{"api_url": "https://pve.local:8006"},
	}))
}
