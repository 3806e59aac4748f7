package importer

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statusFixture = "../../testdata/tailscale/status.json"

func TestTailscaleImporter(t *testing.T) {
	ti := &TailscaleImporter{JsonFile: statusFixture, Provider: "TAILNET"}

	servers, err := ti.Import(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "ATLAS", servers[0].ID)
	assert.Equal(t, "GATEWAY", servers[1].ID)

	gw := servers[1]
	assert.Equal(t, "gateway", gw.Name)
	assert.Equal(t, "100.64.0.2", gw.Host)
	assert.Equal(t, "linux", gw.OS)
	assert.Equal(t, "active", gw.Status)
	assert.Equal(t, "TAILNET", gw.Provider)
	assert.Equal(t, []string{"server", "prod"}, gw.Tags)
	assert.Equal(t, "gateway.tail1234.ts.net", gw.Extra["TAILSCALE_DNS"])
}

func TestTailscaleImporterIncludeOffline(t *testing.T) {
	ti := &TailscaleImporter{JsonFile: statusFixture, IncludeOffline: true}

	servers, err := ti.Import(context.Background())
	require.NoError(t, err)

	got := byID(servers)
	require.Contains(t, got, "BACKUPBOX")
	assert.Equal(t, "offline", got["BACKUPBOX"].Status)
	assert.NotContains(t, got, "OFFLINELAPTOP")
}

func TestTailscaleImporterIncludeDevices(t *testing.T) {
	ti := &TailscaleImporter{JsonFile: statusFixture, IncludeDevices: true, IncludeOffline: true}

	servers, err := ti.Import(context.Background())
	require.NoError(t, err)

	got := byID(servers)
	assert.Len(t, got, 6)
	assert.Equal(t, "macos", got["MINICORE"].OS)
	assert.Equal(t, "100.64.0.1", got["MINICORE"].Host)
	assert.Empty(t, got["USERPHONE"].Tags)
}

func TestTailscaleImporterLive(t *testing.T) {
	data, err := os.ReadFile(statusFixture)
	require.NoError(t, err)

	orig := tailscaleStatusCommand
	t.Cleanup(func() { tailscaleStatusCommand = orig })

	tailscaleStatusCommand = func(context.Context) ([]byte, error) { return data, nil }
	servers, err := (&TailscaleImporter{}).Import(context.Background())
	require.NoError(t, err)
	assert.Len(t, servers, 2)

	tailscaleStatusCommand = func(context.Context) ([]byte, error) { return nil, errors.New("not running") }
	_, err = (&TailscaleImporter{}).Import(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running tailscale status")
}

func TestTailscaleImporterConfigure(t *testing.T) {
	ti := &TailscaleImporter{}
	assert.False(t, ti.Enabled(map[string]any{"tailscale": map[string]any{}}))
	assert.True(t, ti.Enabled(map[string]any{"tailscale": map[string]any{"enabled": true}}))

	require.NoError(t, ti.Configure(map[string]any{
		"json_file":       statusFixture,
		"include_offline": true,
		"include_devices": true,
		"provider":        "TAILNET",
	}))
	assert.Equal(t, statusFixture, ti.JsonFile)
	assert.True(t, ti.IncludeOffline)
	assert.True(t, ti.IncludeDevices)
	assert.Empty(t, ti.Validate())

	ti.JsonFile = "/nonexistent/status.json"
	errs := ti.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "import.sources.tailscale.json_file", errs[0].Field)
}
