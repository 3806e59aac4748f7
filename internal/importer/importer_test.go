package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"ansible", "proxmox", "tailscale"}, Names())

	imp, ok := Lookup("tailscale")
	require.True(t, ok)
	assert.Equal(t, "Tailscale", imp.Metadata().DisplayName)

	_, ok = Lookup("kubernetes")
	assert.False(t, ok)
}

func TestApplyKeepsExistingFields(t *testing.T) {
	inv := inventory.Parse("PROVIDER_HOME_TYPE=local_network\nSERVER_WEB01_PROVIDER=HOME\nSERVER_WEB01_HOST=10.0.0.5\nSERVER_WEB01_TAGS=edge").Inventory

	port := 2222
	stats := Apply(inv, []*inventory.Server{
		{ID: "WEB01", Provider: "LAB", Host: "203.0.113.20", User: "deploy", Port: &port, Tags: []string{"web"}},
		{ID: "DB01", Provider: "LAB", Host: "10.0.0.30"},
	}, ApplyOptions{ProviderType: "ansible"})

	assert.Equal(t, Stats{Added: 1, Updated: 1}, stats)

	web := inv.Servers["WEB01"]
	assert.Equal(t, "HOME", web.Provider)
	assert.Equal(t, "10.0.0.5", web.Host)
	assert.Equal(t, "deploy", web.User)
	assert.Equal(t, 2222, *web.Port)
	assert.Equal(t, []string{"edge"}, web.Tags)

	require.Contains(t, inv.Providers, "LAB")
	assert.Equal(t, "ansible", inv.Providers["LAB"].Type)
	assert.Equal(t, "local_network", inv.Providers["HOME"].Type)

	ids := []string{}
	for _, s := range inv.ServerList() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"WEB01", "DB01"}, ids)
}

func TestApplyOverwrite(t *testing.T) {
	inv := inventory.Parse("SERVER_WEB01_HOST=10.0.0.5\nSERVER_WEB01_TAGS=edge\nSERVER_WEB01_TAILSCALE_DNS=old").Inventory

	stats := Apply(inv, []*inventory.Server{
		{ID: "WEB01", Host: "100.64.0.2", Tags: []string{"server"}, Extra: map[string]string{"TAILSCALE_DNS": "web01.ts.net"}},
	}, ApplyOptions{Overwrite: true})

	assert.Equal(t, Stats{Updated: 1}, stats)
	web := inv.Servers["WEB01"]
	assert.Equal(t, "100.64.0.2", web.Host)
	assert.Equal(t, []string{"server"}, web.Tags)
	assert.Equal(t, "web01.ts.net", web.Extra["TAILSCALE_DNS"])
}

func TestApplyUnchanged(t *testing.T) {
	inv := inventory.Parse("SERVER_WEB01_HOST=10.0.0.5").Inventory

	stats := Apply(inv, []*inventory.Server{{ID: "WEB01", Host: "10.0.0.5"}, {ID: ""}}, ApplyOptions{})
	assert.Equal(t, Stats{}, stats)
	assert.Len(t, inv.Servers, 1)
}

func TestRun(t *testing.T) {
	inv := inventory.New()
	sources := map[string]any{
		"ansible": map[string]any{
			"inventory": "../../testdata/ansible/hosts.yml",
			"provider":  "HOME",
		},
	}

	results, err := Run(context.Background(), inv, sources, Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Ansible Inventory", results[0].Name)
	assert.False(t, results[0].Skipped)
	assert.Equal(t, "3 added, 0 updated", results[0].Detail)
	assert.True(t, results[1].Skipped)
	assert.True(t, results[2].Skipped)

	assert.Len(t, inv.Servers, 3)
	assert.Equal(t, "ansible", inv.Providers["HOME"].Type)
}

func TestRunInvalidConfig(t *testing.T) {
	sources := map[string]any{
		"tailscale": map[string]any{"enabled": true, "json_file": "/nonexistent/status.json"},
	}

	results, err := Run(context.Background(), inventory.New(), sources, Options{})
	require.Error(t, err)

	var ierr *ImportError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "Tailscale", ierr.Importer)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "import.sources.tailscale.json_file", verr.Field)

	require.Len(t, results, 3)
	assert.True(t, results[1].Skipped)
	assert.Equal(t, err, results[2].Err)
}

// stubImporter returns a fixed server list.
type stubImporter struct{ servers []*inventory.Server }

func (s *stubImporter) Metadata() Metadata {
	return Metadata{Name: "stub", DisplayName: "Stub", ConfigKey: "stub"}
}
func (s *stubImporter) Enabled(map[string]any) bool { return true }
func (s *stubImporter) Configure(map[string]any) error { return nil }
func (s *stubImporter) Validate() []ValidationError { return nil }
func (s *stubImporter) Import(context.Context) ([]*inventory.Server, error) {
	return s.servers, nil
}

func TestRunOneRenamesCollidingIDs(t *testing.T) {
	inv := inventory.New()
	imp := &stubImporter{servers: []*inventory.Server{
		{ID: "WEB01", Name: "web-01", Host: "10.0.0.1"},
		{ID: "WEB01", Name: "web01", Host: "10.0.0.2"},
		{ID: "WEB012", Name: "web012", Host: "10.0.0.3"},
		{ID: "WEB01", Name: "web_01", Host: "10.0.0.4"},
	}}

	res, err := RunOne(context.Background(), inv, imp, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "4 added, 0 updated", res.Detail)

	hosts := make(map[string]string)
	for _, s := range inv.ServerList() {
		hosts[s.ID] = s.Host
	}
	assert.Equal(t, map[string]string{
		"WEB01":  "10.0.0.1",
		"WEB013": "10.0.0.2",
		"WEB012": "10.0.0.3",
		"WEB014": "10.0.0.4",
	}, hosts)
}
