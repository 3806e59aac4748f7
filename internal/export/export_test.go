package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const text = `AGENT_DEVOPS_PROJECT=homelab
PROVIDER_OCI_TYPE=oci
SERVER_WEB01_PROVIDER=OCI
SERVER_WEB01_KIND=vm
SERVER_WEB01_NAME=web-01
SERVER_WEB01_CONNECT_VIA=ssh
SERVER_WEB01_PORT=22
SERVER_WEB01_TAGS=prod,web
SERVER_WEB01_RACK=r1
`

func TestInventoryJSON(t *testing.T) {
	inv := inventory.Parse(text).Inventory

	var buf bytes.Buffer
	require.NoError(t, Inventory(&buf, inv, FormatJSON))

	var decoded inventory.Inventory
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "homelab", decoded.Metadata.Project)
	require.Contains(t, decoded.Servers, "WEB01")
	web := decoded.Servers["WEB01"]
	require.NotNil(t, web.Port)
	assert.Equal(t, 22, *web.Port)
	assert.Equal(t, []string{"prod", "web"}, web.Tags)
	assert.Equal(t, map[string]string{"RACK": "r1"}, web.Extra)
}

func TestInventoryYAML(t *testing.T) {
	inv := inventory.Parse(text).Inventory

	var buf bytes.Buffer
	require.NoError(t, Inventory(&buf, inv, FormatYAML))
	assert.Contains(t, buf.String(), "connect_via: ssh")

	var decoded inventory.Inventory
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "oci", decoded.Providers["OCI"].Type)
}

func TestInventoryTOML(t *testing.T) {
	inv := inventory.Parse(text).Inventory

	var buf bytes.Buffer
	require.NoError(t, Inventory(&buf, inv, FormatTOML))

	var decoded inventory.Inventory
	require.NoError(t, toml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "web-01", decoded.Servers["WEB01"].Name)
}

func TestInventoryEnv(t *testing.T) {
	inv := inventory.Parse(text).Inventory

	var buf bytes.Buffer
	require.NoError(t, Inventory(&buf, inv, FormatEnv))
	assert.Equal(t, inventory.Serialize(inv), buf.String())
}

func TestServersAndFindings(t *testing.T) {
	res := inventory.Parse("SERVER_A_HOST=10.0.0.1")

	for _, format := range []string{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Servers(&buf, res.Inventory.ServerList(), format))
			assert.Contains(t, buf.String(), "10.0.0.1")

			buf.Reset()
			require.NoError(t, Findings(&buf, res.Findings, format))
			assert.Contains(t, buf.String(), "Server A is missing KIND")
		})
	}
}

func TestEmptyListsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Findings(&buf, nil, FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Inventory(&buf, inventory.New(), "xml")
	assert.ErrorContains(t, err, `unsupported format "xml"`)
}
