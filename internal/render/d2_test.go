package render

import (
	"os"
	"strings"
	"testing"

	"github.com/ThomasCrouzet/devops-inventory/internal/config"
	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) *inventory.Inventory {
	t.Helper()
	data, err := os.ReadFile("../../testdata/inventory/sample.env")
	require.NoError(t, err)
	res := inventory.Parse(string(data))
	require.True(t, res.OK(), "%v", res.Findings)
	return res.Inventory
}

func diagramConfig(detail string) *config.DiagramConfig {
	cfg := config.Defaults().Diagram
	cfg.DetailLevel = detail
	return &cfg
}

func TestD2RendererBasic(t *testing.T) {
	output := RenderD2(loadSample(t), diagramConfig("standard"))

	assert.Contains(t, output, "direction: right")
	assert.Contains(t, output, `title: "homelab" {`)
	assert.Contains(t, output, `oci: "Oracle Cloud (oci)" {`)
	assert.Contains(t, output, `home: "HOME (local_network)" {`)
	assert.Contains(t, output, `web01: "web-01\n203.0.113.10" {`)
	assert.Contains(t, output, `nas: "nas" {`)
	assert.Contains(t, output, `tooltip: "ubuntu@203.0.113.10:22"`)
	assert.Contains(t, output, `tooltip: "Region: eu-frankfurt-1"`)
	assert.Contains(t, output, LookupProviderIcon("oci"))
	assert.Contains(t, output, LookupOSIcon("ubuntu-22.04"))
	assert.NotContains(t, output, "unassigned")
}

func TestD2RendererEnvColors(t *testing.T) {
	output := RenderD2(loadSample(t), diagramConfig("standard"))

	theme := GetTheme("default")
	assert.Contains(t, output, theme.ColorForEnv("prod").Fill)
	assert.Contains(t, output, theme.ColorForEnv("home").Fill)
}

func TestD2RendererConnections(t *testing.T) {
	output := RenderD2(loadSample(t), diagramConfig("standard"))

	assert.Contains(t, output, "shape: person")
	assert.Contains(t, output, `operator -> oci.web01: "ssh"`)
	assert.Contains(t, output, `operator -> home.nas: "local" { style.stroke-dash: 3 }`)
}

func TestD2RendererMinimal(t *testing.T) {
	output := RenderD2(loadSample(t), diagramConfig("minimal"))

	assert.Contains(t, output, `web01: "web-01" {`)
	assert.Contains(t, output, `oci: "Oracle Cloud" {`)
	assert.NotContains(t, output, "operator")
	assert.NotContains(t, output, "tooltip")
	assert.NotContains(t, output, "icon:")
}

func TestD2RendererDetailed(t *testing.T) {
	output := RenderD2(loadSample(t), diagramConfig("detailed"))

	assert.Contains(t, output, `vm · web · prod · active`)
	assert.Contains(t, output, `#prod #web #edge`)
}

func TestD2RendererUnassigned(t *testing.T) {
	inv := inventory.Parse(strings.Join([]string{
		"SERVER_A_PROVIDER=GONE",
		"SERVER_A_NAME=alpha",
		"SERVER_A_CONNECT_VIA=ssh",
		"SERVER_B_NAME=beta",
		"SERVER_B_STATUS=offline",
	}, "\n")).Inventory

	output := RenderD2(inv, diagramConfig("standard"))

	assert.Contains(t, output, `unassigned: "Unassigned" {`)
	assert.Contains(t, output, `operator -> unassigned.a: "ssh"`)
	assert.NotContains(t, output, "unassigned.b")
	assert.Contains(t, output, "style.stroke-dash: 3")
	assert.NotContains(t, output, "title:")
}

func TestD2RendererDirection(t *testing.T) {
	cfg := diagramConfig("minimal")
	cfg.Direction = "down"

	output := RenderD2(inventory.New(), cfg)
	assert.Equal(t, "direction: down\n\n", output)
}

func TestD2RendererUniqueIDs(t *testing.T) {
	res := inventory.Parse(`PROVIDER_home_TYPE=lan
PROVIDER_HOME_TYPE=lan
PROVIDER_OPERATOR_TYPE=lan
SERVER_web1_PROVIDER=HOME
SERVER_web1_CONNECT_VIA=ssh
SERVER_WEB1_PROVIDER=HOME
SERVER_WEB1_CONNECT_VIA=ssh
`)
	output := RenderD2(res.Inventory, diagramConfig("standard"))

	assert.Contains(t, output, `home: "home (lan)" {`)
	assert.Contains(t, output, `home-2: "HOME (lan)" {`)
	assert.Contains(t, output, `operator-2: "OPERATOR (lan)" {`)
	assert.Contains(t, output, `  web1: "web1" {`)
	assert.Contains(t, output, `  web1-2: "WEB1" {`)
	assert.Contains(t, output, `operator -> home-2.web1: "ssh"`)
	assert.Contains(t, output, `operator -> home-2.web1-2: "ssh"`)
	assert.Equal(t, 1, strings.Count(output, `operator: "Operator" {`))
}
