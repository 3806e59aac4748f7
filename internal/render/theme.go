package render

import (
	"sort"
	"strings"
)

// Theme defines colors for environments and diagram elements.
type Theme struct {
	Name   string
	Colors map[string]ThemeColor
}

// ThemeColor defines fill and stroke colors for an element type.
type ThemeColor struct {
	Fill   string
	Stroke string
	Font   string
}

var themes = map[string]*Theme{
	"default": {
		Name: "default",
		Colors: map[string]ThemeColor{
			"production": {Fill: "#FEE2E2", Stroke: "#DC2626", Font: "#991B1B"},
			"staging":    {Fill: "#FEF9C3", Stroke: "#CA8A04", Font: "#854D0E"},
			"dev":        {Fill: "#E0F2FE", Stroke: "#0284C7", Font: "#075985"},
			"lab":        {Fill: "#DCFCE7", Stroke: "#16A34A", Font: "#166534"},
			"server":     {Fill: "#F9FAFB", Stroke: "#6B7280", Font: "#111827"},
			"provider":   {Fill: "#DBEAFE", Stroke: "#2563EB", Font: "#1E40AF"},
			"unassigned": {Fill: "#F3F4F6", Stroke: "#9CA3AF", Font: "#374151"},
			"operator":   {Fill: "#EDE9FE", Stroke: "#7C3AED", Font: "#5B21B6"},
		},
	},
	"dark": {
		Name: "dark",
		Colors: map[string]ThemeColor{
			"production": {Fill: "#450A0A", Stroke: "#EF4444", Font: "#FCA5A5"},
			"staging":    {Fill: "#422006", Stroke: "#EAB308", Font: "#FDE047"},
			"dev":        {Fill: "#082F49", Stroke: "#0EA5E9", Font: "#7DD3FC"},
			"lab":        {Fill: "#052E16", Stroke: "#22C55E", Font: "#86EFAC"},
			"server":     {Fill: "#111827", Stroke: "#9CA3AF", Font: "#F9FAFB"},
			"provider":   {Fill: "#1E3A5F", Stroke: "#3B82F6", Font: "#93C5FD"},
			"unassigned": {Fill: "#1F2937", Stroke: "#9CA3AF", Font: "#D1D5DB"},
			"operator":   {Fill: "#2E1065", Stroke: "#A78BFA", Font: "#C4B5FD"},
		},
	},
	"monochrome": {
		Name: "monochrome",
		Colors: map[string]ThemeColor{
			"production": {Fill: "#E5E7EB", Stroke: "#374151", Font: "#111827"},
			"staging":    {Fill: "#F3F4F6", Stroke: "#6B7280", Font: "#374151"},
			"dev":        {Fill: "#F9FAFB", Stroke: "#9CA3AF", Font: "#4B5563"},
			"lab":        {Fill: "#F3F4F6", Stroke: "#6B7280", Font: "#374151"},
			"server":     {Fill: "#FFFFFF", Stroke: "#6B7280", Font: "#111827"},
			"provider":   {Fill: "#E5E7EB", Stroke: "#4B5563", Font: "#1F2937"},
			"unassigned": {Fill: "#F3F4F6", Stroke: "#9CA3AF", Font: "#6B7280"},
			"operator":   {Fill: "#D1D5DB", Stroke: "#374151", Font: "#111827"},
		},
	},
	"ocean": {
		Name: "ocean",
		Colors: map[string]ThemeColor{
			"production": {Fill: "#FEE2E2", Stroke: "#DC2626", Font: "#991B1B"},
			"staging":    {Fill: "#CFFAFE", Stroke: "#0891B2", Font: "#155E75"},
			"dev":        {Fill: "#E0F2FE", Stroke: "#0284C7", Font: "#075985"},
			"lab":        {Fill: "#DBEAFE", Stroke: "#2563EB", Font: "#1E40AF"},
			"server":     {Fill: "#F0F9FF", Stroke: "#38BDF8", Font: "#0369A1"},
			"provider":   {Fill: "#E0F2FE", Stroke: "#0EA5E9", Font: "#0C4A6E"},
			"unassigned": {Fill: "#F0F9FF", Stroke: "#7DD3FC", Font: "#0369A1"},
			"operator":   {Fill: "#C7D2FE", Stroke: "#4F46E5", Font: "#3730A3"},
		},
	},
}

// envAliases folds common environment spellings onto theme color keys.
var envAliases = map[string]string{
	"prod":        "production",
	"production":  "production",
	"live":        "production",
	"staging":     "staging",
	"stage":       "staging",
	"preprod":     "staging",
	"qa":          "staging",
	"dev":         "dev",
	"development": "dev",
	"test":        "dev",
	"lab":         "lab",
	"home":        "lab",
	"homelab":     "lab",
}

// ThemeNames returns all available theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns the named theme or the default.
func GetTheme(name string) *Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["default"]
}

// ColorForEnv returns the theme color for a server environment.
func (t *Theme) ColorForEnv(env string) ThemeColor {
	if key, ok := envAliases[strings.ToLower(env)]; ok {
		return t.Colors[key]
	}
	return t.Colors["server"]
}

// ColorForElement returns the theme color for a named element.
func (t *Theme) ColorForElement(name string) ThemeColor {
	if c, ok := t.Colors[name]; ok {
		return c
	}
	return ThemeColor{Fill: "#F9FAFB", Stroke: "#D1D5DB", Font: "#111827"}
}
