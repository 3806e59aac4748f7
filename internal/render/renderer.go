package render

import (
	"github.com/ThomasCrouzet/devops-inventory/internal/config"
	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
)

// Renderer defines the interface for diagram generators.
type Renderer interface {
	Render(inv *inventory.Inventory, cfg *config.DiagramConfig) string
}

// RenderD2 generates a D2 diagram from an inventory.
func RenderD2(inv *inventory.Inventory, cfg *config.DiagramConfig) string {
	r := &D2Renderer{
		DetailLevel: cfg.DetailLevel,
	}
	return r.Render(inv, cfg)
}
