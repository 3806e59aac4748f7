package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/config"
	"github.com/ThomasCrouzet/devops-inventory/internal/render"
	"github.com/ThomasCrouzet/devops-inventory/internal/ui"
	"github.com/spf13/cobra"
)

var (
	outputFile   string
	detailLevel  string
	direction    string
	autoRender   bool
	renderFormat string
	themeName    string
)

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Generate a D2 diagram of the inventory",
	Long: `Draw providers as containers holding their servers, colored by ENV.
Servers with no provider or an undeclared one are grouped as Unassigned.

The output is a .d2 file that can be rendered with: d2 inventory.d2 inventory.svg`,
	Aliases: []string{"generate"},
	Args:    cobra.NoArgs,
	RunE:    runDiagram,
}

func init() {
	rootCmd.AddCommand(diagramCmd)

	diagramCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output D2 file path")
	diagramCmd.Flags().StringVar(&detailLevel, "detail", "", "detail level: minimal, standard, detailed")
	diagramCmd.Flags().StringVar(&direction, "direction", "", "layout direction: right, down, left, up")
	diagramCmd.Flags().BoolVar(&autoRender, "render", false, "auto-render to SVG/PNG after generating D2 (requires d2)")
	diagramCmd.Flags().StringVar(&renderFormat, "format", "", "output format for --render: svg, png (default: svg)")
	diagramCmd.Flags().StringVar(&themeName, "theme", "", "color theme: "+strings.Join(render.ThemeNames(), ", "))
}

func runDiagram(cmd *cobra.Command, args []string) error {
	res, err := loadInventory()
	if err != nil {
		return err
	}

	dc := cfg.Diagram
	applyDiagramFlags(&dc)
	withFlags := *cfg
	withFlags.Diagram = dc
	if err := config.Validate(&withFlags); err != nil {
		return err
	}

	if !res.OK() {
		ui.Warn(fmt.Sprintf("inventory has %d findings; run 'devinv validate' for details", len(res.Findings)))
	}

	d2Content := render.RenderD2(res.Inventory, &dc)

	if err := os.WriteFile(dc.Output, []byte(d2Content), 0644); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to write output", err.Error(), ""))
		return err
	}

	inv := res.Inventory
	ui.Success(fmt.Sprintf("Generated %s (%d providers, %d servers)", dc.Output, len(inv.Providers), len(inv.Servers)))

	if dc.AutoRender {
		if err := autoRenderD2(dc.Output, dc.Format); err != nil {
			fmt.Fprint(os.Stderr, ui.FormatError("Auto-render failed", err.Error(), "install d2: https://d2lang.com/tour/install"))
		}
	}

	return nil
}

func applyDiagramFlags(dc *config.DiagramConfig) {
	if outputFile != "" {
		dc.Output = outputFile
	}
	if detailLevel != "" {
		dc.DetailLevel = detailLevel
	}
	if direction != "" {
		dc.Direction = direction
	}
	if autoRender {
		dc.AutoRender = true
	}
	if renderFormat != "" {
		dc.Format = renderFormat
	}
	if themeName != "" {
		dc.Theme = themeName
	}
}

// renderTarget swaps the .d2 extension of d2File for format.
func renderTarget(d2File, format string) string {
	return strings.TrimSuffix(d2File, ".d2") + "." + format
}

func autoRenderD2(d2File, format string) error {
	if format == "" {
		format = "svg"
	}

	d2Path, err := findExecutable("d2")
	if err != nil {
		return fmt.Errorf("d2 not found in PATH: install it from https://d2lang.com/tour/install")
	}

	outFile := renderTarget(d2File, format)

	c := execCommand(d2Path, d2File, outFile)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	logger.Debug("rendering diagram", "d2", d2Path, "out", outFile)
	if err := c.Run(); err != nil {
		return fmt.Errorf("d2 render failed: %w", err)
	}

	ui.Success(fmt.Sprintf("Rendered %s", outFile))
	return nil
}
