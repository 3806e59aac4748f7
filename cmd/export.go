package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the inventory as JSON, YAML, TOML or env text",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", export.FormatJSON, "format: "+strings.Join(export.Formats, ", "))
	exportCmd.Flags().StringVarP(&exportOut, "out", "O", "", "write to a file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	if !slices.Contains(export.Formats, exportFormat) {
		return fmt.Errorf("unsupported format %q (want one of %s)", exportFormat, strings.Join(export.Formats, ", "))
	}

	res, err := loadInventory()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}

	logger.Debug("exporting inventory", "format", exportFormat, "servers", len(res.Inventory.Servers))
	return export.Inventory(w, res.Inventory, exportFormat)
}
