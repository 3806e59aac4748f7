package cmd

import (
	"fmt"
	"os"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/ui"
	"github.com/spf13/cobra"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Rewrite the inventory in canonical form",
	Long: `Print the inventory in canonical form: metadata, providers and servers in
their own banner sections, known fields in a fixed order and extension fields
sorted after them. Comments and malformed lines are not preserved.

With several -f files the merged result is printed. --write replaces the last
file given.`,
	Args: cobra.NoArgs,
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write the result back to the inventory file")
}

func runFmt(cmd *cobra.Command, args []string) error {
	res, err := loadInventory()
	if err != nil {
		return err
	}

	for _, f := range res.Findings {
		logger.Warn(f.Message, "scope", f.Scope, "id", f.ID)
	}

	if !fmtWrite {
		return inventory.Write(cmd.OutOrStdout(), res.Inventory)
	}
	return writeInventory(primaryInventory(), res.Inventory)
}

func writeInventory(path string, inv *inventory.Inventory) error {
	if err := os.WriteFile(path, []byte(inventory.Serialize(inv)), 0600); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to write inventory", err.Error(), ""))
		return err
	}
	ui.Success(fmt.Sprintf("Wrote %s (%d providers, %d servers)", path, len(inv.Providers), len(inv.Servers)))
	return nil
}
