package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/importer"
	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/ui"
	"github.com/spf13/cobra"
)

var (
	importSource         string
	importProvider       string
	importOverwrite      bool
	importWrite          bool
	importIncludeOffline bool
)

var importCmd = &cobra.Command{
	Use:   "import [IMPORTER]",
	Short: "Import servers from Ansible, Proxmox or Tailscale into the inventory",
	Long: `Read servers from an external source and merge them into the inventory.
Fields the inventory already sets are kept unless --overwrite is given.

Without an argument every importer enabled under import.sources in devinv.yml
runs. With one (` + strings.Join(importer.Names(), ", ") + `) only that importer runs,
configured from devinv.yml and the flags.

The result is printed; --write saves it to the inventory file.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: importer.Names(),
	RunE:      runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	f := importCmd.Flags()
	f.StringVar(&importSource, "source", "", "source: Ansible hosts.yml, tailscale status JSON or Proxmox API URL")
	f.StringVar(&importProvider, "provider", "", "PROVIDER assigned to imported servers")
	f.BoolVar(&importOverwrite, "overwrite", false, "replace fields the inventory already sets")
	f.BoolVarP(&importWrite, "write", "w", false, "write the result back to the inventory file")
	f.BoolVar(&importIncludeOffline, "include-offline", false, "tailscale: include offline machines")
}

func runImport(cmd *cobra.Command, args []string) error {
	inv, err := loadInventoryOrEmpty()
	if err != nil {
		return err
	}

	opts := importer.Options{
		Overwrite: importOverwrite || cfg.Import.Overwrite,
		Logger:    logger,
	}

	fmt.Fprintln(os.Stderr, ui.Bold("Importing servers..."))

	var results []importer.Result
	if len(args) == 0 {
		results, err = importer.Run(cmd.Context(), inv, cfg.RawImporters, opts)
	} else {
		var res importer.Result
		res, err = runSingleImporter(cmd, inv, args[0], opts)
		results = append(results, res)
	}

	for _, r := range results {
		switch {
		case r.Skipped:
			ui.ImporterSkipped(r.Name)
		case r.Err != nil:
			var verr importer.ValidationError
			hint := ""
			if errors.As(r.Err, &verr) {
				hint = verr.Suggestion
			}
			fmt.Fprint(os.Stderr, ui.FormatError(r.Name+" failed", r.Err.Error(), hint))
		default:
			ui.ImporterDone(r.Name, r.Detail)
		}
	}
	if err != nil {
		return err
	}

	if importWrite {
		return writeInventory(primaryInventory(), inv)
	}
	return inventory.Write(cmd.OutOrStdout(), inv)
}

func runSingleImporter(cmd *cobra.Command, inv *inventory.Inventory, name string, opts importer.Options) (importer.Result, error) {
	imp, ok := importer.Lookup(name)
	if !ok {
		return importer.Result{Name: name}, fmt.Errorf("unknown importer %q (want one of %s)", name, strings.Join(importer.Names(), ", "))
	}

	section := make(map[string]any)
	if configured, ok := cfg.RawImporters[imp.Metadata().ConfigKey].(map[string]any); ok {
		maps.Copy(section, configured)
	}
	applyImportFlags(name, section)

	return importer.RunOne(cmd.Context(), inv, imp, section, opts)
}

// applyImportFlags overlays command flags on an importer config section.
func applyImportFlags(name string, section map[string]any) {
	if importSource != "" {
		switch name {
		case "ansible":
			section["inventory"] = importSource
		case "tailscale":
			section["json_file"] = importSource
		case "proxmox":
			section["api_url"] = importSource
		}
	}
	if importProvider != "" {
		section["provider"] = strings.ToUpper(importProvider)
	}
	if importIncludeOffline {
		section["include_offline"] = true
	}
}

// loadInventoryOrEmpty is loadInventory, but inventory files that do not
// exist yet are skipped so the first import can create them. Files that do
// exist are always merged, since --write replaces the last one.
func loadInventoryOrEmpty() (*inventory.Inventory, error) {
	var existing []string
	for _, path := range cfg.Inventory {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			existing = append(existing, path)
		case errors.Is(err, fs.ErrNotExist):
			logger.Info("inventory does not exist yet, skipping", "path", path)
		default:
			return nil, err
		}
	}
	if len(existing) == 0 {
		return inventory.New(), nil
	}

	res, err := loadInventoryFrom(existing)
	if err != nil {
		return nil, err
	}
	return res.Inventory, nil
}
