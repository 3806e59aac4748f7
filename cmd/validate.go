package cmd

import (
	"fmt"
	"os"

	"github.com/ThomasCrouzet/devops-inventory/internal/export"
	"github.com/ThomasCrouzet/devops-inventory/internal/importer"
	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/ui"
	"github.com/spf13/cobra"
)

var (
	validateFromVault bool
	validateOutput    string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the inventory and importer configuration",
	Long: `Check that every provider declares a TYPE, that every server declares
PROVIDER, KIND, NAME and CONNECT_VIA, that ports are numbers in range and that
servers reference declared providers.

Configured import sources are checked too: files exist and binaries are
available.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateFromVault, "from-vault", false, "validate the inventory stored in the secrets vault")
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "", "output format: text, json, yaml, toml")
}

func runValidate(cmd *cobra.Command, args []string) error {
	var res inventory.Result
	var err error
	source := fmt.Sprint(cfg.Inventory)

	if validateFromVault {
		res, err = loadVaultInventory()
		source = "vault"
	} else {
		res, err = loadInventory()
	}
	if err != nil {
		return err
	}

	format := outputFormat(validateOutput)
	if format != "text" {
		if err := export.Findings(cmd.OutOrStdout(), res.Findings, format); err != nil {
			return err
		}
		if !res.OK() {
			return fmt.Errorf("%d validation errors", len(res.Findings))
		}
		return nil
	}

	fmt.Println(ui.Bold("Validating " + source + "..."))

	inv := res.Inventory
	if res.OK() {
		ui.ValidationOK("inventory", fmt.Sprintf("%d providers, %d servers", len(inv.Providers), len(inv.Servers)))
	} else {
		ui.PrintFindings(os.Stdout, res.Findings)
	}

	passed, failed := validateImporters()
	if res.OK() {
		passed++
	}
	failed += len(res.Findings)

	fmt.Println()
	if failed == 0 {
		ui.Success(fmt.Sprintf("%d checks passed, 0 errors", passed))
		return nil
	}

	fmt.Printf("%d checks passed, %d errors\n", passed, failed)
	return fmt.Errorf("%d validation errors", failed)
}

// validateImporters checks the configuration of every enabled importer.
func validateImporters() (passed, failed int) {
	sources := cfg.RawImporters

	for _, imp := range importer.All() {
		meta := imp.Metadata()

		if !imp.Enabled(sources) {
			continue
		}

		section, _ := sources[meta.ConfigKey].(map[string]any)
		if err := imp.Configure(section); err != nil {
			ui.ValidationErr(meta.DisplayName, err.Error(), "")
			failed++
			continue
		}

		errs := imp.Validate()
		if len(errs) == 0 {
			ui.ValidationOK(meta.DisplayName, "configuration valid")
			passed++
			continue
		}
		for _, ve := range errs {
			ui.ValidationErr(ve.Field, ve.Message, ve.Suggestion)
			failed++
		}
	}
	return passed, failed
}

// outputFormat resolves a command's -o flag against the configured default.
func outputFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Output
}
