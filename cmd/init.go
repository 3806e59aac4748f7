package cmd

import (
	"fmt"
	"os"

	"github.com/ThomasCrouzet/devops-inventory/internal/ui"
	"github.com/ThomasCrouzet/devops-inventory/internal/wizard"
	"github.com/spf13/cobra"
)

var initWriteConfig bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an inventory interactively",
	Long: `Scan the working directory for an existing inventory, an Ansible
inventory and the tailscale and d2 binaries, then create a new inventory with
one provider and one server through an interactive wizard.

--config-file also writes a devinv.yml pointing at the new inventory with
the detected import sources.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initWriteConfig, "config-file", false, "also write devinv.yml")
}

func runInit(cmd *cobra.Command, args []string) error {
	inventoryPath := primaryInventory()

	fmt.Println(ui.Bold("Scanning environment..."))
	detection := wizard.Detect(nil)

	existing := detection.ExistingInventory
	if _, err := os.Stat(inventoryPath); err == nil {
		existing = inventoryPath
	}
	if existing != "" && !confirm(fmt.Sprintf("%s already exists.\nOverwrite %s? [y/N] ", existing, inventoryPath)) {
		fmt.Println("Aborted.")
		return nil
	}

	answers, err := wizard.Run(detection)
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	content, err := wizard.GenerateInventory(*answers)
	if err != nil {
		return fmt.Errorf("generating inventory: %w", err)
	}
	if err := os.WriteFile(inventoryPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing inventory: %w", err)
	}
	ui.Success(fmt.Sprintf("Created %s", inventoryPath))

	if initWriteConfig {
		configPath := "devinv.yml"
		if _, err := os.Stat(configPath); err == nil && !confirm(fmt.Sprintf("%s already exists.\nOverwrite? [y/N] ", configPath)) {
			fmt.Println("Kept existing config.")
		} else {
			yml, err := wizard.GenerateConfig(*answers, inventoryPath)
			if err != nil {
				return fmt.Errorf("generating config: %w", err)
			}
			if err := os.WriteFile(configPath, []byte(yml), 0600); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ui.Success(fmt.Sprintf("Created %s", configPath))
		}
	}

	fmt.Println()
	fmt.Printf("Next step: %s\n", ui.Bold("devinv validate"))
	if answers.EnableAnsible || answers.EnableTailscale {
		fmt.Printf("           %s\n", ui.Hint("then 'devinv import --write' to pull in the detected sources"))
	}

	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	var answer string
	_, _ = fmt.Scanln(&answer)
	return answer == "y" || answer == "Y"
}
