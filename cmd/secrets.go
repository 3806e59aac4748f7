package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/ui"
	"github.com/ThomasCrouzet/devops-inventory/internal/vault"
	"github.com/spf13/cobra"
)

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Read secrets from the admin vault",
	Long: `Read the admin secrets vault. With ADMIN_VAULT=enabled the age-encrypted
<ADMIN_ROOT>/vault.age is decrypted with the key in ~/.age/key.txt; otherwise
the plaintext <ADMIN_ROOT>/.env is read.

ADMIN_ROOT and ADMIN_VAULT come from the environment, devinv.yml (vault.root,
vault.mode) or ~/.admin/.env.`,
}

var secretsGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Print one secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vlt, err := openVault()
		if err != nil {
			return err
		}

		value, err := vlt.Get(args[0])
		if err != nil {
			if errors.Is(err, vault.ErrSecretNotFound) {
				fmt.Fprint(os.Stderr, ui.FormatError("Secret not found", args[0], "run 'devinv secrets list' to see available names"))
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var secretsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List secret names (values are never printed)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vlt, err := openVault()
		if err != nil {
			return err
		}

		names, err := vlt.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var secretsExecCmd = &cobra.Command{
	Use:   "exec -- COMMAND [ARGS...]",
	Short: "Run a command with every secret exported to its environment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vlt, err := openVault()
		if err != nil {
			return err
		}

		n, err := vlt.Export(os.Setenv)
		if err != nil {
			return err
		}
		logger.Debug("exported secrets", "count", n)

		path, err := findExecutable(args[0])
		if err != nil {
			return fmt.Errorf("%s not found in PATH: %w", args[0], err)
		}
		c := execCommand(path, args[1:]...)
		c.Stdin = os.Stdin
		c.Stdout = cmd.OutOrStdout()
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func init() {
	secretsCmd.AddCommand(secretsGetCmd, secretsListCmd, secretsExecCmd)
	rootCmd.AddCommand(secretsCmd)
}

func openVault() (*vault.Vault, error) {
	opts, err := vault.Resolve(vault.Options{
		Root:    cfg.Vault.Root,
		Mode:    cfg.Vault.Mode,
		KeyFile: cfg.Vault.KeyFile,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("vault resolved", "root", opts.Root, "mode", opts.Mode)
	return vault.New(opts, nil, logger), nil
}

// loadVaultInventory parses the inventory keys stored among the vault
// secrets. Keys outside the inventory namespaces are ignored.
func loadVaultInventory() (inventory.Result, error) {
	vlt, err := openVault()
	if err != nil {
		return inventory.Result{}, err
	}

	entries, err := vlt.Load()
	if err != nil {
		if errors.Is(err, vault.ErrKeyNotFound) {
			fmt.Fprint(os.Stderr, ui.FormatError("Vault key missing", err.Error(), "set vault.key_file or create ~/.age/key.txt"))
		}
		return inventory.Result{}, err
	}
	return inventory.FromEntries(entries), nil
}
