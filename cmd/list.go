package cmd

import (
	"fmt"

	"github.com/ThomasCrouzet/devops-inventory/internal/export"
	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/ui"
	"github.com/spf13/cobra"
)

var (
	listCriteria inventory.Criteria
	listOutput   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List servers, optionally filtered",
	Long: `List the servers of the inventory in file order. Every filter that is set
must match: --env, --role, --provider and --status compare exactly, --tag
matches one element of TAGS.`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	f := listCmd.Flags()
	f.StringVar(&listCriteria.Env, "env", "", "only servers with this ENV")
	f.StringVar(&listCriteria.Role, "role", "", "only servers with this ROLE")
	f.StringVar(&listCriteria.Provider, "provider", "", "only servers of this PROVIDER")
	f.StringVar(&listCriteria.Status, "status", "", "only servers with this STATUS")
	f.StringVar(&listCriteria.Tag, "tag", "", "only servers carrying this tag")
	f.StringVarP(&listOutput, "output", "o", "", "output format: text, json, yaml, toml")
}

func runList(cmd *cobra.Command, args []string) error {
	res, err := loadInventory()
	if err != nil {
		return err
	}

	servers := inventory.FindServers(res.Inventory, listCriteria)
	logger.Debug("servers matched", "count", len(servers), "total", len(res.Inventory.Servers))

	format := outputFormat(listOutput)
	if format != "text" {
		return export.Servers(cmd.OutOrStdout(), servers, format)
	}

	if len(servers) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Hint("no servers match"))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.ServerTable(servers))
	return nil
}
