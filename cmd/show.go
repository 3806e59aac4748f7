package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ThomasCrouzet/devops-inventory/internal/export"
	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/ui"
	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one server and its provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "", "output format: text, json, yaml, toml")
}

func runShow(cmd *cobra.Command, args []string) error {
	res, err := loadInventory()
	if err != nil {
		return err
	}

	s, ok := inventory.LookupServer(res.Inventory, args[0])
	if !ok {
		return fmt.Errorf("server %s not found", args[0])
	}

	format := outputFormat(showOutput)
	if format != "text" {
		return export.Servers(cmd.OutOrStdout(), []*inventory.Server{s}, format)
	}

	fmt.Fprint(cmd.OutOrStdout(), describeServer(res.Inventory, s))
	return nil
}

// describeServer renders a server as aligned "field: value" lines.
func describeServer(inv *inventory.Inventory, s *inventory.Server) string {
	var b strings.Builder
	fmt.Fprintln(&b, ui.Bold(s.DisplayName())+" "+ui.Hint("("+s.ID+")"))

	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  %-13s %s\n", label, value)
		}
	}

	provider := s.Provider
	if p, ok := inv.Providers[s.Provider]; ok {
		provider = fmt.Sprintf("%s (%s)", p.DisplayName(), p.Type)
	}
	row("provider", provider)
	row("kind", s.Kind)
	row("connect via", s.ConnectVia)
	row("host", s.Host)
	if s.Port != nil {
		row("port", strconv.Itoa(*s.Port))
	}
	row("user", s.User)
	row("ssh key", s.SSHKeyPath)
	row("env", s.Env)
	row("os", s.OS)
	row("role", s.Role)
	row("status", s.Status)
	row("tags", strings.Join(s.Tags, ", "))
	row("notes", s.Notes)

	extras := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	for _, k := range extras {
		row(strings.ToLower(k), s.Extra[k])
	}
	return b.String()
}
