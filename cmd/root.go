package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/ThomasCrouzet/devops-inventory/internal/config"
	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/ThomasCrouzet/devops-inventory/internal/ui"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	v      = viper.New()
	cfg    = config.Defaults()
	logger = log.New(os.Stderr)
)

var rootCmd = &cobra.Command{
	Use:   "devinv",
	Short: "Inspect and maintain Agent DevOps server inventories",
	Long: `devinv reads the namespaced KEY=VALUE inventory shared by DevOps agents
(AGENT_DEVOPS_*, PROVIDER_<NAME>_*, SERVER_<ID>_*), validates it, queries
servers and writes it back in canonical form.

It can also import hosts from Ansible, Proxmox and Tailscale, draw the inventory as a
D2 diagram and read secrets from the admin vault.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: devinv.yml)")
	flags.StringSliceP("file", "f", []string{config.DefaultInventory}, "inventory file(s); later files override earlier ones")
	flags.Bool("strict", false, "drop inventory lines whose key is not a valid identifier")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&logFormat, "log-format", "", "log format: text, json, logfmt")

	_ = v.BindPFlag("inventory", flags.Lookup("file"))
	_ = v.BindPFlag("strict", flags.Lookup("strict"))
}

func initConfig(cmd *cobra.Command, args []string) error {
	config.Setup(v, cfgFile)
	if err := config.Read(v); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to read config", err.Error(), "check devinv.yml syntax"))
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Invalid config", err.Error(), "run 'devinv init' to create a config file"))
		return err
	}
	cfg = loaded

	if verbose {
		cfg.Log.Level = "debug"
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	logger = newLogger(cfg.Log)
	logger.Debug("config loaded", "file", v.ConfigFileUsed(), "inventory", cfg.Inventory)
	return nil
}

func newLogger(lc config.LogConfig) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{Prefix: "devinv"})

	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		level = log.InfoLevel
	}
	l.SetLevel(level)

	switch lc.Format {
	case "json":
		l.SetFormatter(log.JSONFormatter)
	case "logfmt":
		l.SetFormatter(log.LogfmtFormatter)
	default:
		l.SetFormatter(log.TextFormatter)
	}
	return l
}

// loadInventory reads and merges the configured inventory files.
func loadInventory() (inventory.Result, error) {
	return loadInventoryFrom(cfg.Inventory)
}

func loadInventoryFrom(paths []string) (inventory.Result, error) {
	sources, err := readSources(paths)
	if err != nil {
		return inventory.Result{}, err
	}

	if cfg.Strict {
		return inventory.MergeStrict(sources...), nil
	}
	return inventory.Merge(sources...), nil
}

func readSources(paths []string) ([]inventory.Source, error) {
	sources := make([]inventory.Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprint(os.Stderr, ui.FormatError("Inventory not found", path, "run 'devinv init' or pass -f <file>"))
			}
			return nil, fmt.Errorf("reading inventory %s: %w", path, err)
		}
		logger.Debug("read inventory", "path", path, "bytes", len(data))
		sources = append(sources, inventory.Source{Name: path, Text: string(data)})
	}
	return sources, nil
}

// primaryInventory is the file commands write back to.
func primaryInventory() string {
	if len(cfg.Inventory) == 0 {
		return config.DefaultInventory
	}
	return cfg.Inventory[len(cfg.Inventory)-1]
}
