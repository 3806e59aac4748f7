package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultInventory is the inventory file used when none is configured.
const DefaultInventory = ".agent-devops.env"

type Config struct {
	Inventory []string      `mapstructure:"inventory" validate:"min=1,dive,required"`
	Strict    bool          `mapstructure:"strict"`
	Output    string        `mapstructure:"output" validate:"oneof=text env json yaml toml"`
	Log       LogConfig     `mapstructure:"log"`
	Diagram   DiagramConfig `mapstructure:"diagram"`
	Vault     VaultConfig   `mapstructure:"vault"`
	Import    ImportConfig  `mapstructure:"import"`

	// RawImporters keeps the import.sources section untyped for the importer
	// registry.
	RawImporters map[string]any `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json logfmt"`
}

type DiagramConfig struct {
	Output      string `mapstructure:"output"`
	Direction   string `mapstructure:"direction" validate:"oneof=right down left up"`
	Theme       string `mapstructure:"theme" validate:"oneof=default dark monochrome ocean"`
	DetailLevel string `mapstructure:"detail_level" validate:"oneof=minimal standard detailed"`
	AutoRender  bool   `mapstructure:"auto_render"`
	Format      string `mapstructure:"format" validate:"oneof=svg png"`
}

type VaultConfig struct {
	Root    string `mapstructure:"root"`
	Mode    string `mapstructure:"mode" validate:"omitempty,oneof=enabled disabled"`
	KeyFile string `mapstructure:"key_file"`
}

type ImportConfig struct {
	Overwrite bool           `mapstructure:"overwrite"`
	Sources   map[string]any `mapstructure:"sources"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	cfg := &Config{
		Inventory: []string{DefaultInventory},
		Output:    "text",
	}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Diagram.Output = "inventory.d2"
	cfg.Diagram.Direction = "right"
	cfg.Diagram.Theme = "default"
	cfg.Diagram.DetailLevel = "standard"
	cfg.Diagram.Format = "svg"
	return cfg
}

// Setup points v at the config file and environment. An empty file means
// devinv.yml in the working directory or ~/.config/devinv.
func Setup(v *viper.Viper, file string) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("devinv")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/devinv")
	}

	v.SetEnvPrefix("DEVINV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"inventory", "strict", "output", "log.level", "log.format"} {
		_ = v.BindEnv(key)
	}

	// The admin tooling shares these variables with the shell wrappers.
	_ = v.BindEnv("vault.root", "DEVINV_VAULT_ROOT", "ADMIN_ROOT")
	_ = v.BindEnv("vault.mode", "DEVINV_VAULT_MODE", "ADMIN_VAULT")
}

// Read loads the config file if there is one.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// Load decodes v over the defaults and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Defaults()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.RawImporters = v.GetStringMap("import.sources")

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field values against their allowed sets.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %q (%s %s)", fe.Namespace(), fmt.Sprint(fe.Value()), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
