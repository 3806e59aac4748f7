// Package vault reads the admin secrets store: an age-encrypted .env file,
// or a plaintext .env when encryption is disabled.
package vault

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ThomasCrouzet/devops-inventory/internal/envfile"
	"github.com/charmbracelet/log"
)

var (
	// ErrSecretNotFound is returned by Get for an unknown name.
	ErrSecretNotFound = errors.New("secret not found")
	// ErrKeyNotFound means the age identity file does not exist.
	ErrKeyNotFound = errors.New("age key not found")
	// ErrVaultNotFound means vault mode is on but the encrypted file is missing.
	ErrVaultNotFound = errors.New("vault not found")
)

const (
	ModeEnabled  = "enabled"
	ModeDisabled = "disabled"

	vaultFile     = "vault.age"
	plaintextFile = ".env"
)

// Options locate the vault. Empty fields are filled by Resolve.
type Options struct {
	Root    string // ADMIN_ROOT
	Mode    string // ADMIN_VAULT
	KeyFile string
	Home    string
}

// Resolve fills unset options from the satellite file ~/.admin/.env and
// then from defaults.
func Resolve(opts Options) (Options, error) {
	if opts.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return opts, fmt.Errorf("resolving home directory: %w", err)
		}
		opts.Home = home
	}

	if opts.Root == "" || opts.Mode == "" {
		satellite := filepath.Join(opts.Home, ".admin", ".env")
		if data, err := os.ReadFile(satellite); err == nil {
			entries := envfile.ParseStrict(string(data))
			if v, ok := entries.Get("ADMIN_ROOT"); ok && opts.Root == "" {
				opts.Root = v
			}
			if v, ok := entries.Get("ADMIN_VAULT"); ok && opts.Mode == "" {
				opts.Mode = v
			}
		}
	}

	if opts.Root == "" {
		opts.Root = filepath.Join(opts.Home, ".admin")
	}
	if opts.Mode == "" {
		opts.Mode = ModeDisabled
	}
	if opts.KeyFile == "" {
		opts.KeyFile = filepath.Join(opts.Home, ".age", "key.txt")
	}
	return opts, nil
}

// Enabled reports whether the encrypted vault should be used.
func (o Options) Enabled() bool {
	return o.Mode == ModeEnabled
}

// VaultPath is the encrypted vault location.
func (o Options) VaultPath() string {
	return filepath.Join(o.Root, vaultFile)
}

// PlaintextPath is the fallback .env location.
func (o Options) PlaintextPath() string {
	return filepath.Join(o.Root, plaintextFile)
}

// Vault loads secrets. Options must already be resolved.
type Vault struct {
	opts      Options
	decrypter Decrypter
	logger    *log.Logger
}

// New creates a Vault. A nil decrypter uses age; a nil logger discards.
func New(opts Options, decrypter Decrypter, logger *log.Logger) *Vault {
	if decrypter == nil {
		decrypter = AgeDecrypter{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Vault{opts: opts, decrypter: decrypter, logger: logger}
}

// Load returns every secret in file order. With the vault disabled and no
// plaintext file, the result is empty.
func (v *Vault) Load() (*envfile.Entries, error) {
	if v.opts.Enabled() {
		return v.loadEncrypted()
	}

	path := v.opts.PlaintextPath()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		v.logger.Debug("no plaintext secrets file", "path", path)
		return envfile.NewEntries(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	v.logger.Debug("loaded plaintext secrets", "path", path)
	return envfile.ParseStrict(string(data)), nil
}

func (v *Vault) loadEncrypted() (*envfile.Entries, error) {
	identity, err := os.ReadFile(v.opts.KeyFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s (generate one with: age-keygen -o %s)", ErrKeyNotFound, v.opts.KeyFile, v.opts.KeyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading age key: %w", err)
	}

	path := v.opts.VaultPath()
	ciphertext, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", ErrVaultNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading vault: %w", err)
	}

	v.logger.Debug("decrypting vault", "path", path)
	plaintext, err := v.decrypter.Decrypt(ciphertext, identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting %s: %w", path, err)
	}

	return envfile.ParseStrict(string(plaintext)), nil
}

// Get returns a single secret.
func (v *Vault) Get(name string) (string, error) {
	entries, err := v.Load()
	if err != nil {
		return "", err
	}
	value, ok := entries.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
	}
	return value, nil
}

// List returns the secret names, sorted.
func (v *Vault) List() ([]string, error) {
	entries, err := v.Load()
	if err != nil {
		return nil, err
	}
	names := entries.Keys()
	sort.Strings(names)
	return names, nil
}

// Export calls setenv for every secret and returns how many were set.
func (v *Vault) Export(setenv func(key, value string) error) (int, error) {
	entries, err := v.Load()
	if err != nil {
		return 0, err
	}
	for _, k := range entries.Keys() {
		value, _ := entries.Get(k)
		if err := setenv(k, value); err != nil {
			return 0, fmt.Errorf("exporting %s: %w", k, err)
		}
	}
	return entries.Len(), nil
}
