package vault

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"filippo.io/age/armor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secrets = "HCLOUD_TOKEN=abc123\n# comment\nbad-key=dropped\nOCI_PASS=\"p@ss word\"\n"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// plainDecrypter returns the ciphertext untouched.
type plainDecrypter struct{}

func (plainDecrypter) Decrypt(ciphertext, _ []byte) ([]byte, error) { return ciphertext, nil }

type failingDecrypter struct{}

func (failingDecrypter) Decrypt(_, _ []byte) ([]byte, error) { return nil, errors.New("bad key") }

func TestResolveDefaults(t *testing.T) {
	home := t.TempDir()

	opts, err := Resolve(Options{Home: home})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".admin"), opts.Root)
	assert.Equal(t, ModeDisabled, opts.Mode)
	assert.Equal(t, filepath.Join(home, ".age", "key.txt"), opts.KeyFile)
	assert.False(t, opts.Enabled())
}

func TestResolveSatellite(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".admin", ".env"), "ADMIN_ROOT=/srv/admin\nADMIN_VAULT=enabled\n")

	opts, err := Resolve(Options{Home: home})
	require.NoError(t, err)
	assert.Equal(t, "/srv/admin", opts.Root)
	assert.True(t, opts.Enabled())

	// Explicit values win over the satellite file.
	opts, err = Resolve(Options{Home: home, Root: "/opt/admin", Mode: ModeDisabled})
	require.NoError(t, err)
	assert.Equal(t, "/opt/admin", opts.Root)
	assert.False(t, opts.Enabled())
}

func TestPlaintextVault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".env"), secrets)

	v := New(Options{Root: root, Mode: ModeDisabled}, nil, nil)

	names, err := v.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"HCLOUD_TOKEN", "OCI_PASS"}, names)

	token, err := v.Get("HCLOUD_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	pass, err := v.Get("OCI_PASS")
	require.NoError(t, err)
	assert.Equal(t, "p@ss word", pass)

	_, err = v.Get("MISSING")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestPlaintextVaultMissingFile(t *testing.T) {
	v := New(Options{Root: t.TempDir(), Mode: ModeDisabled}, nil, nil)

	entries, err := v.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, entries.Len())
}

func TestEncryptedVaultErrors(t *testing.T) {
	root := t.TempDir()
	keyFile := filepath.Join(root, "key.txt")

	v := New(Options{Root: root, Mode: ModeEnabled, KeyFile: keyFile}, plainDecrypter{}, nil)
	_, err := v.Load()
	assert.ErrorIs(t, err, ErrKeyNotFound)

	writeFile(t, keyFile, "AGE-SECRET-KEY-1FAKE")
	_, err = v.Load()
	assert.ErrorIs(t, err, ErrVaultNotFound)

	writeFile(t, filepath.Join(root, "vault.age"), secrets)
	names, err := v.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"HCLOUD_TOKEN", "OCI_PASS"}, names)

	v = New(Options{Root: root, Mode: ModeEnabled, KeyFile: keyFile}, failingDecrypter{}, nil)
	_, err = v.Load()
	assert.ErrorContains(t, err, "bad key")
}

func TestAgeDecrypter(t *testing.T) {
	id, err := age.GenerateX25519Identity()
	require.NoError(t, err)

	encrypt := func(armored bool) []byte {
		var buf bytes.Buffer
		var out io.Writer = &buf
		var aw io.WriteCloser
		if armored {
			aw = armor.NewWriter(&buf)
			out = aw
		}
		w, err := age.Encrypt(out, id.Recipient())
		require.NoError(t, err)
		_, err = io.WriteString(w, secrets)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		if aw != nil {
			require.NoError(t, aw.Close())
		}
		return buf.Bytes()
	}

	identity := []byte("# created for tests\n" + id.String() + "\n")

	for _, armored := range []bool{false, true} {
		plaintext, err := AgeDecrypter{}.Decrypt(encrypt(armored), identity)
		require.NoError(t, err)
		assert.Equal(t, secrets, string(plaintext))
	}

	_, err = AgeDecrypter{}.Decrypt([]byte("not age"), identity)
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".env"), secrets)

	got := map[string]string{}
	n, err := New(Options{Root: root}, nil, nil).Export(func(k, v string) error {
		got[k] = v
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, map[string]string{"HCLOUD_TOKEN": "abc123", "OCI_PASS": "p@ss word"}, got)
}
