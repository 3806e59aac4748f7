package cmd

import (
	"errors"
	"testing"

	"github.com/ThomasCrouzet/devops-inventory/internal/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSHArgs(t *testing.T) {
	t.Setenv("HOME", "/home/ops")
	port := 2222
	tests := []struct {
		name     string
		server   inventory.Server
		remote   []string
		expected []string
	}{
		{
			name:     "host only",
			server:   inventory.Server{ID: "A", Host: "10.0.0.5"},
			expected: []string{"ssh", "10.0.0.5"},
		},
		{
			name:     "full",
			server:   inventory.Server{ID: "A", Host: "10.0.0.5", User: "ubuntu", Port: &port, SSHKeyPath: "~/.ssh/id_ed25519", ConnectVia: "ssh"},
			expected: []string{"ssh", "-p", "2222", "-i", "/home/ops/.ssh/id_ed25519", "ubuntu@10.0.0.5"},
		},
		{
			name:     "remote command",
			server:   inventory.Server{ID: "A", Host: "10.0.0.5", SSHKeyPath: "/keys/a"},
			remote:   []string{"uptime"},
			expected: []string{"ssh", "-i", "/keys/a", "10.0.0.5", "uptime"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sshArgs(&tt.server, tt.remote)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSSHArgsErrors(t *testing.T) {
	_, err := sshArgs(&inventory.Server{ID: "NAS", Host: "10.0.0.2", ConnectVia: inventory.ConnectViaLocal}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errLocalServer))

	_, err = sshArgs(&inventory.Server{ID: "WEB01"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no HOST")
}

func TestShellJoin(t *testing.T) {
	assert.Equal(t, "ssh -p 22 ubuntu@10.0.0.5", shellJoin([]string{"ssh", "-p", "22", "ubuntu@10.0.0.5"}))
	assert.Equal(t, `ssh host 'ls -la' 'it'\''s'`, shellJoin([]string{"ssh", "host", "ls -la", "it's"}))
	assert.Equal(t, "ssh ''", shellJoin([]string{"ssh", ""}))
}

func TestSSHCommandPrints(t *testing.T) {
	out, err := runRoot(t, "ssh", "web01", "-f", "../testdata/inventory/sample.env")
	require.NoError(t, err)
	assert.Contains(t, out, "-p 22 -i ")
	assert.Contains(t, out, "/.ssh/oci_ed25519 ubuntu@203.0.113.10")
}

func TestSSHLowercaseID(t *testing.T) {
	path := writeInventoryFile(t, t.TempDir(), "inv.env",
		"SERVER_web1_CONNECT_VIA=ssh\nSERVER_web1_HOST=10.0.0.5\nSERVER_web1_USER=ops\n")

	out, err := runRoot(t, "ssh", "-f", path, "web1")
	require.NoError(t, err)
	assert.Equal(t, "ssh ops@10.0.0.5\n", out)
}
