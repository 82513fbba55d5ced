package sshprobe

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestResolve_NoConfig(t *testing.T) {
	assert.Equal(t, "github.example:22", Resolve("github.example", "/nonexistent/ssh_config"))
	assert.Equal(t, "github.example:2222", Resolve("github.example:2222", "/nonexistent/ssh_config"))
}

func TestResolve_Alias(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config")
	content := `Host gh
    HostName github.example
    Port 2222
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	assert.Equal(t, "github.example:2222", Resolve("gh", configPath))
	// Unknown aliases pass through untouched
	assert.Equal(t, "other.example:22", Resolve("other.example", configPath))
}

func TestResolve_PortKeyedOnAlias(t *testing.T) {
	// The resolved HostName matches its own Host block with a different
	// port; the alias's Port must still win.
	configPath := filepath.Join(t.TempDir(), "config")
	content := `Host gh
    HostName github.example
    Port 2222

Host github.example
    Port 9999
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	assert.Equal(t, "github.example:2222", Resolve("gh", configPath))
}

func TestResolve_ExplicitPortWinsOverConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config")
	content := `Host gh
    HostName github.example
    Port 2222
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	assert.Equal(t, "github.example:9022", Resolve("gh:9022", configPath))
}

func TestStripPort(t *testing.T) {
	assert.Equal(t, "github.example", stripPort("github.example:22"))
	assert.Equal(t, "github.example", stripPort("github.example"))
}

func TestDial_ConnectionRefused(t *testing.T) {
	_, err := Dial("127.0.0.1:1", Options{
		Timeout:             500 * time.Millisecond,
		InsecureSkipHostKey: true,
		DisableAgent:        true,
		ConfigPath:          "/nonexistent/ssh_config",
	})
	require.Error(t, err)
}

func TestKeyFileAuth_MissingFile(t *testing.T) {
	_, err := keyFileAuth(filepath.Join(t.TempDir(), "id_ed25519"), nil)
	require.Error(t, err)
}

func TestHostKeyErrors_Suggestions(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	key, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)

	unknown := &HostKeyUnknownError{Hostname: "github.example:22", Key: key, KnownHosts: "/tmp/kh"}
	assert.Contains(t, unknown.Suggestion(), "gitup trust github.example")
	assert.Contains(t, unknown.Suggestion(), ssh.FingerprintSHA256(key))

	mismatch := &HostKeyMismatchError{Hostname: "github.example:22", ReceivedType: "ssh-ed25519"}
	assert.Contains(t, mismatch.Error(), "github.example")
	assert.Contains(t, mismatch.Suggestion(), "ssh-keygen -R github.example")

	encrypted := &EncryptedKeyError{Path: "/home/dev/.ssh/id_ed25519"}
	assert.Contains(t, encrypted.Error(), "passphrase")
}
