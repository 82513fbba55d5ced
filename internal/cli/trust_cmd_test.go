package cli

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

func TestTrustCommand_NoHost(t *testing.T) {
	t.Chdir(t.TempDir())
	configFlag = ""

	err := trustCommand("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gitup trust <host>")
}

func TestDefaultKnownHostsPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := defaultKnownHostsPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ssh", "known_hosts"), path)
}

func TestOfferTrust_NonInteractive(t *testing.T) {
	nonInteractiveFlag = true
	defer func() { nonInteractiveFlag = false }()

	trusted, err := offerTrust("github.example")
	require.NoError(t, err)
	assert.False(t, trusted, "non-interactive runs never record host keys")
}

// startHostKeyEndpoint serves an SSH handshake far enough for a client to
// learn the host key. No authentication ever succeeds.
func startHostKeyEndpoint(t *testing.T) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)

	config := &ssh.ServerConfig{
		PublicKeyCallback: func(conn ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			return nil, fmt.Errorf("unknown public key for %q", conn.User())
		},
	}
	config.AddHostKey(signer)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				// All auth fails, but the host key has been sent by then.
				ssh.NewServerConn(c, config)
			}(conn)
		}
	}()

	return listener.Addr().String()
}

func TestRunTrust_RecordsAndReportsTrusted(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	nonInteractiveFlag = true
	trustYesFlag = true
	defer func() {
		nonInteractiveFlag = false
		trustYesFlag = false
	}()

	addr := startHostKeyEndpoint(t)

	trusted, err := runTrust(addr)
	require.NoError(t, err)
	assert.True(t, trusted)

	data, err := os.ReadFile(filepath.Join(home, ".ssh", "known_hosts"))
	require.NoError(t, err)
	assert.Contains(t, string(data), knownhosts.Normalize(addr))

	// Second run short-circuits on the recorded entry and still reports
	// the host as trusted.
	trusted, err = runTrust(addr)
	require.NoError(t, err)
	assert.True(t, trusted)
}

func TestRunTrust_DeclinedIsNotTrusted(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	nonInteractiveFlag = true
	defer func() { nonInteractiveFlag = false }()

	addr := startHostKeyEndpoint(t)

	// The confirmation falls back to "no" when there is no terminal, so
	// the key is reviewed but never written.
	trusted, err := runTrust(addr)
	require.NoError(t, err)
	assert.False(t, trusted)

	_, err = os.ReadFile(filepath.Join(home, ".ssh", "known_hosts"))
	assert.True(t, os.IsNotExist(err))
}
