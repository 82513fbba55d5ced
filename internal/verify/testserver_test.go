package verify

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/BhargavaRam10/gitup/internal/keys"
)

// testServer is an in-process SSH endpoint that mimics a hosting provider's
// authentication port: it accepts one key, refuses everything else, and
// answers any session with a fixed greeting and exit status 1, the way
// GitHub answers `ssh -T git@github.com`.
type testServer struct {
	Addr     string
	HostKey  ssh.PublicKey
	listener net.Listener
}

// startTestServer runs a provider double that greets authenticated clients
// with greeting. Only authorizedKey may authenticate.
func startTestServer(t *testing.T, authorizedKey ssh.PublicKey, greeting string) *testServer {
	t.Helper()

	hostSigner := testSigner(t)

	config := &ssh.ServerConfig{
		PublicKeyCallback: func(conn ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if authorizedKey != nil && bytes.Equal(key.Marshal(), authorizedKey.Marshal()) {
				return nil, nil
			}
			return nil, fmt.Errorf("unknown public key for %q", conn.User())
		},
	}
	config.AddHostKey(hostSigner)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &testServer{
		Addr:     listener.Addr().String(),
		HostKey:  hostSigner.PublicKey(),
		listener: listener,
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go srv.handle(conn, config, greeting)
		}
	}()

	return srv
}

func (s *testServer) handle(conn net.Conn, config *ssh.ServerConfig, greeting string) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		return
	}
	defer sshConn.Close()
	go ssh.DiscardRequests(reqs)

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			newChannel.Reject(ssh.UnknownChannelType, "unsupported")
			continue
		}
		channel, requests, err := newChannel.Accept()
		if err != nil {
			continue
		}

		go func() {
			defer channel.Close()
			for req := range requests {
				switch req.Type {
				case "exec", "shell":
					req.Reply(true, nil)
					fmt.Fprint(channel.Stderr(), greeting)
					channel.SendRequest("exit-status", false,
						ssh.Marshal(struct{ Status uint32 }{1}))
					return
				default:
					req.Reply(false, nil)
				}
			}
		}()
	}
}

// testSigner generates a throwaway ed25519 signer.
func testSigner(t *testing.T) ssh.Signer {
	t.Helper()
	pair, err := keys.Generate(keys.Options{Dir: t.TempDir(), Comment: "host@test"})
	require.NoError(t, err)

	data, err := os.ReadFile(pair.PrivatePath)
	require.NoError(t, err)
	signer, err := ssh.ParsePrivateKey(data)
	require.NoError(t, err)
	return signer
}
