// Package sshprobe dials a host's SSH authentication port and captures the
// text the host sends back. It never requests repository data; the only
// traffic is the handshake plus one short-lived session used to read the
// host's greeting.
package sshprobe

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// DefaultTimeout bounds the whole probe: TCP connect, handshake, and
// greeting read.
const DefaultTimeout = 10 * time.Second

// Options controls how the probe dials.
type Options struct {
	// User is the SSH login name. Hosting providers use "git".
	User string

	// IdentityFile is the private key to present. Tried before any agent
	// keys so the probe verifies this credential, not whichever key the
	// agent happens to offer first.
	IdentityFile string

	// Passphrase decrypts IdentityFile when set.
	Passphrase []byte

	// KnownHostsPath overrides ~/.ssh/known_hosts.
	KnownHostsPath string

	// ConfigPath overrides ~/.ssh/config for alias resolution.
	ConfigPath string

	// Timeout bounds the whole probe. Defaults to DefaultTimeout.
	Timeout time.Duration

	// InsecureSkipHostKey disables host key verification. Test use only.
	InsecureSkipHostKey bool

	// DisableAgent skips SSH agent keys.
	DisableAgent bool
}

// Client wraps an established SSH connection plus the text collected so far.
type Client struct {
	*ssh.Client
	Address string
	Banner  string
}

// HostKeyUnknownError is returned when the host's key is not present in
// known_hosts. The caller must obtain an explicit trust decision; nothing in
// this package ever auto-trusts.
type HostKeyUnknownError struct {
	Hostname   string
	Key        ssh.PublicKey
	KnownHosts string
}

func (e *HostKeyUnknownError) Error() string {
	return fmt.Sprintf("host key for %s is not in %s", e.Hostname, e.KnownHosts)
}

// Suggestion returns the one-time trust step.
func (e *HostKeyUnknownError) Suggestion() string {
	host := stripPort(e.Hostname)
	return fmt.Sprintf(
		"The host's identity can't be verified yet.\n"+
			"  Fingerprint: %s\n\n"+
			"  Review it, then trust the host explicitly:\n"+
			"    gitup trust %s",
		ssh.FingerprintSHA256(e.Key), host)
}

// HostKeyMismatchError is returned when known_hosts has a different key for
// the host than the one the server presented.
type HostKeyMismatchError struct {
	Hostname     string
	ReceivedType string
	KnownHosts   string
	Want         []knownhosts.KnownKey
}

func (e *HostKeyMismatchError) Error() string {
	return fmt.Sprintf("host key mismatch for %s: server sent %s key", e.Hostname, e.ReceivedType)
}

// Suggestion returns actionable steps to fix the host key mismatch.
func (e *HostKeyMismatchError) Suggestion() string {
	host := stripPort(e.Hostname)

	var wantTypes []string
	for _, k := range e.Want {
		wantTypes = append(wantTypes, k.Key.Type())
	}
	wantStr := "unknown"
	if len(wantTypes) > 0 {
		wantStr = strings.Join(wantTypes, ", ")
	}

	return fmt.Sprintf(
		"The server's host key doesn't match what's in known_hosts.\n"+
			"  Known types: %s\n"+
			"  Server sent: %s\n\n"+
			"  If the host legitimately changed keys, remove the old entry:\n"+
			"    ssh-keygen -R %s\n"+
			"  then run: gitup trust %s",
		wantStr, e.ReceivedType, host, host)
}

// EncryptedKeyError is returned when the identity file needs a passphrase
// that wasn't supplied.
type EncryptedKeyError struct {
	Path string
}

func (e *EncryptedKeyError) Error() string {
	return fmt.Sprintf("SSH key at %s is encrypted (passphrase protected)", e.Path)
}

// Dial connects to host's SSH port and performs the handshake. The host can
// be a hostname, hostname:port, or an alias from ~/.ssh/config. Any banner
// the server sends before authentication is captured on the returned client.
func Dial(host string, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.User == "" {
		opts.User = "git"
	}

	hostname, port := resolveHost(host, opts.ConfigPath)
	address := net.JoinHostPort(hostname, port)

	client := &Client{Address: address}

	config, err := buildClientConfig(host, client, opts)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialTimeout("tcp", address, opts.Timeout)
	if err != nil {
		return nil, err
	}

	// One deadline covers the handshake and the greeting read; the
	// connection lives only for the duration of a single probe.
	deadline := time.Now().Add(opts.Timeout)
	_ = conn.SetDeadline(deadline)

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()
		return nil, err
	}

	client.Client = ssh.NewClient(sshConn, chans, reqs)
	return client, nil
}

// Greeting opens a session and returns everything the server prints. Hosts
// like GitHub refuse the session command but write an identity confirmation
// to stderr first; a non-zero exit is therefore not an error here.
func (c *Client) Greeting() (string, error) {
	session, err := c.NewSession()
	if err != nil {
		return c.Banner, err
	}
	defer session.Close()

	var out bytes.Buffer
	session.Stdout = &out
	session.Stderr = &out

	if err := session.Run(""); err != nil {
		var exitErr *ssh.ExitError
		var missingErr *ssh.ExitMissingError
		if !stderrors.As(err, &exitErr) && !stderrors.As(err, &missingErr) {
			return c.Banner + out.String(), err
		}
	}

	return c.Banner + out.String(), nil
}

// Close closes the SSH connection.
func (c *Client) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// FetchHostKey connects just far enough to learn the host's public key. The
// connection is never authenticated; the caller decides whether to trust the
// returned key.
func FetchHostKey(host string, opts Options) (ssh.PublicKey, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.User == "" {
		opts.User = "git"
	}

	hostname, port := resolveHost(host, opts.ConfigPath)
	address := net.JoinHostPort(hostname, port)

	var captured ssh.PublicKey
	config := &ssh.ClientConfig{
		User: opts.User,
		HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			captured = key
			return nil
		},
		Timeout: opts.Timeout,
	}

	conn, err := ssh.Dial("tcp", address, config)
	if err != nil {
		// With no auth methods the handshake always fails after the host
		// key exchange; the key is what we came for.
		if captured != nil {
			return captured, nil
		}
		return nil, err
	}
	conn.Close()
	return captured, nil
}

// Resolve maps host through ssh_config the same way Dial does and returns
// the host:port address that would be dialed.
func Resolve(host, configPath string) string {
	hostname, port := resolveHost(host, configPath)
	return net.JoinHostPort(hostname, port)
}

// resolveHost maps an alias through ssh_config and strips an explicit port.
func resolveHost(host, configPath string) (hostname, port string) {
	hostname = host
	port = "22"

	if idx := strings.LastIndex(host, ":"); idx != -1 {
		candidate := host[idx+1:]
		if candidate != "" && strings.Trim(candidate, "0123456789") == "" {
			port = candidate
			hostname = host[:idx]
		}
	}

	if configPath == "" {
		configPath = filepath.Join(homeDir(), ".ssh", "config")
	}

	f, err := os.Open(configPath)
	if err != nil {
		return hostname, port
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return hostname, port
	}

	// Both lookups key on the alias; HostName must not shadow the Port block.
	alias := hostname
	if resolved, _ := cfg.Get(alias, "HostName"); resolved != "" {
		hostname = resolved
	}
	if resolved, _ := cfg.Get(alias, "Port"); resolved != "" && port == "22" {
		port = resolved
	}

	return hostname, port
}

// buildClientConfig assembles auth methods and the host key callback.
func buildClientConfig(host string, client *Client, opts Options) (*ssh.ClientConfig, error) {
	var authMethods []ssh.AuthMethod

	if opts.IdentityFile != "" {
		auth, err := keyFileAuth(opts.IdentityFile, opts.Passphrase)
		if err != nil {
			return nil, err
		}
		authMethods = append(authMethods, auth)
	}

	if !opts.DisableAgent {
		if agentAuth := sshAgentAuth(); agentAuth != nil {
			authMethods = append(authMethods, agentAuth)
		}
	}

	if len(authMethods) == 0 {
		return nil, fmt.Errorf("no SSH auth methods available for %s", host)
	}

	var hostKeyCallback ssh.HostKeyCallback
	if opts.InsecureSkipHostKey {
		hostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // explicit test-only opt-in
	} else {
		path := opts.KnownHostsPath
		if path == "" {
			path = filepath.Join(homeDir(), ".ssh", "known_hosts")
		}
		var err error
		hostKeyCallback, err = hostKeyVerifier(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load known_hosts: %w", err)
		}
	}

	return &ssh.ClientConfig{
		User:            opts.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		BannerCallback: func(message string) error {
			client.Banner += message
			return nil
		},
		Timeout: opts.Timeout,
	}, nil
}

// hostKeyVerifier wraps the knownhosts callback so unknown and mismatched
// keys come back as distinct typed errors.
func hostKeyVerifier(knownHostsPath string) (ssh.HostKeyCallback, error) {
	// Create the file if missing so a fresh machine verifies instead of
	// erroring out of the callback constructor.
	if _, err := os.Stat(knownHostsPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(knownHostsPath), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create .ssh directory: %w", err)
		}
		if err := os.WriteFile(knownHostsPath, []byte{}, 0o600); err != nil {
			return nil, fmt.Errorf("failed to create known_hosts: %w", err)
		}
	}

	callback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, err
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := callback(hostname, remote, key)
		if err == nil {
			return nil
		}

		var keyErr *knownhosts.KeyError
		if stderrors.As(err, &keyErr) {
			if len(keyErr.Want) == 0 {
				return &HostKeyUnknownError{
					Hostname:   hostname,
					Key:        key,
					KnownHosts: knownHostsPath,
				}
			}
			return &HostKeyMismatchError{
				Hostname:     hostname,
				ReceivedType: key.Type(),
				KnownHosts:   knownHostsPath,
				Want:         keyErr.Want,
			}
		}
		return err
	}, nil
}

// keyFileAuth loads a private key file as an auth method.
func keyFileAuth(keyPath string, passphrase []byte) (ssh.AuthMethod, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, err
	}

	var signer ssh.Signer
	if len(passphrase) > 0 {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(key, passphrase)
	} else {
		signer, err = ssh.ParsePrivateKey(key)
	}
	if err != nil {
		var passErr *ssh.PassphraseMissingError
		if stderrors.As(err, &passErr) {
			return nil, &EncryptedKeyError{Path: keyPath}
		}
		return nil, err
	}

	return ssh.PublicKeys(signer), nil
}

// sshAgentAuth returns an auth method using the SSH agent if available.
// Returns nil if there is no agent or it has no keys loaded.
func sshAgentAuth() ssh.AuthMethod {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil
	}

	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil
	}

	agentClient := agent.NewClient(conn)
	signers, err := agentClient.Signers()
	if err != nil || len(signers) == 0 {
		conn.Close()
		return nil
	}

	return ssh.PublicKeysCallback(agentClient.Signers)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
