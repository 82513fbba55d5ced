package doctor

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/BhargavaRam10/gitup/pkg/sshprobe"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// DefaultReachTimeout bounds the doctor's TCP reachability probe.
const DefaultReachTimeout = 5 * time.Second

// KnownHostsCheck verifies known_hosts carries an entry for the host, so a
// later probe will not stop at an unknown host key.
type KnownHostsCheck struct {
	Host string

	// Path overrides ~/.ssh/known_hosts.
	Path string

	// ConfigPath overrides ~/.ssh/config for alias resolution.
	ConfigPath string
}

func (c *KnownHostsCheck) Name() string     { return "known_hosts" }
func (c *KnownHostsCheck) Category() string { return "HOST" }

func (c *KnownHostsCheck) Run() CheckResult {
	path := c.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusFail,
				Message: "Cannot determine home directory",
			}
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("No known_hosts at %s", path),
			Suggestion: fmt.Sprintf("Record the host key with: gitup trust %s", c.Host),
		}
	}

	// Entries are stored in knownhosts normalized form: bare hostname for
	// the default port, [host]:port otherwise.
	address := knownhosts.Normalize(sshprobe.Resolve(c.Host, c.ConfigPath))
	if knownHostsCovers(data, address) {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("known_hosts covers %s", address),
		}
	}

	return CheckResult{
		Name:       c.Name(),
		Status:     StatusFail,
		Message:    fmt.Sprintf("known_hosts has no entry for %s", address),
		Suggestion: fmt.Sprintf("Record the host key with: gitup trust %s", c.Host),
	}
}

func (c *KnownHostsCheck) Fix() error { return nil }

// knownHostsCovers reports whether any known_hosts entry names the
// normalized address.
func knownHostsCovers(data []byte, address string) bool {
	rest := data
	for len(rest) > 0 {
		_, hosts, _, _, next, err := ssh.ParseKnownHosts(rest)
		if err != nil {
			// io.EOF or a malformed line; either way stop scanning here.
			if len(next) == len(rest) {
				return false
			}
			rest = next
			continue
		}
		for _, h := range hosts {
			if h == address {
				return true
			}
		}
		rest = next
	}
	return false
}

// ReachabilityCheck opens a TCP connection to the host's SSH port.
type ReachabilityCheck struct {
	Host       string
	ConfigPath string
	Timeout    time.Duration
}

func (c *ReachabilityCheck) Name() string     { return "reachability" }
func (c *ReachabilityCheck) Category() string { return "HOST" }

func (c *ReachabilityCheck) Run() CheckResult {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultReachTimeout
	}

	address := sshprobe.Resolve(c.Host, c.ConfigPath)
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot reach %s: %v", address, err),
			Suggestion: "Check network connectivity and firewall rules",
		}
	}
	conn.Close() //nolint:errcheck // Best-effort close, error not actionable

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s is reachable", address),
	}
}

func (c *ReachabilityCheck) Fix() error { return nil }
