// Package trust implements the explicit one-time host key trust step. The
// probe never auto-trusts an unknown host; this package fetches the host's
// key so the operator can review its fingerprint and record the decision in
// known_hosts.
package trust

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/BhargavaRam10/gitup/pkg/sshprobe"
)

// Candidate is a host key awaiting a trust decision.
type Candidate struct {
	Host        string // host as given by the operator
	Address     string // resolved host:port
	Key         ssh.PublicKey
	Fingerprint string // SHA256 fingerprint for operator review
}

// Fetch connects to host just far enough to learn its key. Nothing is
// written anywhere; the caller decides what to do with the candidate.
func Fetch(host string, opts sshprobe.Options) (*Candidate, error) {
	key, err := sshprobe.FetchHostKey(host, opts)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrNetwork,
			fmt.Sprintf("Couldn't reach '%s' to fetch its host key", host),
			"Check your network connection and the host name")
	}
	return &Candidate{
		Host:        host,
		Address:     sshprobe.Resolve(host, opts.ConfigPath),
		Key:         key,
		Fingerprint: ssh.FingerprintSHA256(key),
	}, nil
}

// IsKnown reports whether known_hosts already carries this exact key for
// the candidate's address.
func (c *Candidate) IsKnown(knownHostsPath string) bool {
	data, err := os.ReadFile(knownHostsPath)
	if err != nil {
		return false
	}
	want := knownhosts.Line([]string{c.Address}, c.Key)
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}

// Record appends the candidate to known_hosts, creating the file with
// owner-only permissions if needed. Recording an already-known key is a
// no-op so repeated trust runs don't grow the file.
func (c *Candidate) Record(knownHostsPath string) error {
	if c.IsKnown(knownHostsPath) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(knownHostsPath), 0o700); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create .ssh directory",
			"Check permissions on your home directory")
	}

	f, err := os.OpenFile(knownHostsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to open %s", knownHostsPath),
			"Check file permissions")
	}
	defer f.Close()

	line := knownhosts.Line([]string{c.Address}, c.Key)
	if _, err := fmt.Fprintln(f, line); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write %s", knownHostsPath), "")
	}
	return nil
}
