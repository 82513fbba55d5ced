package doctor

import "time"

// Options selects what the default check set inspects.
type Options struct {
	// Dir is the working directory for repository checks.
	Dir string

	// KeyDir is the key directory. Empty means ~/.ssh.
	KeyDir string

	// Comment is the identity comment used if --fix generates a key.
	Comment string

	// RemoteName is the remote alias to verify. Empty means origin.
	RemoteName string

	// Host is the provider endpoint; host checks are skipped when empty.
	Host string

	// KnownHostsPath overrides ~/.ssh/known_hosts.
	KnownHostsPath string

	// SSHConfigPath overrides ~/.ssh/config.
	SSHConfigPath string

	// Timeout bounds the reachability probe.
	Timeout time.Duration

	// Offline skips checks that open network connections.
	Offline bool
}

// DefaultChecks assembles the standard diagnostic set.
func DefaultChecks(opts Options) []Check {
	checks := []Check{
		&KeyCheck{Dir: opts.KeyDir, Comment: opts.Comment},
		&KeyPermissionsCheck{Dir: opts.KeyDir},
		&KeyParseCheck{Dir: opts.KeyDir},
		&RepositoryCheck{Dir: opts.Dir},
		&RemoteCheck{Dir: opts.Dir, RemoteName: opts.RemoteName, Host: opts.Host},
	}

	if opts.Host != "" {
		checks = append(checks, &KnownHostsCheck{
			Host:       opts.Host,
			Path:       opts.KnownHostsPath,
			ConfigPath: opts.SSHConfigPath,
		})
		if !opts.Offline {
			checks = append(checks, &ReachabilityCheck{
				Host:       opts.Host,
				ConfigPath: opts.SSHConfigPath,
				Timeout:    opts.Timeout,
			})
		}
	}

	return checks
}
