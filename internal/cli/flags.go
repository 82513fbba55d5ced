package cli

import (
	"fmt"
	"time"

	"github.com/BhargavaRam10/gitup/internal/config"
	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/BhargavaRam10/gitup/internal/remote"
	"github.com/spf13/cobra"
)

// CommonFlags holds the flags shared by setup, check, and remote set.
// Anything left empty falls back to the loaded config.
type CommonFlags struct {
	Email     string
	Host      string
	Owner     string
	Repo      string
	Remote    string
	Transport string
	Account   string
	KeyDir    string
	Algorithm string
	Timeout   string
}

// AddBindingFlags registers the remote-binding flags on a command.
func AddBindingFlags(cmd *cobra.Command, flags *CommonFlags) {
	cmd.Flags().StringVar(&flags.Email, "email", "", "identity comment for generated keys")
	cmd.Flags().StringVar(&flags.Host, "host", "", "provider SSH endpoint (e.g., github.com)")
	cmd.Flags().StringVar(&flags.Owner, "owner", "", "owner of the hosted repository")
	cmd.Flags().StringVar(&flags.Repo, "repo", "", "name of the hosted repository")
	cmd.Flags().StringVar(&flags.Remote, "remote", "", "remote alias to rewrite (default: origin)")
	cmd.Flags().StringVar(&flags.Transport, "transport", "", "remote transport: ssh or https-token")
	cmd.Flags().StringVar(&flags.Account, "account", "", "provider account the probe should expect")
}

// AddKeyFlags registers the key-provisioning flags on a command.
func AddKeyFlags(cmd *cobra.Command, flags *CommonFlags) {
	cmd.Flags().StringVar(&flags.KeyDir, "key-dir", "", "key directory (default: ~/.ssh)")
	cmd.Flags().StringVar(&flags.Algorithm, "algorithm", "", "key algorithm: ed25519 or rsa")
}

// AddTimeoutFlag registers --timeout on a command.
func AddTimeoutFlag(cmd *cobra.Command, flags *CommonFlags) {
	cmd.Flags().StringVar(&flags.Timeout, "timeout", "", "probe timeout (e.g., 5s, 2m)")
}

// ParseProbeTimeout parses a probe timeout string into a duration.
// Returns zero duration if the flag is empty.
func ParseProbeTimeout(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid timeout", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	return duration, nil
}

// resolveConfig loads the effective config and overlays any flags the
// operator set. Flags always win over file values.
func resolveConfig(flags *CommonFlags) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}

	if flags.Email != "" {
		cfg.Email = flags.Email
	}
	if flags.Host != "" {
		cfg.Host = flags.Host
	}
	if flags.Owner != "" {
		cfg.Owner = flags.Owner
	}
	if flags.Repo != "" {
		cfg.Repo = flags.Repo
	}
	if flags.Remote != "" {
		cfg.Remote = flags.Remote
	}
	if flags.Transport != "" {
		cfg.Transport = flags.Transport
	}
	if flags.Account != "" {
		cfg.Account = flags.Account
	}
	if flags.KeyDir != "" {
		cfg.Key.Dir = flags.KeyDir
	}
	if flags.Algorithm != "" {
		cfg.Key.Algorithm = flags.Algorithm
	}
	if flags.Timeout != "" {
		timeout, err := ParseProbeTimeout(flags.Timeout)
		if err != nil {
			return nil, err
		}
		cfg.ProbeTimeout = timeout
	}

	return cfg, cfg.Validate()
}

// bindingFromConfig builds the remote binding described by the config.
func bindingFromConfig(cfg *config.Config) remote.Binding {
	return remote.Binding{
		RemoteName: cfg.Remote,
		Host:       cfg.Host,
		OwnerSlug:  cfg.Owner,
		RepoSlug:   cfg.Repo,
		Transport:  remote.Transport(cfg.Transport),
	}
}
