package cli

import (
	"os"
	"time"

	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	setupFlags          CommonFlags
	setupPassphraseFlag bool

	keyFlags          CommonFlags
	keyPassphraseFlag bool

	remoteFlags CommonFlags

	checkFlags        CommonFlags
	checkJSONFlag     bool
	checkWatchFlag    bool
	checkIntervalFlag string

	initFlags CommonFlags
	initForce bool

	doctorFlags   CommonFlags
	doctorFix     bool
	doctorJSON    bool
	doctorOffline bool
)

// setupCmd runs the whole bootstrap pipeline
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision a key, bind the remote, and verify connectivity",
	Long: `Run the full bootstrap pipeline against the configured provider.

Ensures an SSH key pair exists (generating one if needed), rewrites the
repository's remote to the canonical URL, then probes the provider and
reports which account accepted the credential.

Examples:
  gitup setup --email dev@example.com --owner Acme --repo widgets
  gitup setup --host gitlab.com --transport https-token
  gitup setup --non-interactive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setupCommand(&setupFlags, setupPassphraseFlag)
	},
}

// keyCmd groups key management subcommands
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the SSH key pair",
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Ensure an SSH key pair exists",
	Long: `Generate an SSH key pair if the key directory has none.

An existing pair is reported and left untouched; gitup never replaces
key material. The public half is printed for registration with the
provider.

Examples:
  gitup key generate --email dev@example.com
  gitup key generate --algorithm rsa --key-dir /tmp/keys
  gitup key generate --passphrase`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return keyGenerateCommand(&keyFlags, keyPassphraseFlag)
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the existing key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		return keyShowCommand(&keyFlags)
	},
}

// remoteCmd groups remote binding subcommands
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage the repository's remote binding",
}

var remoteSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Rewrite the remote to the canonical provider URL",
	Long: `Rewrite the configured remote's URL from the host, owner, and
repository identifiers. The previous URL is overwritten; applying the
same binding twice is a no-op.

Examples:
  gitup remote set --owner Acme --repo widgets
  gitup remote set --transport https-token
  gitup remote set --remote upstream`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return remoteSetCommand(&remoteFlags)
	},
}

var remoteShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the remote's current URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		return remoteShowCommand(&remoteFlags)
	},
}

// checkCmd probes the provider
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the provider and report the authenticated account",
	Long: `Open an authentication-only connection to the provider and classify
the response. Nothing is pushed or pulled; the probe only proves which
account, if any, the local credential maps to.

Exit codes:
  0  authenticated as the expected account
  2  authenticated, but as a different account
  3  host identity not verified (run: gitup trust <host>)
  4  credential rejected
  5  host unreachable

Examples:
  gitup check
  gitup check --json
  gitup check --watch --interval 30s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkWatchFlag {
			interval := 30 * time.Second
			if checkIntervalFlag != "" {
				parsed, err := time.ParseDuration(checkIntervalFlag)
				if err != nil {
					return errors.WrapWithCode(err, errors.ErrConfig,
						"Invalid interval: "+checkIntervalFlag,
						"Use a valid duration like 10s, 30s, or 1m")
				}
				if parsed < time.Second {
					return errors.New(errors.ErrConfig,
						"Interval too short",
						"Minimum interval is 1s to avoid hammering the provider")
				}
				interval = parsed
			}
			return watchCommand(&checkFlags, interval)
		}
		return checkCommand(&checkFlags, checkJSONFlag)
	},
}

// trustCmd records a host key after explicit review
var trustCmd = &cobra.Command{
	Use:   "trust <host>",
	Short: "Review and record a host's SSH key",
	Long: `Fetch the host's SSH key, display its fingerprint for review, and
append it to known_hosts once confirmed. gitup never trusts a host key
implicitly; this command is the only way it records one.

Examples:
  gitup trust github.com
  gitup trust git.internal.example:2222
  gitup trust github.com --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		host := ""
		if len(args) > 0 {
			host = args[0]
		}
		return trustCommand(host)
	},
}

// initCmd creates a .gitup.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .gitup.yaml configuration",
	Long: `Initialize a gitup configuration file in the repository.

Prompts for the provider binding when run interactively; flags
pre-populate or replace the prompts.

Examples:
  gitup init
  gitup init --email dev@example.com --owner Acme --repo widgets
  gitup init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(&initFlags, initForce)
	},
}

// doctorCmd diagnoses local setup problems
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose key, repository, and connectivity issues",
	Long: `Run diagnostic checks over the local setup.

Checks:
  - key pair presence, permissions, and validity
  - repository and remote configuration
  - known_hosts coverage for the provider
  - TCP reachability of the provider

Examples:
  gitup doctor
  gitup doctor --fix
  gitup doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(&doctorFlags, doctorFix, doctorJSON, doctorOffline)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for gitup.

Examples:
  # Bash
  gitup completion bash > /etc/bash_completion.d/gitup

  # Zsh
  gitup completion zsh > "${fpath[1]}/_gitup"

  # Fish
  gitup completion fish > ~/.config/fish/completions/gitup.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// setup command flags
	AddBindingFlags(setupCmd, &setupFlags)
	AddKeyFlags(setupCmd, &setupFlags)
	AddTimeoutFlag(setupCmd, &setupFlags)
	setupCmd.Flags().BoolVar(&setupPassphraseFlag, "passphrase", false, "protect a newly generated key with a passphrase")

	// key command flags
	AddBindingFlags(keyGenerateCmd, &keyFlags)
	AddKeyFlags(keyGenerateCmd, &keyFlags)
	keyGenerateCmd.Flags().BoolVar(&keyPassphraseFlag, "passphrase", false, "protect a newly generated key with a passphrase")
	AddKeyFlags(keyShowCmd, &keyFlags)
	keyCmd.AddCommand(keyGenerateCmd)
	keyCmd.AddCommand(keyShowCmd)

	// remote command flags
	AddBindingFlags(remoteSetCmd, &remoteFlags)
	remoteShowCmd.Flags().StringVar(&remoteFlags.Remote, "remote", "", "remote alias to inspect (default: origin)")
	remoteCmd.AddCommand(remoteSetCmd)
	remoteCmd.AddCommand(remoteShowCmd)

	// check command flags
	AddBindingFlags(checkCmd, &checkFlags)
	AddKeyFlags(checkCmd, &checkFlags)
	AddTimeoutFlag(checkCmd, &checkFlags)
	checkCmd.Flags().BoolVar(&checkJSONFlag, "json", false, "output in JSON format")
	checkCmd.Flags().BoolVar(&checkWatchFlag, "watch", false, "re-probe on an interval in an interactive view")
	checkCmd.Flags().StringVar(&checkIntervalFlag, "interval", "30s", "re-probe interval for --watch (e.g., 10s, 1m)")

	// trust command flags
	trustCmd.Flags().BoolVar(&trustYesFlag, "yes", false, "record the key without prompting")

	// init command flags
	AddBindingFlags(initCmd, &initFlags)
	AddKeyFlags(initCmd, &initFlags)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	// doctor command flags
	doctorCmd.Flags().StringVar(&doctorFlags.Host, "host", "", "provider SSH endpoint to check against")
	doctorCmd.Flags().StringVar(&doctorFlags.Remote, "remote", "", "remote alias to check")
	doctorCmd.Flags().StringVar(&doctorFlags.KeyDir, "key-dir", "", "key directory (default: ~/.ssh)")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorOffline, "offline", false, "skip checks that open network connections")

	// Register all commands
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(trustCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)
}
