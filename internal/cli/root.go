package cli

import (
	"fmt"
	"os"

	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/spf13/cobra"
)

// Global flags
var (
	configFlag         string
	dirFlag            string
	nonInteractiveFlag bool
)

// rootCmd is the base command for gitup.
var rootCmd = &cobra.Command{
	Use:   "gitup",
	Short: "Bootstrap git hosting credentials and verify connectivity",
	Long: `gitup takes a freshly cloned (or about to be pushed) repository from
"no credentials" to "verified working connection" against a git hosting
provider.

It ensures an SSH key pair exists locally, binds the repository's remote
to the right URL, and probes the provider to confirm the credential is
actually accepted - reporting exactly which account the provider saw.

Examples:
  gitup setup --email dev@example.com --owner Acme --repo widgets
  gitup check
  gitup trust github.com`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a mapped status code on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCodeForError(err))
	}
}

// exitCodeForError maps structured error codes to process exit codes so
// scripts can branch on the failure class.
func exitCodeForError(err error) int {
	switch {
	case errors.IsCode(err, errors.ErrKey):
		return ExitGenerationFailed
	case errors.IsCode(err, errors.ErrRemote):
		return ExitRepository
	case errors.IsCode(err, errors.ErrNetwork):
		return ExitNetworkError
	case errors.IsCode(err, errors.ErrAuth):
		return ExitRejected
	default:
		return ExitFailure
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default: nearest .gitup.yaml)")
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", ".", "repository directory")
	rootCmd.PersistentFlags().BoolVar(&nonInteractiveFlag, "non-interactive", false, "never prompt; fail instead of asking")
}
