package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/BhargavaRam10/gitup/internal/trust"
	"github.com/BhargavaRam10/gitup/internal/ui"
	"github.com/BhargavaRam10/gitup/pkg/sshprobe"
)

// trustYesFlag skips the confirmation prompt.
var trustYesFlag bool

// trustCommand fetches the host's key, shows its fingerprint, and records
// it in known_hosts after an explicit confirmation. This is the only path
// in gitup that ever writes a host key.
func trustCommand(host string) error {
	_, err := runTrust(host)
	return err
}

// runTrust reports whether the host key ended up trusted: already present,
// or recorded now. Declining the confirmation is not an error, but it does
// not trust the key either.
func runTrust(host string) (bool, error) {
	if host == "" {
		cfg, err := resolveConfig(&CommonFlags{})
		if err != nil {
			return false, err
		}
		host = cfg.Host
	}
	if host == "" {
		return false, errors.New(errors.ErrConfig,
			"No host given",
			"Usage: gitup trust <host>")
	}

	knownHosts, err := defaultKnownHostsPath()
	if err != nil {
		return false, err
	}

	spinner := ui.NewSpinner(fmt.Sprintf("Fetching host key from %s", host))
	spinner.Start()

	candidate, err := trust.Fetch(host, sshprobe.Options{})
	if err != nil {
		spinner.Fail()
		return false, err
	}
	spinner.Success()

	if candidate.IsKnown(knownHosts) {
		fmt.Printf("%s %s is already trusted (%s)\n", ui.SymbolSuccess, candidate.Address, candidate.Fingerprint)
		return true, nil
	}

	fmt.Printf("\n  Host:        %s\n", candidate.Address)
	fmt.Printf("  Key type:    %s\n", candidate.Key.Type())
	fmt.Printf("  Fingerprint: %s\n\n", candidate.Fingerprint)
	fmt.Println("Compare this fingerprint against the provider's published host keys.")

	accepted := trustYesFlag
	if !accepted {
		accepted, err = confirm(
			fmt.Sprintf("Trust this key for %s?", candidate.Address),
			"It will be appended to "+knownHosts,
			false)
		if err != nil {
			return false, err
		}
	}
	if !accepted {
		fmt.Println("Not recorded.")
		return false, nil
	}

	if err := candidate.Record(knownHosts); err != nil {
		return false, err
	}

	fmt.Printf("%s Recorded %s in %s\n", ui.SymbolSuccess, candidate.Address, knownHosts)
	return true, nil
}

// offerTrust interactively runs the trust flow when a probe stops at an
// unknown host key. Returns true if the key was recorded.
func offerTrust(host string) (bool, error) {
	if !interactive() {
		return false, nil
	}

	wanted, err := confirm(
		fmt.Sprintf("The identity of %s is not yet trusted. Fetch and review its host key now?", host),
		"", true)
	if err != nil || !wanted {
		return false, err
	}

	return runTrust(host)
}

func defaultKnownHostsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "Cannot determine home directory")
	}
	return filepath.Join(home, ".ssh", "known_hosts"), nil
}
