package cli

import (
	"fmt"
	"os"

	"github.com/BhargavaRam10/gitup/internal/keys"
	"github.com/BhargavaRam10/gitup/internal/logger"
	"github.com/BhargavaRam10/gitup/internal/remote"
	"github.com/BhargavaRam10/gitup/internal/ui"
	"github.com/BhargavaRam10/gitup/internal/verify"
)

// setupCommand runs the full pipeline: ensure a key pair, bind the remote,
// then probe the provider and report the verdict.
func setupCommand(flags *CommonFlags, withPassphrase bool) error {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	binding := bindingFromConfig(cfg)
	if err := binding.Validate(); err != nil {
		return err
	}

	fmt.Printf("Setting up %s/%s on %s\n\n", binding.OwnerSlug, binding.RepoSlug, binding.Host)

	// Step 1: key pair
	var passphrase []byte
	if withPassphrase {
		passphrase, err = promptPassphrase("Passphrase for new key", true)
		if err != nil {
			return err
		}
	}

	spinner := ui.NewSpinner("Ensuring key pair")
	spinner.Start()

	pair, generated, err := keys.EnsureKeyPair(keys.Options{
		Dir:        cfg.Key.Dir,
		Algorithm:  keys.Algorithm(cfg.Key.Algorithm),
		Comment:    cfg.Email,
		Passphrase: passphrase,
		Logger:     logger.NewEnvLogger("keys"),
	})
	if err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()

	if generated {
		pub, err := pair.PublicKey()
		if err != nil {
			return err
		}
		fmt.Printf("\n%s Generated a new %s key. Register the public half with %s:\n\n",
			ui.SymbolSuccess, pair.Algorithm, binding.Host)
		fmt.Printf("  %s\n\n", pub)

		registered, err := confirm(
			fmt.Sprintf("Is the key registered with %s?", binding.Host),
			"The probe will fail until the provider knows this key.",
			true)
		if err != nil {
			return err
		}
		if !registered {
			fmt.Println("Register the key, then run: gitup check")
			return nil
		}
	} else {
		fmt.Printf("%s Using existing %s key (%s)\n", ui.SymbolSuccess, pair.Algorithm, pair.PrivatePath)
	}

	// Step 2: remote binding
	spinner = ui.NewSpinner(fmt.Sprintf("Binding remote %q", remoteNameOf(binding)))
	spinner.Start()

	if err := remote.SetRemote(dirFlag, binding, logger.NewEnvLogger("remote")); err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()
	fmt.Printf("%s Remote %q -> %s\n\n", ui.SymbolSuccess, remoteNameOf(binding), binding.URL())

	// Step 3: connectivity probe
	result, err := probeOnce(cfg, true)
	if err != nil {
		return err
	}

	// An unknown host key is recoverable right here: record it and probe
	// again.
	if result.Outcome == verify.OutcomeHostKeyUnknown {
		trusted, err := offerTrust(cfg.Host)
		if err != nil {
			return err
		}
		if trusted {
			result, err = probeOnce(cfg, true)
			if err != nil {
				return err
			}
		}
	}

	fmt.Println()
	printResult(result, cfg.ExpectedIdentity())

	if result.Outcome != verify.OutcomeAuthenticatedAsExpected {
		os.Exit(exitCodeForOutcome(result.Outcome))
	}

	fmt.Printf("\n%s All set. Try: git push\n", ui.SymbolSuccess)
	return nil
}

func remoteNameOf(b remote.Binding) string {
	if b.RemoteName == "" {
		return remote.DefaultRemoteName
	}
	return b.RemoteName
}
