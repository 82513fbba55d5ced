package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/BhargavaRam10/gitup/internal/config"
	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/BhargavaRam10/gitup/internal/keys"
	"github.com/BhargavaRam10/gitup/internal/logger"
	"github.com/BhargavaRam10/gitup/internal/remote"
	"github.com/BhargavaRam10/gitup/internal/ui"
	"github.com/BhargavaRam10/gitup/internal/verify"
)

// checkCommand probes the provider once and reports which account the
// credential maps to. A non-success outcome becomes a distinct exit code.
func checkCommand(flags *CommonFlags, jsonOut bool) error {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	result, err := probeOnce(cfg, !jsonOut)
	if err != nil {
		return err
	}

	if jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return errors.Wrap(err, "Failed to render result")
		}
		fmt.Println(string(data))
	} else {
		printResult(result, cfg.ExpectedIdentity())
	}

	if result.Outcome != verify.OutcomeAuthenticatedAsExpected {
		os.Exit(exitCodeForOutcome(result.Outcome))
	}
	return nil
}

// probeOnce runs a single connectivity probe using the effective config.
// The provisioned key is required: the probe verifies that credential, not
// whatever the agent holds.
func probeOnce(cfg *config.Config, showSpinner bool) (verify.Result, error) {
	binding := bindingFromConfig(cfg)
	if err := binding.Validate(); err != nil {
		return verify.Result{}, err
	}

	dir := cfg.Key.Dir
	if dir == "" {
		dir = keys.DefaultDir()
	}
	pair := keys.Find(dir)
	if pair == nil {
		return verify.Result{}, keyMissingError(dir)
	}

	var passphrase []byte
	if pair.HasPassphrase && interactive() {
		var err error
		passphrase, err = promptPassphrase("Passphrase for "+pair.PrivatePath, false)
		if err != nil {
			return verify.Result{}, err
		}
	}

	var spinner *ui.Spinner
	if showSpinner {
		spinner = ui.NewSpinner(fmt.Sprintf("Probing %s", binding.Host))
		spinner.Start()
	}

	result := verify.Probe(binding, cfg.ExpectedIdentity(), verify.Options{
		IdentityFile: pair.PrivatePath,
		Passphrase:   passphrase,
		Timeout:      cfg.ProbeTimeout,
		Logger:       logger.NewEnvLogger("verify"),
	})

	if spinner != nil {
		if result.Outcome == verify.OutcomeAuthenticatedAsExpected {
			spinner.Success()
		} else {
			spinner.Fail()
		}
	}

	return result, nil
}

// printResult renders a probe result for humans.
func printResult(result verify.Result, expected string) {
	switch result.Outcome {
	case verify.OutcomeAuthenticatedAsExpected:
		fmt.Printf("%s Authenticated as %s (%s)\n",
			ui.SymbolSuccess, result.ObservedIdentity, result.Latency.Round(time.Millisecond))
	case verify.OutcomeAuthenticatedAsOther:
		fmt.Printf("%s Authenticated, but as %q (expected %q)\n",
			ui.SymbolFail, result.ObservedIdentity, expected)
	case verify.OutcomeHostKeyUnknown:
		fmt.Printf("%s Host identity could not be verified\n", ui.SymbolFail)
	case verify.OutcomeRejected:
		fmt.Printf("%s Credential rejected by the host\n", ui.SymbolFail)
	case verify.OutcomeNetworkError:
		fmt.Printf("%s Could not reach the host\n", ui.SymbolFail)
	}

	if result.Suggestion != "" {
		fmt.Printf("  %s\n", result.Suggestion)
	}
}

// bindingForCheck is a convenience for the watch view.
func bindingForCheck(flags *CommonFlags) (*config.Config, remote.Binding, error) {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return nil, remote.Binding{}, err
	}
	binding := bindingFromConfig(cfg)
	return cfg, binding, binding.Validate()
}
