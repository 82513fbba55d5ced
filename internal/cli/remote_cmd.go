package cli

import (
	"fmt"

	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/BhargavaRam10/gitup/internal/logger"
	"github.com/BhargavaRam10/gitup/internal/remote"
	"github.com/BhargavaRam10/gitup/internal/ui"
)

// remoteSetCommand rewrites the configured remote to the canonical URL for
// the binding.
func remoteSetCommand(flags *CommonFlags) error {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	binding := bindingFromConfig(cfg)
	if binding.RemoteName == "" {
		binding.RemoteName = remote.DefaultRemoteName
	}

	if err := remote.SetRemote(dirFlag, binding, logger.NewEnvLogger("remote")); err != nil {
		return err
	}

	fmt.Printf("%s Remote %q -> %s\n", ui.SymbolSuccess, binding.RemoteName, binding.URL())
	return nil
}

// remoteShowCommand prints the current URL of the configured remote.
func remoteShowCommand(flags *CommonFlags) error {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	name := cfg.Remote
	if name == "" {
		name = remote.DefaultRemoteName
	}

	url, err := remote.CurrentURL(dirFlag, name)
	if err != nil {
		return err
	}
	if url == "" {
		return errors.New(errors.ErrRemote,
			fmt.Sprintf("Remote %q has no URL", name),
			"Bind it with: gitup remote set")
	}

	fmt.Printf("%s = %s\n", name, url)
	return nil
}
