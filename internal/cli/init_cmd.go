package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BhargavaRam10/gitup/internal/config"
	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/BhargavaRam10/gitup/internal/ui"
	"github.com/charmbracelet/huh"
)

// initCommand writes a .gitup.yaml in the current directory, prompting for
// the binding when the terminal allows it.
func initCommand(flags *CommonFlags, force bool) error {
	path := config.ConfigFileName
	if dirFlag != "" && dirFlag != "." {
		path = filepath.Join(dirFlag, config.ConfigFileName)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			path+" already exists",
			"Use --force to overwrite it")
	}

	cfg := config.DefaultConfig()
	cfg.Email = flags.Email
	cfg.Host = flags.Host
	cfg.Owner = flags.Owner
	cfg.Repo = flags.Repo
	if flags.Remote != "" {
		cfg.Remote = flags.Remote
	}
	if flags.Transport != "" {
		cfg.Transport = flags.Transport
	}
	cfg.Account = flags.Account
	if flags.Algorithm != "" {
		cfg.Key.Algorithm = flags.Algorithm
	}
	cfg.Key.Dir = flags.KeyDir

	if interactive() {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Description("Identity comment for generated keys").
					Value(&cfg.Email),
				huh.NewInput().
					Title("Host").
					Description("Provider SSH endpoint, e.g. github.com").
					Value(&cfg.Host),
				huh.NewInput().
					Title("Owner").
					Description("Account or organization owning the repository").
					Value(&cfg.Owner),
				huh.NewInput().
					Title("Repository").
					Value(&cfg.Repo),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input", "")
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Write(path); err != nil {
		return err
	}

	fmt.Printf("%s Wrote %s\n", ui.SymbolSuccess, path)
	fmt.Println("Next: gitup setup")
	return nil
}
