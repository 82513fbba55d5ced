package cli

import (
	"fmt"

	"github.com/BhargavaRam10/gitup/internal/config"
	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/BhargavaRam10/gitup/internal/keys"
	"github.com/BhargavaRam10/gitup/internal/logger"
	"github.com/BhargavaRam10/gitup/internal/ui"
)

// keyGenerateCommand ensures a key pair exists, generating one when the key
// directory has none. An existing pair is reported, never replaced.
func keyGenerateCommand(flags *CommonFlags, withPassphrase bool) error {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

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
		fmt.Printf("%s Generated new %s key pair\n", ui.SymbolSuccess, pair.Algorithm)
	} else {
		fmt.Printf("%s Using existing %s key pair\n", ui.SymbolSuccess, pair.Algorithm)
	}

	return printKeyDetails(pair, cfg)
}

// keyShowCommand prints the existing key pair, or fails if none exists.
func keyShowCommand(flags *CommonFlags) error {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	dir := cfg.Key.Dir
	if dir == "" {
		dir = keys.DefaultDir()
	}

	pair := keys.Find(dir)
	if pair == nil {
		return keyMissingError(dir)
	}

	return printKeyDetails(pair, cfg)
}

// keyMissingError is the shared "no key pair yet" failure.
func keyMissingError(dir string) error {
	return errors.New(errors.ErrKey,
		fmt.Sprintf("No key pair in %s", dir),
		"Generate one with: gitup key generate")
}

func printKeyDetails(pair *keys.KeyPair, cfg *config.Config) error {
	pub, err := pair.PublicKey()
	if err != nil {
		return err
	}
	fingerprint, err := pair.Fingerprint()
	if err != nil {
		return err
	}

	fmt.Printf("\n  Private key: %s\n", pair.PrivatePath)
	fmt.Printf("  Fingerprint: %s\n", fingerprint)
	if pair.HasPassphrase {
		fmt.Println("  Passphrase:  yes")
	}
	fmt.Printf("\nPublic key (register this with your provider%s):\n\n", providerHint(cfg))
	fmt.Printf("  %s\n", pub)
	return nil
}

func providerHint(cfg *config.Config) string {
	if cfg != nil && cfg.Host != "" {
		return " at " + cfg.Host
	}
	return ""
}
