package cli

import (
	"fmt"
	"os"

	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// interactive reports whether prompting is allowed: stdin must be a
// terminal and --non-interactive must not be set.
func interactive() bool {
	return !nonInteractiveFlag && term.IsTerminal(int(os.Stdin.Fd()))
}

// confirm asks a yes/no question. In non-interactive mode it returns the
// fallback without asking.
func confirm(title, description string, fallback bool) (bool, error) {
	if !interactive() {
		return fallback, nil
	}

	answer := fallback
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&answer),
		),
	)
	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input", "")
	}
	return answer, nil
}

// promptPassphrase reads a passphrase from the terminal without echo. When
// confirmEntry is set the passphrase is read twice and must match.
func promptPassphrase(label string, confirmEntry bool) ([]byte, error) {
	if !interactive() {
		return nil, errors.New(errors.ErrConfig,
			"Cannot prompt for a passphrase in non-interactive mode",
			"Drop --non-interactive, or use an unencrypted key")
	}

	fmt.Printf("%s: ", label)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read passphrase")
	}

	if confirmEntry {
		fmt.Print("Confirm passphrase: ")
		again, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return nil, errors.Wrap(err, "Failed to read passphrase")
		}
		if string(pass) != string(again) {
			return nil, errors.New(errors.ErrConfig,
				"Passphrases do not match", "")
		}
	}

	return pass, nil
}
