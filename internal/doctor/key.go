package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BhargavaRam10/gitup/internal/keys"
	"github.com/BhargavaRam10/gitup/internal/logger"
)

// KeyCheck verifies a usable SSH key pair exists in the key directory.
type KeyCheck struct {
	// Dir is the key directory. Empty means ~/.ssh.
	Dir string

	// Comment is the identity comment used if --fix generates a key.
	Comment string
}

func (c *KeyCheck) Name() string     { return "key_present" }
func (c *KeyCheck) Category() string { return "KEY" }

func (c *KeyCheck) Run() CheckResult {
	dir := c.Dir
	if dir == "" {
		dir = keys.DefaultDir()
	}

	pair := keys.Find(dir)
	if pair == nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("No SSH key pair in %s", dir),
			Suggestion: "Generate one with: gitup key generate",
			Fixable:    true,
		}
	}

	msg := fmt.Sprintf("Key pair found: %s (%s)", filepath.Base(pair.PrivatePath), pair.Algorithm)
	if pair.HasPassphrase {
		msg += ", passphrase protected"
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: msg,
	}
}

func (c *KeyCheck) Fix() error {
	dir := c.Dir
	if dir == "" {
		dir = keys.DefaultDir()
	}
	if keys.Find(dir) != nil {
		return nil
	}
	_, err := keys.Generate(keys.Options{
		Dir:       dir,
		Algorithm: keys.AlgorithmEd25519,
		Comment:   c.Comment,
		Logger:    logger.Nop(),
	})
	return err
}

// KeyPermissionsCheck verifies the key files carry the permissions SSH
// servers insist on (0600 private, 0644 public).
type KeyPermissionsCheck struct {
	Dir string
}

func (c *KeyPermissionsCheck) Name() string     { return "key_permissions" }
func (c *KeyPermissionsCheck) Category() string { return "KEY" }

func (c *KeyPermissionsCheck) Run() CheckResult {
	dir := c.Dir
	if dir == "" {
		dir = keys.DefaultDir()
	}

	pair := keys.Find(dir)
	if pair == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "No key pair to inspect",
		}
	}

	info, err := os.Stat(pair.PrivatePath)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: fmt.Sprintf("Cannot stat %s", pair.PrivatePath),
		}
	}

	if perm := info.Mode().Perm(); perm != 0o600 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Private key is %04o, want 0600", perm),
			Suggestion: fmt.Sprintf("Fix: chmod 600 %s", pair.PrivatePath),
			Fixable:    true,
		}
	}

	if info, err := os.Stat(pair.PublicPath); err == nil {
		if perm := info.Mode().Perm(); perm&0o022 != 0 {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusWarn,
				Message:    fmt.Sprintf("Public key is %04o, want 0644", perm),
				Suggestion: fmt.Sprintf("Fix: chmod 644 %s", pair.PublicPath),
				Fixable:    true,
			}
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Key permissions look correct",
	}
}

func (c *KeyPermissionsCheck) Fix() error {
	dir := c.Dir
	if dir == "" {
		dir = keys.DefaultDir()
	}
	pair := keys.Find(dir)
	if pair == nil {
		return nil
	}
	if err := os.Chmod(pair.PrivatePath, 0o600); err != nil {
		return err
	}
	return os.Chmod(pair.PublicPath, 0o644)
}

// KeyParseCheck verifies the public half parses as OpenSSH key material.
type KeyParseCheck struct {
	Dir string
}

func (c *KeyParseCheck) Name() string     { return "key_parses" }
func (c *KeyParseCheck) Category() string { return "KEY" }

func (c *KeyParseCheck) Run() CheckResult {
	dir := c.Dir
	if dir == "" {
		dir = keys.DefaultDir()
	}

	pair := keys.Find(dir)
	if pair == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "No key pair to inspect",
		}
	}

	fingerprint, err := pair.Fingerprint()
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Public key does not parse: %v", err),
			Suggestion: "Regenerate with: gitup key generate (after moving the broken pair aside)",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Public key parses (%s)", fingerprint),
	}
}

func (c *KeyParseCheck) Fix() error { return nil }
