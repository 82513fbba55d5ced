// Package keys discovers and provisions the SSH key pair used to
// authenticate against the hosting provider.
package keys

import (
	"bytes"
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"encoding/pem"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/BhargavaRam10/gitup/internal/logger"
)

// Algorithm identifies a supported key algorithm.
type Algorithm string

const (
	AlgorithmEd25519 Algorithm = "ed25519"
	AlgorithmRSA     Algorithm = "rsa"
)

// rsaBits is the modulus size for generated RSA keys.
const rsaBits = 4096

// KeyPair describes an on-disk OpenSSH key pair.
type KeyPair struct {
	Algorithm       Algorithm
	PrivatePath     string
	PublicPath      string
	IdentityComment string
	HasPassphrase   bool
}

// Options controls key discovery and generation.
type Options struct {
	// Dir is the key directory. Defaults to ~/.ssh.
	Dir string

	// Algorithm is the algorithm used when a new pair must be generated.
	// Defaults to ed25519. Detection always checks ed25519 first, then rsa,
	// regardless of this value.
	Algorithm Algorithm

	// Comment is embedded into the public key file for operator
	// identification. Conventionally an email address.
	Comment string

	// Passphrase encrypts the private key when non-empty. Empty means
	// non-interactive, unencrypted generation.
	Passphrase []byte

	Logger logger.Logger
}

// DefaultDir returns the standard SSH key directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.Getenv("HOME"), ".ssh")
	}
	return filepath.Join(home, ".ssh")
}

// detectionOrder is the fixed priority for existing-key discovery.
var detectionOrder = []Algorithm{AlgorithmEd25519, AlgorithmRSA}

// privatePath returns the canonical private key path for an algorithm.
func privatePath(dir string, alg Algorithm) string {
	return filepath.Join(dir, "id_"+string(alg))
}

// EnsureKeyPair returns an existing key pair if one is found at a canonical
// path, or generates a new one. The returned bool reports whether a pair was
// generated. Detection is read-only: repeated calls with a pair already
// present touch nothing on disk and return an identical descriptor.
func EnsureKeyPair(opts Options) (*KeyPair, bool, error) {
	if opts.Dir == "" {
		opts.Dir = DefaultDir()
	}
	if opts.Algorithm == "" {
		opts.Algorithm = AlgorithmEd25519
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	if pair := Find(opts.Dir); pair != nil {
		opts.Logger.Debug("found existing %s key at %s", pair.Algorithm, pair.PrivatePath)
		return pair, false, nil
	}

	pair, err := Generate(opts)
	if err != nil {
		return nil, false, err
	}
	return pair, true, nil
}

// Find looks for an existing private key in fixed priority order (ed25519,
// then rsa) and returns its descriptor, or nil if none exists.
func Find(dir string) *KeyPair {
	for _, alg := range detectionOrder {
		path := privatePath(dir, alg)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return describe(path, alg)
	}
	return nil
}

// describe builds a KeyPair descriptor for an existing private key.
func describe(path string, alg Algorithm) *KeyPair {
	pair := &KeyPair{
		Algorithm:   alg,
		PrivatePath: path,
		PublicPath:  path + ".pub",
	}

	if data, err := os.ReadFile(path); err == nil {
		pair.HasPassphrase = isEncrypted(data)
	}

	if pub, err := os.ReadFile(pair.PublicPath); err == nil {
		// authorized_keys format: type base64 [comment]
		fields := strings.Fields(string(pub))
		if len(fields) >= 3 {
			pair.IdentityComment = strings.Join(fields[2:], " ")
		}
	}

	return pair
}

// Generate creates a new key pair at the canonical path for the requested
// algorithm. Both files appear together or not at all: the pair is written
// to temporary names and renamed into place, public half first, so the
// private key (the existence marker for detection) is never visible without
// its public half. An existing private key is never overwritten.
func Generate(opts Options) (*KeyPair, error) {
	if opts.Dir == "" {
		opts.Dir = DefaultDir()
	}
	if opts.Algorithm == "" {
		opts.Algorithm = AlgorithmEd25519
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	switch opts.Algorithm {
	case AlgorithmEd25519, AlgorithmRSA:
	default:
		return nil, errors.New(errors.ErrKey,
			fmt.Sprintf("Unsupported key algorithm: %s", opts.Algorithm),
			"Supported algorithms: ed25519 (recommended), rsa")
	}

	privPath := privatePath(opts.Dir, opts.Algorithm)
	if _, err := os.Stat(privPath); err == nil {
		return nil, errors.New(errors.ErrKey,
			fmt.Sprintf("Key already exists at %s", privPath),
			"Remove it first if you really want to regenerate, then re-run")
	}

	if err := os.MkdirAll(opts.Dir, 0o700); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrKey,
			fmt.Sprintf("Failed to create key directory: %s", opts.Dir),
			"Check permissions on the parent directory")
	}

	privBytes, pubBytes, err := marshalPair(opts)
	if err != nil {
		return nil, err
	}

	pubPath := privPath + ".pub"
	if err := writePair(privPath, privBytes, pubPath, pubBytes); err != nil {
		return nil, err
	}

	opts.Logger.Debug("generated %s key pair at %s", opts.Algorithm, privPath)

	return &KeyPair{
		Algorithm:       opts.Algorithm,
		PrivatePath:     privPath,
		PublicPath:      pubPath,
		IdentityComment: opts.Comment,
		HasPassphrase:   len(opts.Passphrase) > 0,
	}, nil
}

// marshalPair produces OpenSSH-encoded private and public key material.
func marshalPair(opts Options) (priv, pub []byte, err error) {
	var signer crypto.PrivateKey
	var sshPub ssh.PublicKey

	switch opts.Algorithm {
	case AlgorithmEd25519:
		_, key, genErr := ed25519.GenerateKey(rand.Reader)
		if genErr != nil {
			return nil, nil, errors.WrapWithCode(genErr, errors.ErrKey,
				"Failed to generate ed25519 key", "")
		}
		signer = key
		sshPub, err = ssh.NewPublicKey(key.Public())
	case AlgorithmRSA:
		key, genErr := rsa.GenerateKey(rand.Reader, rsaBits)
		if genErr != nil {
			return nil, nil, errors.WrapWithCode(genErr, errors.ErrKey,
				"Failed to generate RSA key", "")
		}
		signer = key
		sshPub, err = ssh.NewPublicKey(&key.PublicKey)
	}
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrKey,
			"Failed to derive public key", "")
	}

	var block *pem.Block
	if len(opts.Passphrase) > 0 {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(signer, opts.Comment, opts.Passphrase)
	} else {
		block, err = ssh.MarshalPrivateKey(signer, opts.Comment)
	}
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrKey,
			"Failed to encode private key", "")
	}

	priv = pem.EncodeToMemory(block)

	// authorized_keys line with the identity comment appended
	pub = bytes.TrimSuffix(ssh.MarshalAuthorizedKey(sshPub), []byte("\n"))
	if opts.Comment != "" {
		pub = append(pub, ' ')
		pub = append(pub, opts.Comment...)
	}
	pub = append(pub, '\n')

	return priv, pub, nil
}

// writePair writes both halves via temp files and renames them into place.
// The public half is renamed first; if the private rename fails, the public
// half is removed so no partial pair remains.
func writePair(privPath string, privBytes []byte, pubPath string, pubBytes []byte) error {
	privTmp := privPath + ".tmp"
	pubTmp := pubPath + ".tmp"

	cleanup := func() {
		os.Remove(privTmp)
		os.Remove(pubTmp)
	}

	if err := writeExclusive(privTmp, privBytes, 0o600); err != nil {
		cleanup()
		return errors.WrapWithCode(err, errors.ErrKey,
			fmt.Sprintf("Failed to write private key: %s", privPath),
			"Check disk space and directory permissions")
	}
	if err := writeExclusive(pubTmp, pubBytes, 0o644); err != nil {
		cleanup()
		return errors.WrapWithCode(err, errors.ErrKey,
			fmt.Sprintf("Failed to write public key: %s", pubPath),
			"Check disk space and directory permissions")
	}

	if err := os.Rename(pubTmp, pubPath); err != nil {
		cleanup()
		return errors.WrapWithCode(err, errors.ErrKey,
			fmt.Sprintf("Failed to finalize public key: %s", pubPath), "")
	}
	if err := os.Rename(privTmp, privPath); err != nil {
		os.Remove(pubPath)
		cleanup()
		return errors.WrapWithCode(err, errors.ErrKey,
			fmt.Sprintf("Failed to finalize private key: %s", privPath), "")
	}

	return nil
}

// writeExclusive creates a file that must not already exist.
func writeExclusive(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PublicKey reads the public half of the pair.
func (p *KeyPair) PublicKey() (string, error) {
	data, err := os.ReadFile(p.PublicPath)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrKey,
			fmt.Sprintf("Failed to read public key: %s", p.PublicPath),
			"Check that the file exists and is readable")
	}
	return strings.TrimSpace(string(data)), nil
}

// Fingerprint returns the SHA256 fingerprint of the public half.
func (p *KeyPair) Fingerprint() (string, error) {
	raw, err := p.PublicKey()
	if err != nil {
		return "", err
	}
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(raw))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrKey,
			fmt.Sprintf("Public key at %s is not valid", p.PublicPath),
			"Regenerate the pair after removing both halves")
	}
	return ssh.FingerprintSHA256(pub), nil
}

// isEncrypted checks private key data for passphrase protection markers.
func isEncrypted(data []byte) bool {
	if bytes.Contains(data, []byte("Proc-Type: 4,ENCRYPTED")) {
		return true
	}
	// OpenSSH format records the cipher in the key itself
	if _, err := ssh.ParseRawPrivateKey(data); err != nil {
		var passErr *ssh.PassphraseMissingError
		return stderrors.As(err, &passErr)
	}
	return false
}
