// Package remote rewrites a repository remote to point at a hosted
// repository over the chosen authentication transport.
package remote

import (
	stderrors "errors"
	"fmt"

	git "github.com/go-git/go-git/v5"

	"github.com/BhargavaRam10/gitup/internal/errors"
	"github.com/BhargavaRam10/gitup/internal/logger"
)

// Transport selects how the remote endpoint authenticates the caller.
type Transport string

const (
	// TransportSSH authenticates with a key pair.
	TransportSSH Transport = "ssh"
	// TransportHTTPSToken authenticates with a bearer token supplied at
	// push time through the credential helper. The token is never part of
	// the remote URL.
	TransportHTTPSToken Transport = "https-token"
)

// DefaultRemoteName is the remote rewritten when none is specified.
const DefaultRemoteName = "origin"

// Binding associates a local remote alias with a hosted repository.
type Binding struct {
	RemoteName string
	Host       string
	OwnerSlug  string
	RepoSlug   string
	Transport  Transport
}

// URL builds the transport-specific remote URL.
func (b Binding) URL() string {
	if b.Transport == TransportHTTPSToken {
		return fmt.Sprintf("https://%s/%s/%s.git", b.Host, b.OwnerSlug, b.RepoSlug)
	}
	return fmt.Sprintf("git@%s:%s/%s.git", b.Host, b.OwnerSlug, b.RepoSlug)
}

// Validate checks identifiers for non-emptiness. No format validation is
// performed; malformed values surface later as probe failures.
func (b Binding) Validate() error {
	switch {
	case b.Host == "":
		return errors.New(errors.ErrConfig, "Host is required", "Pass --host or set it in .gitup.yaml")
	case b.OwnerSlug == "":
		return errors.New(errors.ErrConfig, "Owner is required", "Pass --owner or set it in .gitup.yaml")
	case b.RepoSlug == "":
		return errors.New(errors.ErrConfig, "Repository is required", "Pass --repo or set it in .gitup.yaml")
	}
	switch b.Transport {
	case TransportSSH, TransportHTTPSToken, "":
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown transport: %s", b.Transport),
			"Supported transports: ssh, https-token")
	}
	return nil
}

// withDefaults fills in the remote name and transport when unset.
func (b Binding) withDefaults() Binding {
	if b.RemoteName == "" {
		b.RemoteName = DefaultRemoteName
	}
	if b.Transport == "" {
		b.Transport = TransportSSH
	}
	return b
}

// SetRemote overwrites the named remote's URL in the repository at dir.
// The previous URL is not preserved: last write wins. Applying the same
// binding twice yields the same URL, so re-runs are safe.
func SetRemote(dir string, b Binding, log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	b = b.withDefaults()
	if err := b.Validate(); err != nil {
		return err
	}

	repo, err := open(dir)
	if err != nil {
		return err
	}

	// Resolve through Remote() first so a missing remote fails before any
	// config is touched.
	if _, err := repo.Remote(b.RemoteName); err != nil {
		if stderrors.Is(err, git.ErrRemoteNotFound) {
			return errors.WrapWithCode(err, errors.ErrRemote,
				fmt.Sprintf("No remote named '%s' in this repository", b.RemoteName),
				fmt.Sprintf("Add one first: git remote add %s %s", b.RemoteName, b.URL()))
		}
		return errors.WrapWithCode(err, errors.ErrRemote,
			fmt.Sprintf("Failed to read remote '%s'", b.RemoteName), "")
	}

	cfg, err := repo.Config()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRemote,
			"Failed to read repository configuration", "")
	}

	rc, ok := cfg.Remotes[b.RemoteName]
	if !ok {
		return errors.WrapWithCode(git.ErrRemoteNotFound, errors.ErrRemote,
			fmt.Sprintf("No remote named '%s' in this repository", b.RemoteName),
			fmt.Sprintf("Add one first: git remote add %s %s", b.RemoteName, b.URL()))
	}
	prev := rc.URLs
	rc.URLs = []string{b.URL()}

	if err := repo.SetConfig(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrRemote,
			fmt.Sprintf("Failed to update remote '%s'", b.RemoteName),
			"Check write permission on .git/config")
	}

	log.Debug("remote %s: %v -> %s", b.RemoteName, prev, b.URL())
	return nil
}

// CurrentURL returns the first URL of the named remote.
func CurrentURL(dir, name string) (string, error) {
	if name == "" {
		name = DefaultRemoteName
	}
	repo, err := open(dir)
	if err != nil {
		return "", err
	}
	r, err := repo.Remote(name)
	if err != nil {
		if stderrors.Is(err, git.ErrRemoteNotFound) {
			return "", errors.WrapWithCode(err, errors.ErrRemote,
				fmt.Sprintf("No remote named '%s' in this repository", name),
				fmt.Sprintf("Add one first: git remote add %s <url>", name))
		}
		return "", errors.WrapWithCode(err, errors.ErrRemote,
			fmt.Sprintf("Failed to read remote '%s'", name), "")
	}
	urls := r.Config().URLs
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}

// open locates the repository containing dir, walking up like git does.
func open(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.WrapWithCode(err, errors.ErrRemote,
				fmt.Sprintf("Not a git repository: %s", dir),
				"Run this inside a working copy, or pass --dir")
		}
		return nil, errors.WrapWithCode(err, errors.ErrRemote,
			fmt.Sprintf("Failed to open repository at %s", dir), "")
	}
	return repo, nil
}
