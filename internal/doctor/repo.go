package doctor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BhargavaRam10/gitup/internal/remote"
	git "github.com/go-git/go-git/v5"
)

// RepositoryCheck verifies the working directory sits inside a git
// repository.
type RepositoryCheck struct {
	Dir string
}

func (c *RepositoryCheck) Name() string     { return "repository" }
func (c *RepositoryCheck) Category() string { return "REPO" }

func (c *RepositoryCheck) Run() CheckResult {
	if _, err := remote.CurrentURL(c.Dir, remote.DefaultRemoteName); errors.Is(err, git.ErrRepositoryNotExists) {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Not inside a git repository",
			Suggestion: "Run gitup from a repository, or create one with: git init",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Inside a git repository",
	}
}

func (c *RepositoryCheck) Fix() error { return nil }

// RemoteCheck verifies the configured remote exists and carries an SSH or
// HTTPS URL for the expected host.
type RemoteCheck struct {
	Dir        string
	RemoteName string
	Host       string
}

func (c *RemoteCheck) Name() string     { return "remote" }
func (c *RemoteCheck) Category() string { return "REPO" }

func (c *RemoteCheck) Run() CheckResult {
	name := c.RemoteName
	if name == "" {
		name = remote.DefaultRemoteName
	}

	url, err := remote.CurrentURL(c.Dir, name)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Remote %q not configured", name),
			Suggestion: "Bind it with: gitup remote set",
		}
	}

	if c.Host != "" && !strings.Contains(url, c.Host) {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Remote %q points at %s, not %s", name, url, c.Host),
			Suggestion: "Rewrite it with: gitup remote set",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Remote %q -> %s", name, url),
	}
}

func (c *RemoteCheck) Fix() error { return nil }
