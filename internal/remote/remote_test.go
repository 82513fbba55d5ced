package remote

import (
	"testing"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhargavaRam10/gitup/internal/errors"
)

// initRepo creates a bare-bones working copy with one remote.
func initRepo(t *testing.T, remoteName, url string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	if remoteName != "" {
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
			Name: remoteName,
			URLs: []string{url},
		})
		require.NoError(t, err)
	}

	return dir
}

func TestBindingURL(t *testing.T) {
	tests := []struct {
		name      string
		transport Transport
		want      string
	}{
		{
			name:      "ssh transport",
			transport: TransportSSH,
			want:      "git@github.example:Acme/widgets.git",
		},
		{
			name:      "https token transport",
			transport: TransportHTTPSToken,
			want:      "https://github.example/Acme/widgets.git",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Binding{
				Host:      "github.example",
				OwnerSlug: "Acme",
				RepoSlug:  "widgets",
				Transport: tt.transport,
			}
			assert.Equal(t, tt.want, b.URL())
		})
	}
}

func TestBindingValidate(t *testing.T) {
	tests := []struct {
		name    string
		binding Binding
		wantErr string
	}{
		{
			name:    "valid ssh binding",
			binding: Binding{Host: "h", OwnerSlug: "o", RepoSlug: "r", Transport: TransportSSH},
		},
		{
			name:    "missing host",
			binding: Binding{OwnerSlug: "o", RepoSlug: "r"},
			wantErr: "Host is required",
		},
		{
			name:    "missing owner",
			binding: Binding{Host: "h", RepoSlug: "r"},
			wantErr: "Owner is required",
		},
		{
			name:    "missing repo",
			binding: Binding{Host: "h", OwnerSlug: "o"},
			wantErr: "Repository is required",
		},
		{
			name:    "unknown transport",
			binding: Binding{Host: "h", OwnerSlug: "o", RepoSlug: "r", Transport: "carrier-pigeon"},
			wantErr: "Unknown transport",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.binding.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSetRemote_RewritesURL(t *testing.T) {
	dir := initRepo(t, "origin", "https://old.example/old/old.git")

	b := Binding{
		Host:      "github.example",
		OwnerSlug: "Acme",
		RepoSlug:  "widgets",
		Transport: TransportSSH,
	}
	require.NoError(t, SetRemote(dir, b, nil))

	url, err := CurrentURL(dir, "origin")
	require.NoError(t, err)
	assert.Equal(t, "git@github.example:Acme/widgets.git", url)
}

func TestSetRemote_Idempotent(t *testing.T) {
	dir := initRepo(t, "origin", "https://old.example/old/old.git")

	b := Binding{Host: "github.example", OwnerSlug: "Acme", RepoSlug: "widgets"}
	require.NoError(t, SetRemote(dir, b, nil))
	first, err := CurrentURL(dir, "origin")
	require.NoError(t, err)

	require.NoError(t, SetRemote(dir, b, nil))
	second, err := CurrentURL(dir, "origin")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSetRemote_OverwritesUnconditionally(t *testing.T) {
	dir := initRepo(t, "origin", "git@github.example:Acme/widgets.git")

	// Switching transport rewrites the URL without any merge semantics
	b := Binding{Host: "github.example", OwnerSlug: "Acme", RepoSlug: "widgets", Transport: TransportHTTPSToken}
	require.NoError(t, SetRemote(dir, b, nil))

	url, err := CurrentURL(dir, "origin")
	require.NoError(t, err)
	assert.Equal(t, "https://github.example/Acme/widgets.git", url)
}

func TestSetRemote_NonDefaultRemoteName(t *testing.T) {
	dir := initRepo(t, "upstream", "https://old.example/a/b.git")

	b := Binding{
		RemoteName: "upstream",
		Host:       "github.example",
		OwnerSlug:  "Acme",
		RepoSlug:   "widgets",
	}
	require.NoError(t, SetRemote(dir, b, nil))

	url, err := CurrentURL(dir, "upstream")
	require.NoError(t, err)
	assert.Equal(t, "git@github.example:Acme/widgets.git", url)
}

func TestSetRemote_RemoteNotFound(t *testing.T) {
	dir := initRepo(t, "upstream", "https://old.example/a/b.git")

	b := Binding{Host: "github.example", OwnerSlug: "Acme", RepoSlug: "widgets"}
	err := SetRemote(dir, b, nil) // defaults to origin, which doesn't exist
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRemote))
	assert.ErrorIs(t, err, git.ErrRemoteNotFound)

	// Existing remote must be untouched
	url, urlErr := CurrentURL(dir, "upstream")
	require.NoError(t, urlErr)
	assert.Equal(t, "https://old.example/a/b.git", url)
}

func TestSetRemote_NotARepository(t *testing.T) {
	dir := t.TempDir()

	b := Binding{Host: "github.example", OwnerSlug: "Acme", RepoSlug: "widgets"}
	err := SetRemote(dir, b, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, git.ErrRepositoryNotExists)
}

func TestCurrentURL_RemoteNotFound(t *testing.T) {
	dir := initRepo(t, "", "")

	_, err := CurrentURL(dir, "origin")
	require.Error(t, err)
	assert.ErrorIs(t, err, git.ErrRemoteNotFound)
}
