package cli

import (
	"testing"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhargavaRam10/gitup/internal/keys"
	"github.com/BhargavaRam10/gitup/internal/remote"
)

// TestKeyThenRemotePipeline drives the key and remote commands the way
// setup chains them: provision a credential, then bind the repository to
// the canonical URL.
func TestKeyThenRemotePipeline(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://old.example/some/where.git"},
	})
	require.NoError(t, err)

	t.Chdir(repoDir)
	keyDir := t.TempDir()

	configFlag = ""
	dirFlag = repoDir
	defer func() { dirFlag = "." }()

	// Step 1: provision the key.
	flags := &CommonFlags{Email: "dev@example.com", KeyDir: keyDir}
	require.NoError(t, keyGenerateCommand(flags, false))

	pair := keys.Find(keyDir)
	require.NotNil(t, pair)
	assert.Equal(t, keys.AlgorithmEd25519, pair.Algorithm)
	assert.Equal(t, "dev@example.com", pair.IdentityComment)

	// Running it again reuses the pair instead of replacing it.
	require.NoError(t, keyGenerateCommand(flags, false))

	// Step 2: bind the remote.
	bindFlags := &CommonFlags{Host: "github.example", Owner: "Acme", Repo: "widgets"}
	require.NoError(t, remoteSetCommand(bindFlags))

	url, err := remote.CurrentURL(repoDir, "origin")
	require.NoError(t, err)
	assert.Equal(t, "git@github.example:Acme/widgets.git", url)

	// Re-binding is idempotent.
	require.NoError(t, remoteSetCommand(bindFlags))
	url, err = remote.CurrentURL(repoDir, "origin")
	require.NoError(t, err)
	assert.Equal(t, "git@github.example:Acme/widgets.git", url)
}

func TestRemoteSetCommand_MissingRemote(t *testing.T) {
	repoDir := t.TempDir()
	_, err := git.PlainInit(repoDir, false)
	require.NoError(t, err)

	t.Chdir(repoDir)
	configFlag = ""
	dirFlag = repoDir
	defer func() { dirFlag = "." }()

	err = remoteSetCommand(&CommonFlags{Host: "github.example", Owner: "Acme", Repo: "widgets"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "origin")
	assert.Equal(t, ExitRepository, exitCodeForError(err))
}
