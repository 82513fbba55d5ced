package doctor

import (
	"testing"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T, remoteURL string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	if remoteURL != "" {
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
			Name: "origin",
			URLs: []string{remoteURL},
		})
		require.NoError(t, err)
	}
	return dir
}

func TestRepositoryCheck(t *testing.T) {
	dir := initTestRepo(t, "")
	check := &RepositoryCheck{Dir: dir}
	assert.Equal(t, StatusPass, check.Run().Status)
}

func TestRepositoryCheck_NotARepository(t *testing.T) {
	check := &RepositoryCheck{Dir: t.TempDir()}
	result := check.Run()

	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Suggestion, "git init")
}

func TestRemoteCheck(t *testing.T) {
	dir := initTestRepo(t, "git@github.example:Acme/widgets.git")
	check := &RemoteCheck{Dir: dir, Host: "github.example"}
	result := check.Run()

	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "git@github.example:Acme/widgets.git")
}

func TestRemoteCheck_Missing(t *testing.T) {
	dir := initTestRepo(t, "")
	check := &RemoteCheck{Dir: dir}
	result := check.Run()

	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Suggestion, "gitup remote set")
}

func TestRemoteCheck_WrongHost(t *testing.T) {
	dir := initTestRepo(t, "git@elsewhere.example:Acme/widgets.git")
	check := &RemoteCheck{Dir: dir, Host: "github.example"}
	result := check.Run()

	assert.Equal(t, StatusWarn, result.Status)
	assert.Contains(t, result.Message, "elsewhere.example")
}
