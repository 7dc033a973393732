package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryOutsideRepository(t *testing.T) {
	state := Query(t.TempDir())
	assert.Equal(t, State{}, state)
}

func TestQueryRepository(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	_, err = worktree.Add("README.md")
	require.NoError(t, err)

	sig := &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Now()}
	hash, err := worktree.Commit("initial", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	state := Query(dir)
	assert.Equal(t, hash.String(), state.Commit)
	assert.Equal(t, "master", state.Branch)
	assert.Empty(t, state.Tag)
	assert.False(t, state.Dirty)
}

func TestQueryTagAndDirty(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	_, err = worktree.Add("README.md")
	require.NoError(t, err)

	sig := &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Now()}
	hash, err := worktree.Commit("initial", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	_, err = repo.CreateTag("v1.2.3", hash, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed\n"), 0o644))

	state := Query(dir)
	assert.Equal(t, "v1.2.3", state.Tag)
	assert.True(t, state.Dirty)
}

func TestQueryFromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	sub := filepath.Join(dir, "services", "api")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "main.txt"), []byte("x\n"), 0o644))
	_, err = worktree.Add("services/api/main.txt")
	require.NoError(t, err)

	sig := &object.Signature{Name: "dev", Email: "dev@example.com", When: time.Now()}
	hash, err := worktree.Commit("initial", &git.CommitOptions{Author: sig})
	require.NoError(t, err)

	state := Query(sub)
	assert.Equal(t, hash.String(), state.Commit)
}
