// Package vcs queries git state for the template context.
package vcs

import (
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// State is a snapshot of a working tree's git state. Zero values mean the
// corresponding query failed or the directory is not a repository; callers
// never see an error from here.
type State struct {
	// Tag is the tag pointing exactly at HEAD, if any.
	Tag string

	// Commit is the full HEAD commit hash.
	Commit string

	// Branch is the checked-out branch name; empty on a detached HEAD.
	Branch string

	// Dirty reports uncommitted changes in the working tree.
	Dirty bool
}

// Query collects the git state for dir, searching upward for the repository
// root. Every query degrades to zero values instead of failing the run: a
// VCS-less workspace is a valid place to deploy from.
func Query(dir string) State {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return State{}
	}

	var st State
	head, err := repo.Head()
	if err != nil {
		return st
	}
	st.Commit = head.Hash().String()
	if head.Name().IsBranch() {
		st.Branch = head.Name().Short()
	}
	st.Tag = exactTag(repo, head.Hash())
	st.Dirty = isDirty(repo)
	return st
}

// exactTag returns the first tag whose target is the given commit.
func exactTag(repo *git.Repository, hash plumbing.Hash) string {
	tags, err := repo.Tags()
	if err != nil {
		return ""
	}
	defer tags.Close()

	var found string
	_ = tags.ForEach(func(ref *plumbing.Reference) error {
		if found != "" {
			return nil
		}
		target := ref.Hash()
		// Annotated tags point at a tag object, not the commit.
		if obj, err := repo.TagObject(ref.Hash()); err == nil {
			target = obj.Target
		}
		if target == hash {
			found = ref.Name().Short()
		}
		return nil
	})
	return found
}

func isDirty(repo *git.Repository) bool {
	wt, err := repo.Worktree()
	if err != nil {
		return false
	}
	status, err := wt.Status()
	if err != nil {
		return false
	}
	return !status.IsClean()
}
