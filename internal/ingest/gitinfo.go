package ingest

import (
	"github.com/go-git/go-git/v5"
)

// headCommit resolves the HEAD commit hash of the repository containing
// dir. Missing repo, detached worktree errors, anything at all degrades to
// an empty string; the commit stamp is informational only and is kept out
// of chunk metadata so it never perturbs document IDs.
func headCommit(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}
