package driver

import (
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// FetchStdlib clones url into dest at rev, giving a manifest's std_root a
// vendored copy of UCG's own standard library when it is configured as a
// remote rather than a local path. The library being fetched is itself
// written in UCG, so vendoring it from a git remote is an ordinary source
// checkout simplified to a single pinned ref with no lockfile or registry
// indirection.
func FetchStdlib(url, rev, dest string) error {
	if url == "" {
		return fmt.Errorf("fetch stdlib: no remote url configured")
	}
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	repo, err := git.PlainClone(dest, false, &git.CloneOptions{
		URL:   url,
		Depth: 0,
	})
	if err != nil {
		return fmt.Errorf("git clone %s: %w", url, err)
	}

	if rev == "" {
		return nil
	}

	hash, err := repo.ResolveRevision(revisionFor(rev))
	if err != nil {
		_ = os.RemoveAll(dest)
		return fmt.Errorf("resolve revision %s: %w", rev, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(dest)
		return err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(dest)
		return fmt.Errorf("git checkout %s: %w", rev, err)
	}
	return nil
}

// revisionFor treats rev as a tag first, falling back to a raw revision
// (branch name or commit hash) when no such tag exists — go-git's
// ResolveRevision accepts either form uniformly via plumbing.Revision.
func revisionFor(rev string) plumbing.Revision {
	return plumbing.Revision(rev)
}
