package gogit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/rios0rios0/deplock/internal/domain/repositories"
)

// VersionControlRepository reads and moves checkouts in-process with go-git.
type VersionControlRepository struct {
	timeout time.Duration
}

// NewVersionControlRepository creates a go-git backend. The timeout only
// bounds network operations.
func NewVersionControlRepository(timeout time.Duration) repositories.VersionControlRepository {
	return &VersionControlRepository{timeout: timeout}
}

func (it *VersionControlRepository) Name() string { return "go-git" }

// Revision returns the hash HEAD resolves to.
func (it *VersionControlRepository) Revision(_ context.Context, dir string) (string, error) {
	head, err := openHead(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", repositories.ErrRevisionUnavailable, dir, err)
	}
	return head.Hash().String(), nil
}

// Checkout detaches the worktree at revision. It fails when the revision is
// not present in the local object store.
func (it *VersionControlRepository) Checkout(_ context.Context, dir, revision string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dir, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return fmt.Errorf("failed to resolve %s in %s: %w", revision, dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree of %s: %w", dir, err)
	}

	if checkoutErr := worktree.Checkout(&git.CheckoutOptions{Hash: *hash}); checkoutErr != nil {
		return fmt.Errorf("failed to checkout %s in %s: %w", revision, dir, checkoutErr)
	}
	return nil
}

// Fetch fetches branches and tags from the named remote.
func (it *VersionControlRepository) Fetch(ctx context.Context, dir, remote string) error {
	if it.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, it.timeout)
		defer cancel()
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", dir, err)
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote,
		Auth:       remoteAuth(repo, remote),
		Tags:       git.AllTags,
	})
	// ErrAlreadyUpToDate is not a real error
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch %s in %s: %w", remote, dir, err)
	}
	return nil
}

// HeadTags returns the tags, lightweight or annotated, that point at HEAD.
func (it *VersionControlRepository) HeadTags(_ context.Context, dir string) ([]string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD of %s: %w", dir, err)
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of %s: %w", dir, err)
	}
	defer iter.Close()

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if tag, tagErr := repo.TagObject(target); tagErr == nil {
			commit, commitErr := tag.Commit()
			if commitErr != nil {
				return nil // tag of a non-commit object
			}
			target = commit.Hash
		}
		if target == head.Hash() {
			tags = append(tags, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of %s: %w", dir, err)
	}
	return tags, nil
}

func openHead(dir string) (*plumbing.Reference, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, err
	}
	return repo.Head()
}

// remoteAuth returns token based HTTP credentials for HTTPS remotes, or nil
// to let go-git fall back to its defaults (ssh-agent for SSH remotes).
func remoteAuth(repo *git.Repository, remoteName string) transport.AuthMethod {
	remote, err := repo.Remote(remoteName)
	if err != nil || len(remote.Config().URLs) == 0 {
		return nil
	}
	if !strings.HasPrefix(remote.Config().URLs[0], "https://") {
		return nil
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return &http.BasicAuth{Username: "x-access-token", Password: token}
	}
	if token := os.Getenv("GITLAB_TOKEN"); token != "" {
		return &http.BasicAuth{Username: "gitlab-ci-token", Password: token}
	}
	if token := os.Getenv("GIT_TOKEN"); token != "" {
		return &http.BasicAuth{Username: "git", Password: token}
	}
	return nil
}
