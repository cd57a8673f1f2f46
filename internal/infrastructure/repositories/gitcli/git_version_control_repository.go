package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/deplock/internal/domain/repositories"
)

const gitBinary = "git"

// VersionControlRepository drives the git command-line tool.
type VersionControlRepository struct {
	timeout time.Duration
}

// NewVersionControlRepository creates a git CLI backend. A zero timeout
// lets every git invocation block until it exits.
func NewVersionControlRepository(timeout time.Duration) repositories.VersionControlRepository {
	return &VersionControlRepository{timeout: timeout}
}

func (it *VersionControlRepository) Name() string { return "git" }

// Revision runs `git rev-parse HEAD` in dir.
func (it *VersionControlRepository) Revision(ctx context.Context, dir string) (string, error) {
	out, err := it.output(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", repositories.ErrRevisionUnavailable, dir, err)
	}
	return strings.TrimRight(out, "\r\n"), nil
}

// Checkout runs `git checkout` against objects already present locally.
func (it *VersionControlRepository) Checkout(ctx context.Context, dir, revision string) error {
	return it.run(ctx, dir, "checkout", "--quiet", revision)
}

// Fetch runs `git fetch` from the named remote.
func (it *VersionControlRepository) Fetch(ctx context.Context, dir, remote string) error {
	return it.run(ctx, dir, "fetch", "--quiet", remote)
}

// HeadTags runs `git tag --points-at HEAD`.
func (it *VersionControlRepository) HeadTags(ctx context.Context, dir string) ([]string, error) {
	out, err := it.output(ctx, dir, "tag", "--points-at", "HEAD")
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, line := range strings.Split(out, "\n") {
		if tag := strings.TrimSpace(line); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// run executes a git command in dir, discarding stdout.
// Stderr is captured and included in the error message on failure.
func (it *VersionControlRepository) run(ctx context.Context, dir string, args ...string) error {
	_, err := it.output(ctx, dir, args...)
	return err
}

// output executes a git command in dir and returns its stdout. Git only
// looks for a repository in dir itself: a plain directory nested inside
// another checkout must not resolve to that checkout.
func (it *VersionControlRepository) output(ctx context.Context, dir string, args ...string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", dir, err)
	}

	if it.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, it.timeout)
		defer cancel()
	}

	logger.Debugf("[git] %s: git %s", dir, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, gitBinary, args...)
	cmd.Dir = abs
	cmd.Env = append(os.Environ(), "GIT_CEILING_DIRECTORIES="+filepath.Dir(abs))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
