package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/deplock/internal/domain/entities"
	"github.com/rios0rios0/deplock/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/deplock/internal/infrastructure/repositories"
)

// UpdateLocal is the interface for the update-local command.
type UpdateLocal interface {
	Execute(ctx context.Context, settings *entities.Settings, opts UpdateLocalOptions) error
}

// UpdateLocalOptions holds runtime options for the update-local command.
type UpdateLocalOptions struct {
	LockPath string // defaults to the sibling lock file of the manifest
	DryRun   bool
}

// UpdateLocalCommand moves every dependency checkout to the revision pinned
// in a lock manifest, fetching from the remote when the revision is missing.
type UpdateLocalCommand struct {
	vcsRegistry      *infraRepos.VersionControlRegistry
	manifestRegistry *infraRepos.ManifestRegistry
}

// NewUpdateLocalCommand creates a new UpdateLocalCommand with the given registries.
func NewUpdateLocalCommand(
	vcsRegistry *infraRepos.VersionControlRegistry,
	manifestRegistry *infraRepos.ManifestRegistry,
) *UpdateLocalCommand {
	return &UpdateLocalCommand{
		vcsRegistry:      vcsRegistry,
		manifestRegistry: manifestRegistry,
	}
}

// Execute applies the lock manifest to the checkouts under the deps root.
// The first dependency that cannot be checked out even after a fetch aborts
// the run.
func (it *UpdateLocalCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts UpdateLocalOptions,
) error {
	vcs, err := it.vcsRegistry.Get(settings.Backend, settings.Timeout())
	if err != nil {
		return err
	}

	lockPath := opts.LockPath
	if lockPath == "" {
		lockPath = entities.LockPath(settings.Manifest)
	}
	repo, err := it.manifestRegistry.ForPath(lockPath)
	if err != nil {
		return err
	}
	locked, err := repo.Read(lockPath)
	if err != nil {
		return err
	}

	depsDir := locked.DepsDir
	if depsDir == "" {
		depsDir = settings.DepsDir
	}
	depsRoot := resolveDir(filepath.Dir(lockPath), depsDir)

	updated := 0
	for _, spec := range locked.Deps {
		revision, pinned := spec.PinnedRevision()
		if !pinned {
			logger.Debugf("Skipping %s: no pinned revision", spec.Name)
			continue
		}
		dir := filepath.Join(depsRoot, spec.Name)
		if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
			logger.Debugf("Skipping %s: %s is not checked out", spec.Name, dir)
			continue
		}

		if opts.DryRun {
			logger.Infof("[DRY RUN] Would check out %s at %s", spec.Name, revision)
			continue
		}

		logger.Infof("Checking out %s at %s", spec.Name, revision)
		if checkoutErr := checkout(ctx, vcs, settings.Remote, dir, revision); checkoutErr != nil {
			return fmt.Errorf("failed to update %s: %w", spec.Name, checkoutErr)
		}
		updated++
	}

	logger.Infof("Updated %d dependencies from %s with %s", updated, lockPath, vcs.Name())
	return nil
}

// checkout tries an offline checkout first; on failure it fetches from the
// remote and retries once, this time reporting the failure.
func checkout(
	ctx context.Context,
	vcs repositories.VersionControlRepository,
	remote, dir, revision string,
) error {
	err := vcs.Checkout(ctx, dir, revision)
	if err == nil {
		return nil
	}
	logger.Infof("Revision %s not available locally (%v), fetching from %s", revision, err, remote)

	if fetchErr := vcs.Fetch(ctx, dir, remote); fetchErr != nil {
		return fetchErr
	}
	return vcs.Checkout(ctx, dir, revision)
}
