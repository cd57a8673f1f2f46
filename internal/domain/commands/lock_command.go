package commands

import (
	"context"
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/deplock/internal/domain/entities"
	infraRepos "github.com/rios0rios0/deplock/internal/infrastructure/repositories"
)

// Lock is the interface for the lock command.
type Lock interface {
	Execute(ctx context.Context, settings *entities.Settings, opts LockOptions) (*entities.LockResult, error)
}

// LockOptions holds the operator options of a single lock run.
type LockOptions struct {
	Ignore    []string
	KeepFirst []string
	LockPath  string // defaults to the sibling lock file of the manifest
}

// LockCommand pins every dependency checked out on disk to its current
// revision and writes the lock manifest:
// scan -> read revisions -> collect declared deps -> merge -> rewrite.
type LockCommand struct {
	vcsRegistry      *infraRepos.VersionControlRegistry
	manifestRegistry *infraRepos.ManifestRegistry
}

// NewLockCommand creates a new LockCommand with the given registries.
func NewLockCommand(
	vcsRegistry *infraRepos.VersionControlRegistry,
	manifestRegistry *infraRepos.ManifestRegistry,
) *LockCommand {
	return &LockCommand{
		vcsRegistry:      vcsRegistry,
		manifestRegistry: manifestRegistry,
	}
}

// Execute runs one lock pass using the provided configuration.
func (it *LockCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts LockOptions,
) (*entities.LockResult, error) {
	policy, err := entities.NewLockPolicy(opts.Ignore, opts.KeepFirst)
	if err != nil {
		return nil, err
	}

	vcs, err := it.vcsRegistry.Get(settings.Backend, settings.Timeout())
	if err != nil {
		return nil, err
	}

	manifestRepo, err := it.manifestRegistry.ForPath(settings.Manifest)
	if err != nil {
		return nil, err
	}
	manifest, err := manifestRepo.Read(settings.Manifest)
	if err != nil {
		return nil, err
	}

	lockPath := opts.LockPath
	if lockPath == "" {
		lockPath = entities.LockPath(settings.Manifest)
	}
	lockRepo, err := it.manifestRegistry.ForPath(lockPath)
	if err != nil {
		return nil, err
	}
	if lockRepo.Format() != manifestRepo.Format() {
		return nil, fmt.Errorf(
			"%w: lock file %q must use the %s format of %q",
			entities.ErrUnsupportedManifest, lockPath, manifestRepo.Format(), settings.Manifest,
		)
	}

	baseDir := filepath.Dir(settings.Manifest)
	depsDir := manifest.DepsDir
	if depsDir == "" {
		depsDir = settings.DepsDir
	}
	depsRoot := resolveDir(baseDir, depsDir)

	depDirs, err := ScanDependencyDirs(depsRoot)
	if err != nil {
		return nil, err
	}
	logger.Infof("Found %d dependencies in %s, reading revisions with %s", len(depDirs), depsRoot, vcs.Name())

	scanned, err := ReadRevisions(ctx, vcs, depDirs, settings.Jobs)
	if err != nil {
		return nil, err
	}
	table := entities.BuildVersionTable(scanned, policy.PriorityNames)

	collectDirs := make([]string, 0, len(manifest.SubDirs)+len(depDirs))
	for _, subDir := range manifest.SubDirs {
		collectDirs = append(collectDirs, resolveDir(baseDir, subDir))
	}
	collectDirs = append(collectDirs, depDirs...)

	collected, err := CollectDeclaredDeps(it.manifestRegistry, collectDirs, settings.ManifestNames)
	if err != nil {
		return nil, err
	}
	declared := append(append([]entities.DependencySpec(nil), manifest.Deps...), collected...)

	result := entities.MergeLock(table, declared, policy)
	for _, name := range result.Unpinned {
		logger.Warnf("Dependency %q has a non-git source and was left unpinned", name)
	}

	if writeErr := lockRepo.Write(lockPath, manifest, result.Deps); writeErr != nil {
		return nil, writeErr
	}

	logger.Infof("Locked %d dependencies, ignored %d", result.Locked, result.Ignored)
	logger.Infof("Wrote %s", lockPath)
	return &result, nil
}
