package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/deplock/internal/domain/entities"
	"github.com/rios0rios0/deplock/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/deplock/internal/infrastructure/repositories"
)

// ScanDependencyDirs returns every immediate child of root that is a
// directory, symlinks followed, in directory-listing order. An absent root
// yields no directories.
func ScanDependencyDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list dependencies in %q: %w", root, err)
	}

	var dirs []string
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		info, statErr := os.Stat(path)
		if statErr != nil {
			logger.Debugf("Skipping %s: %v", path, statErr)
			continue
		}
		if info.IsDir() {
			dirs = append(dirs, path)
		}
	}
	return dirs, nil
}

// CollectDeclaredDeps concatenates the deps declared by the manifest of each
// directory, in directory order. Directories without a manifest contribute
// nothing; a manifest that cannot be parsed is an error.
func CollectDeclaredDeps(
	registry *infraRepos.ManifestRegistry,
	dirs []string,
	manifestNames []string,
) ([]entities.DependencySpec, error) {
	var declared []entities.DependencySpec
	for _, dir := range dirs {
		path, found := findManifest(dir, manifestNames)
		if !found {
			continue
		}

		repo, err := registry.ForPath(path)
		if err != nil {
			return nil, err
		}
		manifest, err := repo.Read(path)
		if err != nil {
			return nil, err
		}
		logger.Debugf("Collected %d deps from %s", len(manifest.Deps), path)
		declared = append(declared, manifest.Deps...)
	}
	return declared, nil
}

// ReadRevisions reads the revision of every directory, at most jobs at a
// time. Entries keep the order of dirs regardless of completion order.
func ReadRevisions(
	ctx context.Context,
	vcs repositories.VersionControlRepository,
	dirs []string,
	jobs int,
) ([]entities.RevisionEntry, error) {
	entries := make([]entities.RevisionEntry, len(dirs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(jobs, 1))
	for i, dir := range dirs {
		group.Go(func() error {
			revision, err := vcs.Revision(groupCtx, dir)
			if err != nil {
				return err
			}
			entries[i] = entities.RevisionEntry{Name: filepath.Base(dir), Revision: revision}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// findManifest returns the first of names present as a regular file in dir.
func findManifest(dir string, names []string) (string, bool) {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// resolveDir joins a manifest-relative directory onto base.
func resolveDir(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}
