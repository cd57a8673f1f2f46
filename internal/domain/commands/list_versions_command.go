package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"text/tabwriter"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/deplock/internal/domain/entities"
	"github.com/rios0rios0/deplock/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/deplock/internal/infrastructure/repositories"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// ListVersions is the interface for the list-versions command.
type ListVersions interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ListVersionsOptions) error
}

// ListVersionsOptions holds runtime options for the list-versions command.
type ListVersionsOptions struct {
	Output io.Writer
	Format string // "table" or "json"
}

// ListVersionsCommand reports the revision checked out in every dependency
// directory. It never modifies anything.
type ListVersionsCommand struct {
	vcsRegistry      *infraRepos.VersionControlRegistry
	manifestRegistry *infraRepos.ManifestRegistry
}

// NewListVersionsCommand creates a new ListVersionsCommand with the given registries.
func NewListVersionsCommand(
	vcsRegistry *infraRepos.VersionControlRegistry,
	manifestRegistry *infraRepos.ManifestRegistry,
) *ListVersionsCommand {
	return &ListVersionsCommand{
		vcsRegistry:      vcsRegistry,
		manifestRegistry: manifestRegistry,
	}
}

// Execute prints one line per dependency directory, in scan order.
func (it *ListVersionsCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ListVersionsOptions,
) error {
	vcs, err := it.vcsRegistry.Get(settings.Backend, settings.Timeout())
	if err != nil {
		return err
	}

	depsRoot, err := it.depsRoot(settings)
	if err != nil {
		return err
	}
	dirs, err := ScanDependencyDirs(depsRoot)
	if err != nil {
		return err
	}

	logger.Debugf("Listing %d dependencies with %s", len(dirs), vcs.Name())
	switch opts.Format {
	case OutputJSON:
		return printJSON(opts.Output, Versions(ctx, vcs, dirs))
	case OutputTable, "":
		return printTable(opts.Output, Versions(ctx, vcs, dirs))
	default:
		return fmt.Errorf("unknown output format: %q", opts.Format)
	}
}

// Versions lazily reads the checkout of each directory. Iteration stops at
// the first revision that cannot be read.
func Versions(
	ctx context.Context,
	vcs repositories.VersionControlRepository,
	dirs []string,
) iter.Seq2[entities.VersionListing, error] {
	return func(yield func(entities.VersionListing, error) bool) {
		for _, dir := range dirs {
			revision, err := vcs.Revision(ctx, dir)
			if err != nil {
				yield(entities.VersionListing{}, err)
				return
			}

			tags, tagsErr := vcs.HeadTags(ctx, dir)
			if tagsErr != nil {
				logger.Debugf("No tags for %s: %v", dir, tagsErr)
			}

			listing := entities.VersionListing{
				Name:     filepath.Base(dir),
				Revision: revision,
				Tag:      entities.PreferredTag(tags),
			}
			if !yield(listing, nil) {
				return
			}
		}
	}
}

// depsRoot resolves the deps root from the manifest when there is one,
// falling back to the settings.
func (it *ListVersionsCommand) depsRoot(settings *entities.Settings) (string, error) {
	baseDir := filepath.Dir(settings.Manifest)
	repo, err := it.manifestRegistry.ForPath(settings.Manifest)
	if err != nil {
		return "", err
	}

	depsDir := settings.DepsDir
	if path, found := findManifest(baseDir, []string{filepath.Base(settings.Manifest)}); found {
		manifest, readErr := repo.Read(path)
		if readErr != nil {
			return "", readErr
		}
		if manifest.DepsDir != "" {
			depsDir = manifest.DepsDir
		}
	}
	return resolveDir(baseDir, depsDir), nil
}

func printTable(out io.Writer, versions iter.Seq2[entities.VersionListing, error]) error {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for listing, err := range versions {
		if err != nil {
			return err
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", listing.Name, listing.Revision, listing.Tag)
	}
	return writer.Flush()
}

func printJSON(out io.Writer, versions iter.Seq2[entities.VersionListing, error]) error {
	listings := []entities.VersionListing{}
	for listing, err := range versions {
		if err != nil {
			return err
		}
		listings = append(listings, listing)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(listings)
}
