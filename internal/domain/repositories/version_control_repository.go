package repositories

import (
	"context"
	"errors"
)

// ErrRevisionUnavailable is returned when the revision of a working tree
// cannot be read, e.g. because the directory is not a repository.
var ErrRevisionUnavailable = errors.New("revision unavailable")

// VersionControlRepository abstracts the version-control tool that owns the
// dependency checkouts.
type VersionControlRepository interface {
	// Name returns the backend identifier (e.g. "git", "go-git").
	Name() string

	// Revision returns the commit checked out in dir.
	Revision(ctx context.Context, dir string) (string, error)

	// Checkout moves the working tree in dir to revision without touching the network.
	Checkout(ctx context.Context, dir, revision string) error

	// Fetch updates dir from the named remote.
	Fetch(ctx context.Context, dir, remote string) error

	// HeadTags returns the tags pointing at the commit checked out in dir.
	HeadTags(ctx context.Context, dir string) ([]string, error)
}
