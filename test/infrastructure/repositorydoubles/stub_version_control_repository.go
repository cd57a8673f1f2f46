//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rios0rios0/deplock/internal/domain/repositories"
)

// StubVersionControlRepository implements repositories.VersionControlRepository
// as a configurable spy. Every map is keyed by the base name of the directory.
type StubVersionControlRepository struct {
	mu sync.Mutex

	// --- Revision ---
	Revisions   map[string]string
	RevisionErr error

	// --- Checkout ---
	// CheckoutErrs holds the results of successive checkouts of one directory.
	CheckoutErrs map[string][]error

	// --- Fetch ---
	FetchErr error

	// --- HeadTags ---
	Tags map[string][]string

	// spy: calls received, e.g. "checkout beta abc123", "fetch beta origin"
	Calls []string
}

var _ repositories.VersionControlRepository = (*StubVersionControlRepository)(nil)

func (s *StubVersionControlRepository) Name() string { return "stub" }

func (s *StubVersionControlRepository) Revision(_ context.Context, dir string) (string, error) {
	name := filepath.Base(dir)
	s.record("revision " + name)
	if s.RevisionErr != nil {
		return "", s.RevisionErr
	}
	revision, ok := s.Revisions[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", repositories.ErrRevisionUnavailable, dir)
	}
	return revision, nil
}

func (s *StubVersionControlRepository) Checkout(_ context.Context, dir, revision string) error {
	name := filepath.Base(dir)
	s.record(fmt.Sprintf("checkout %s %s", name, revision))

	s.mu.Lock()
	defer s.mu.Unlock()
	results := s.CheckoutErrs[name]
	if len(results) == 0 {
		return nil
	}
	s.CheckoutErrs[name] = results[1:]
	return results[0]
}

func (s *StubVersionControlRepository) Fetch(_ context.Context, dir, remote string) error {
	s.record(fmt.Sprintf("fetch %s %s", filepath.Base(dir), remote))
	return s.FetchErr
}

func (s *StubVersionControlRepository) HeadTags(_ context.Context, dir string) ([]string, error) {
	return s.Tags[filepath.Base(dir)], nil
}

func (s *StubVersionControlRepository) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, call)
}
