//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/deplock/internal/domain/commands"
	"github.com/rios0rios0/deplock/internal/domain/entities"
)

// StubListVersionsCommand is a stub implementation of commands.ListVersions.
type StubListVersionsCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.ListVersionsOptions
}

var _ commands.ListVersions = (*StubListVersionsCommand)(nil)

func (s *StubListVersionsCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.ListVersionsOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteErr
}
