//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/deplock/internal/domain/commands"
	"github.com/rios0rios0/deplock/internal/domain/entities"
)

// StubUpdateLocalCommand is a stub implementation of commands.UpdateLocal.
type StubUpdateLocalCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.UpdateLocalOptions
}

var _ commands.UpdateLocal = (*StubUpdateLocalCommand)(nil)

func (s *StubUpdateLocalCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.UpdateLocalOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteErr
}
