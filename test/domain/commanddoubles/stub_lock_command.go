//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/deplock/internal/domain/commands"
	"github.com/rios0rios0/deplock/internal/domain/entities"
)

// StubLockCommand is a stub implementation of commands.Lock.
type StubLockCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.LockOptions
}

var _ commands.Lock = (*StubLockCommand)(nil)

func (s *StubLockCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.LockOptions,
) (*entities.LockResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	return &entities.LockResult{}, nil
}
