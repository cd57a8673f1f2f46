package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	if err := container.Provide(NewLockCommand); err != nil {
		return err
	}
	if err := container.Provide(NewUpdateLocalCommand); err != nil {
		return err
	}
	if err := container.Provide(NewListVersionsCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *LockCommand) Lock {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *UpdateLocalCommand) UpdateLocal {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ListVersionsCommand) ListVersions {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
