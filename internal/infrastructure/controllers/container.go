package controllers

import (
	"github.com/rios0rios0/deplock/internal/domain/entities"
	"go.uber.org/dig"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewLockController); err != nil {
		return err
	}
	if err := container.Provide(NewUpdateLocalController); err != nil {
		return err
	}
	if err := container.Provide(NewListVersionsController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	lockController *LockController,
	updateLocalController *UpdateLocalController,
	listVersionsController *ListVersionsController,
) *[]entities.Controller {
	return &[]entities.Controller{
		lockController,
		updateLocalController,
		listVersionsController,
	}
}
