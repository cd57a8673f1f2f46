package controllers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/deplock/internal/domain/commands"
	"github.com/rios0rios0/deplock/internal/domain/entities"
)

// UpdateLocalController handles the "update-local" subcommand.
type UpdateLocalController struct {
	command commands.UpdateLocal
}

// NewUpdateLocalController creates a new UpdateLocalController.
func NewUpdateLocalController(command commands.UpdateLocal) *UpdateLocalController {
	return &UpdateLocalController{command: command}
}

// GetBind returns the Cobra command metadata for the update-local controller.
func (it *UpdateLocalController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update-local [lock_config=path]",
		Short: "Check out the revisions pinned in a lock manifest",
		Long: `Move every dependency checkout under the deps root to the revision
pinned in the lock manifest. Revisions missing locally are fetched from the
remote once before giving up.`,
	}
}

// AddFlags adds the update-local flags to the given Cobra command.
func (it *UpdateLocalController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("lock-config", "", "Path of the lock manifest to apply")
	cmd.Flags().Bool("dry-run", false, "Show what would be checked out without changing anything")
}

// Execute runs the update-local command.
func (it *UpdateLocalController) Execute(cmd *cobra.Command, args []string) error {
	options, err := ParseKeyValueOptions(args, optionLockConfig)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	return it.command.Execute(context.Background(), settings, commands.UpdateLocalOptions{
		LockPath: lockPath(cmd, options),
		DryRun:   dryRun,
	})
}
