package controllers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/deplock/internal/domain/commands"
	"github.com/rios0rios0/deplock/internal/domain/entities"
)

// ListVersionsController handles the "list-versions" subcommand.
type ListVersionsController struct {
	command commands.ListVersions
}

// NewListVersionsController creates a new ListVersionsController.
func NewListVersionsController(command commands.ListVersions) *ListVersionsController {
	return &ListVersionsController{command: command}
}

// GetBind returns the Cobra command metadata for the list-versions controller.
func (it *ListVersionsController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list-versions",
		Short: "Print the revision checked out for every dependency",
	}
}

// AddFlags adds the list-versions flags to the given Cobra command.
func (it *ListVersionsController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", commands.OutputTable, "Output format: table or json")
}

// Execute runs the list-versions command.
func (it *ListVersionsController) Execute(cmd *cobra.Command, args []string) error {
	if _, err := ParseKeyValueOptions(args); err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")

	return it.command.Execute(context.Background(), settings, commands.ListVersionsOptions{
		Output: cmd.OutOrStdout(),
		Format: format,
	})
}
