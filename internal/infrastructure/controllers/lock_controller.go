package controllers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/deplock/internal/domain/commands"
	"github.com/rios0rios0/deplock/internal/domain/entities"
)

// LockController handles the "lock" subcommand.
type LockController struct {
	command commands.Lock
}

// NewLockController creates a new LockController.
func NewLockController(command commands.Lock) *LockController {
	return &LockController{command: command}
}

// GetBind returns the Cobra command metadata for the lock controller.
func (it *LockController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "lock [ignore=a,b] [keep_first=c,d] [lock_config=path]",
		Short: "Pin every checked out dependency to its current revision",
		Long: `Read the revision checked out in every directory of the deps root,
match it with the dependencies declared by the project and its dependencies,
and write a lock manifest where every git reference is an exact revision.

Options may be given as key=value arguments or as flags:
  ignore       comma separated names left as declared
  keep_first   comma separated names written first, in this order
  lock_config  output path (default: deps.lock.yaml next to the manifest)`,
	}
}

// AddFlags adds the lock-specific flags to the given Cobra command.
func (it *LockController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("ignore", "", "Comma separated dependencies to leave unlocked")
	cmd.Flags().String("keep-first", "", "Comma separated dependencies to write first, in order")
	cmd.Flags().String("lock-config", "", "Path of the lock manifest to write")
}

// Execute runs the lock command.
func (it *LockController) Execute(cmd *cobra.Command, args []string) error {
	options, err := ParseKeyValueOptions(args, optionIgnore, optionKeepFirst, optionLockConfig)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	_, err = it.command.Execute(context.Background(), settings, commands.LockOptions{
		Ignore:    nameList(cmd, options, optionIgnore, "ignore", settings.Ignore),
		KeepFirst: nameList(cmd, options, optionKeepFirst, "keep-first", settings.KeepFirst),
		LockPath:  lockPath(cmd, options),
	})
	return err
}
