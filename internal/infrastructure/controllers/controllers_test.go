//go:build unit

package controllers_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/deplock/internal/domain/commands"
	"github.com/rios0rios0/deplock/internal/domain/entities"
	"github.com/rios0rios0/deplock/internal/infrastructure/controllers"
	"github.com/rios0rios0/deplock/test/domain/commanddoubles"
)

// newCobraCommand mirrors the global flags of the root command so a
// controller can be exercised on its own.
func newCobraCommand(t *testing.T, controller entities.Controller, flags ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: controller.GetBind().Use}
	cmd.Flags().StringP("config", "c", "", "")
	cmd.Flags().StringP("manifest", "m", "", "")
	cmd.Flags().String("backend", "", "")
	cmd.Flags().Int("jobs", 0, "")
	cmd.Flags().BoolP("verbose", "v", false, "")
	controller.AddFlags(cmd)
	require.NoError(t, cmd.ParseFlags(flags))
	return cmd
}

// configFile writes a settings file so tests never pick up the user's own.
func configFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".deplock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return "--config=" + path
}

func TestLockController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should pass key=value options to the command", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubLockCommand{}
		controller := controllers.NewLockController(stub)
		cmd := newCobraCommand(t, controller, configFile(t, "jobs: 2\n"))

		// when
		err := controller.Execute(cmd, []string{"ignore=x,y", "keep_first=c", "lock_config=out.yaml"})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, stub.ExecuteCallCount)
		assert.Equal(t, commands.LockOptions{
			Ignore:    []string{"x", "y"},
			KeepFirst: []string{"c"},
			LockPath:  "out.yaml",
		}, stub.LastOpts)
		assert.Equal(t, 2, stub.LastSettings.Jobs)
	})

	t.Run("should accept the same options as flags", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubLockCommand{}
		controller := controllers.NewLockController(stub)
		cmd := newCobraCommand(t, controller,
			configFile(t, ""), "--ignore=x", "--keep-first=a,b", "--lock-config=pinned.yaml")

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, stub.LastOpts.Ignore)
		assert.Equal(t, []string{"a", "b"}, stub.LastOpts.KeepFirst)
		assert.Equal(t, "pinned.yaml", stub.LastOpts.LockPath)
	})

	t.Run("should fall back to the configured names", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubLockCommand{}
		controller := controllers.NewLockController(stub)
		cmd := newCobraCommand(t, controller, configFile(t, "ignore: [x]\nkeep_first: [a]\n"))

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, stub.LastOpts.Ignore)
		assert.Equal(t, []string{"a"}, stub.LastOpts.KeepFirst)
		assert.Empty(t, stub.LastOpts.LockPath)
	})

	t.Run("should let global flags override the config file", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubLockCommand{}
		controller := controllers.NewLockController(stub)
		cmd := newCobraCommand(t, controller,
			configFile(t, "manifest: deps.hcl\nbackend: git\n"), "--manifest=other/deps.yaml", "--backend=go-git", "--jobs=8")

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, "other/deps.yaml", stub.LastSettings.Manifest)
		assert.Equal(t, entities.BackendGoGit, stub.LastSettings.Backend)
		assert.Equal(t, 8, stub.LastSettings.Jobs)
	})

	t.Run("should reject unknown options without running the command", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubLockCommand{}
		controller := controllers.NewLockController(stub)
		cmd := newCobraCommand(t, controller, configFile(t, ""))

		// when
		err := controller.Execute(cmd, []string{"dry_run=true"})

		// then
		require.ErrorIs(t, err, controllers.ErrUnknownOption)
		assert.Zero(t, stub.ExecuteCallCount)
	})

	t.Run("should reject an invalid backend", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubLockCommand{}
		controller := controllers.NewLockController(stub)
		cmd := newCobraCommand(t, controller, configFile(t, ""), "--backend=svn")

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.Error(t, err)
		assert.Zero(t, stub.ExecuteCallCount)
	})

	t.Run("should return the command error", func(t *testing.T) {
		t.Parallel()

		// given
		expected := errors.New("boom")
		stub := &commanddoubles.StubLockCommand{ExecuteErr: expected}
		controller := controllers.NewLockController(stub)
		cmd := newCobraCommand(t, controller, configFile(t, ""))

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.ErrorIs(t, err, expected)
	})
}

func TestUpdateLocalController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should pass the lock path and dry run flag", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubUpdateLocalCommand{}
		controller := controllers.NewUpdateLocalController(stub)
		cmd := newCobraCommand(t, controller, configFile(t, ""), "--dry-run")

		// when
		err := controller.Execute(cmd, []string{"lock_config=deps.lock.hcl"})

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.UpdateLocalOptions{LockPath: "deps.lock.hcl", DryRun: true}, stub.LastOpts)
	})

	t.Run("should reject lock options it does not support", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubUpdateLocalCommand{}
		controller := controllers.NewUpdateLocalController(stub)
		cmd := newCobraCommand(t, controller, configFile(t, ""))

		// when
		err := controller.Execute(cmd, []string{"ignore=x"})

		// then
		require.ErrorIs(t, err, controllers.ErrUnknownOption)
		assert.Zero(t, stub.ExecuteCallCount)
	})
}

func TestListVersionsController_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should pass the output format and writer", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubListVersionsCommand{}
		controller := controllers.NewListVersionsController(stub)
		cmd := newCobraCommand(t, controller, configFile(t, ""), "-o", "json")

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.OutputJSON, stub.LastOpts.Format)
		assert.NotNil(t, stub.LastOpts.Output)
	})

	t.Run("should default to the table format", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &commanddoubles.StubListVersionsCommand{}
		controller := controllers.NewListVersionsController(stub)
		cmd := newCobraCommand(t, controller, configFile(t, ""))

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.OutputTable, stub.LastOpts.Format)
	})
}
