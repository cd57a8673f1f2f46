//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/deplock/internal/domain/commands"
	"github.com/rios0rios0/deplock/internal/domain/entities"
	domainRepos "github.com/rios0rios0/deplock/internal/domain/repositories"
	"github.com/rios0rios0/deplock/internal/infrastructure/repositories/yamlmanifest"
	"github.com/rios0rios0/deplock/test/infrastructure/repositorydoubles"
)

const gitDep = `
  - name: %s
    version: "1.*"
    source:
      type: git
      url: https://example.com/%s.git
      branch: main`

func readLock(t *testing.T, path string) *entities.Manifest {
	t.Helper()
	manifest, err := yamlmanifest.NewManifestRepository().Read(path)
	require.NoError(t, err)
	return manifest
}

func depNames(specs []entities.DependencySpec) []string {
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	return names
}

// threeDepsProject declares alpha, beta and gamma in the root manifest and
// checks all three out under deps/.
func threeDepsProject(t *testing.T) (string, *repositorydoubles.StubVersionControlRepository) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "deps.yaml", "name: demo\ndeps:"+
		fmt.Sprintf(gitDep, "alpha", "alpha")+
		fmt.Sprintf(gitDep, "beta", "beta")+
		fmt.Sprintf(gitDep, "gamma", "gamma")+"\n")
	mkdirs(t, root, "deps/alpha", "deps/beta", "deps/gamma")
	stub := &repositorydoubles.StubVersionControlRepository{
		Revisions: map[string]string{"alpha": "ra", "beta": "rb", "gamma": "rc"},
	}
	return root, stub
}

func TestLockCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should pin a dependency declared by another dependency", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeFile(t, root, "deps.yaml", "name: demo\n")
		writeFile(t, root, "deps/alpha/deps.yaml",
			"deps:\n  - name: beta\n    version: v1\n    source:\n      type: git\n      url: u1\n      tag: v1\n")
		mkdirs(t, root, "deps/beta")
		stub := &repositorydoubles.StubVersionControlRepository{
			Revisions: map[string]string{"alpha": "fff000", "beta": "abc123"},
		}
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())

		// when
		result, err := cmd.Execute(context.Background(), newSettings(root), commands.LockOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, result.Locked)
		lock := readLock(t, filepath.Join(root, "deps.lock.yaml"))
		require.Len(t, lock.Deps, 1)
		assert.Equal(t, entities.DependencySpec{
			Name:    "beta",
			Version: entities.AnyVersion,
			Source: entities.Source{
				Type:    entities.SourceTypeGit,
				URL:     "u1",
				RefKind: entities.RefKindRef,
				Ref:     "abc123",
			},
		}, lock.Deps[0])
		assert.Equal(t, []string{"name", "deps"}, []string{lock.Terms[0].Key, lock.Terms[1].Key})
	})

	t.Run("should order locked deps by name and honour keep_first", func(t *testing.T) {
		t.Parallel()

		// given
		root, stub := threeDepsProject(t)
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())
		opts := commands.LockOptions{KeepFirst: []string{"gamma", "missing"}}

		// when
		result, err := cmd.Execute(context.Background(), newSettings(root), opts)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"gamma", "alpha", "beta"}, depNames(result.Deps))
		lock := readLock(t, filepath.Join(root, "deps.lock.yaml"))
		assert.Equal(t, []string{"gamma", "alpha", "beta"}, depNames(lock.Deps))
		assert.Equal(t, "rc", lock.Deps[0].Source.Ref)
	})

	t.Run("should pass ignored deps through unchanged and first", func(t *testing.T) {
		t.Parallel()

		// given
		root, stub := threeDepsProject(t)
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())
		opts := commands.LockOptions{Ignore: []string{"beta"}}

		// when
		result, err := cmd.Execute(context.Background(), newSettings(root), opts)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, result.Ignored)
		assert.Equal(t, 2, result.Locked)
		lock := readLock(t, filepath.Join(root, "deps.lock.yaml"))
		assert.Equal(t, []string{"beta", "alpha", "gamma"}, depNames(lock.Deps))
		assert.Equal(t, "1.*", lock.Deps[0].Version)
		assert.Equal(t, entities.RefKindBranch, lock.Deps[0].Source.RefKind)
		assert.Equal(t, "main", lock.Deps[0].Source.Ref)
	})

	t.Run("should list a repeated ignore name once", func(t *testing.T) {
		t.Parallel()

		// given
		root, stub := threeDepsProject(t)
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())
		opts := commands.LockOptions{Ignore: []string{"beta", "beta"}}

		// when
		result, err := cmd.Execute(context.Background(), newSettings(root), opts)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, result.Ignored)
		assert.Equal(t, []string{"beta", "alpha", "gamma"}, depNames(result.Deps))
		lock := readLock(t, filepath.Join(root, "deps.lock.yaml"))
		assert.Equal(t, []string{"beta", "alpha", "gamma"}, depNames(lock.Deps))
	})

	t.Run("should keep keys it does not interpret in the lock file", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeFile(t, root, "deps.yaml", "name: demo\ndeps:\n"+
			"  - name: alpha\n"+
			"    version: \"1.*\"\n"+
			"    source:\n"+
			"      url: u1\n"+
			"      branch: main\n"+
			"    build: make all\n"+
			"  - name: beta\n"+
			"    version: \"1.*\"\n"+
			"    build: make beta\n"+
			"    source:\n"+
			"      type: path\n"+
			"      path: ../beta\n"+
			"      url: u2\n")
		mkdirs(t, root, "deps/alpha", "deps/beta")
		stub := &repositorydoubles.StubVersionControlRepository{
			Revisions: map[string]string{"alpha": "ra", "beta": "rb"},
		}
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())
		opts := commands.LockOptions{Ignore: []string{"beta"}}

		// when
		_, err := cmd.Execute(context.Background(), newSettings(root), opts)

		// then
		require.NoError(t, err)
		data, readErr := os.ReadFile(filepath.Join(root, "deps.lock.yaml"))
		require.NoError(t, readErr)
		assert.Contains(t, string(data), "build: make all")
		assert.Contains(t, string(data), "build: make beta")
		assert.Contains(t, string(data), "path: ../beta")

		lock := readLock(t, filepath.Join(root, "deps.lock.yaml"))
		require.Equal(t, []string{"beta", "alpha"}, depNames(lock.Deps))
		assert.Equal(t, "ra", lock.Deps[1].Source.Ref)
		require.Len(t, lock.Deps[1].Extras, 1)
		assert.Equal(t, "build", lock.Deps[1].Extras[0].Key)
		require.Len(t, lock.Deps[0].Source.Extras, 1)
		assert.Equal(t, "path", lock.Deps[0].Source.Extras[0].Key)
	})

	t.Run("should write identical lock files on repeated runs", func(t *testing.T) {
		t.Parallel()

		// given
		root, stub := threeDepsProject(t)
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())
		settings := newSettings(root)
		settings.Jobs = 3
		lockPath := filepath.Join(root, "deps.lock.yaml")

		// when
		_, firstErr := cmd.Execute(context.Background(), settings, commands.LockOptions{})
		first, _ := os.ReadFile(lockPath)
		_, secondErr := cmd.Execute(context.Background(), settings, commands.LockOptions{})
		second, _ := os.ReadFile(lockPath)

		// then
		require.NoError(t, firstErr)
		require.NoError(t, secondErr)
		assert.Equal(t, string(first), string(second))
	})

	t.Run("should prefer the project's declaration over a dependency's", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeFile(t, root, "deps.yaml", "deps:\n  - name: beta\n    source:\n      url: from-root\n      tag: v2\n")
		writeFile(t, root, "deps/alpha/deps.yaml", "deps:\n  - name: beta\n    source:\n      url: from-alpha\n      tag: v1\n")
		mkdirs(t, root, "deps/beta")
		stub := &repositorydoubles.StubVersionControlRepository{
			Revisions: map[string]string{"alpha": "ra", "beta": "rb"},
		}
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())

		// when
		result, err := cmd.Execute(context.Background(), newSettings(root), commands.LockOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, result.Deps, 1)
		assert.Equal(t, "from-root", result.Deps[0].Source.URL)
	})

	t.Run("should collect declarations from sub directories", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeFile(t, root, "deps.yaml", "sub_dirs: [apps/api]\n")
		writeFile(t, root, "apps/api/deps.yaml", "deps:\n  - name: gamma\n    source:\n      url: ug\n      branch: main\n")
		mkdirs(t, root, "deps/gamma")
		stub := &repositorydoubles.StubVersionControlRepository{Revisions: map[string]string{"gamma": "rc"}}
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())

		// when
		result, err := cmd.Execute(context.Background(), newSettings(root), commands.LockOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, result.Deps, 1)
		assert.Equal(t, "gamma", result.Deps[0].Name)
		assert.Equal(t, "rc", result.Deps[0].Source.Ref)
	})

	t.Run("should read dependencies from the manifest's deps_dir", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeFile(t, root, "deps.yaml", "deps_dir: vendor\ndeps:\n  - name: beta\n    source:\n      url: ub\n")
		mkdirs(t, root, "vendor/beta", "deps/other")
		stub := &repositorydoubles.StubVersionControlRepository{Revisions: map[string]string{"beta": "rb"}}
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())

		// when
		result, err := cmd.Execute(context.Background(), newSettings(root), commands.LockOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"beta"}, depNames(result.Deps))
		assert.NotContains(t, stub.Calls, "revision other")
	})

	t.Run("should leave non-git sources unpinned", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeFile(t, root, "deps.yaml", "deps:\n  - name: local\n    version: \"0.1\"\n    source:\n      type: path\n      url: ../local\n")
		mkdirs(t, root, "deps/local")
		stub := &repositorydoubles.StubVersionControlRepository{Revisions: map[string]string{"local": "rl"}}
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())

		// when
		result, err := cmd.Execute(context.Background(), newSettings(root), commands.LockOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"local"}, result.Unpinned)
		lock := readLock(t, filepath.Join(root, "deps.lock.yaml"))
		require.Len(t, lock.Deps, 1)
		assert.Equal(t, "0.1", lock.Deps[0].Version)
		assert.Equal(t, "path", lock.Deps[0].Source.Type)
	})

	t.Run("should write to an explicit lock path", func(t *testing.T) {
		t.Parallel()

		// given
		root, stub := threeDepsProject(t)
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())
		lockPath := filepath.Join(root, "out", "pinned.yml")
		mkdirs(t, root, "out")

		// when
		_, err := cmd.Execute(context.Background(), newSettings(root), commands.LockOptions{LockPath: lockPath})

		// then
		require.NoError(t, err)
		assert.FileExists(t, lockPath)
		assert.NoFileExists(t, filepath.Join(root, "deps.lock.yaml"))
	})

	t.Run("should reject a lock path in another format", func(t *testing.T) {
		t.Parallel()

		// given
		root, stub := threeDepsProject(t)
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())

		// when
		_, err := cmd.Execute(context.Background(), newSettings(root), commands.LockOptions{
			LockPath: filepath.Join(root, "deps.lock.hcl"),
		})

		// then
		require.ErrorIs(t, err, entities.ErrUnsupportedManifest)
	})

	t.Run("should abort when a revision cannot be read", func(t *testing.T) {
		t.Parallel()

		// given
		root, stub := threeDepsProject(t)
		delete(stub.Revisions, "beta")
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())

		// when
		_, err := cmd.Execute(context.Background(), newSettings(root), commands.LockOptions{})

		// then
		require.ErrorIs(t, err, domainRepos.ErrRevisionUnavailable)
		assert.NoFileExists(t, filepath.Join(root, "deps.lock.yaml"))
	})

	t.Run("should reject invalid keep_first names before touching anything", func(t *testing.T) {
		t.Parallel()

		// given
		root, stub := threeDepsProject(t)
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())

		// when
		_, err := cmd.Execute(context.Background(), newSettings(root), commands.LockOptions{KeepFirst: []string{"a", "a"}})

		// then
		require.ErrorIs(t, err, entities.ErrDuplicatePriority)
		assert.Empty(t, stub.Calls)
	})

	t.Run("should fail on a missing manifest", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &repositorydoubles.StubVersionControlRepository{}
		cmd := commands.NewLockCommand(newVCSRegistry(stub), newManifestRegistry())

		// when
		_, err := cmd.Execute(context.Background(), newSettings(t.TempDir()), commands.LockOptions{})

		// then
		require.Error(t, err)
	})
}
