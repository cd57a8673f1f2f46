package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/deplock/internal/domain/entities"
	"github.com/rios0rios0/deplock/internal/infrastructure/repositories/gitcli"
	"github.com/rios0rios0/deplock/internal/infrastructure/repositories/gogit"
	"github.com/rios0rios0/deplock/internal/infrastructure/repositories/hclmanifest"
	"github.com/rios0rios0/deplock/internal/infrastructure/repositories/yamlmanifest"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register backend registry with all version control factories
	if err := container.Provide(func() *VersionControlRegistry {
		reg := NewVersionControlRegistry()
		reg.Register(entities.BackendGit, gitcli.NewVersionControlRepository)
		reg.Register(entities.BackendGoGit, gogit.NewVersionControlRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register manifest registry with all manifest formats
	if err := container.Provide(func() *ManifestRegistry {
		reg := NewManifestRegistry()
		reg.Register(yamlmanifest.NewManifestRepository())
		reg.Register(hclmanifest.NewManifestRepository())
		return reg
	}); err != nil {
		return err
	}

	return nil
}
