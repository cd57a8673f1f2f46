package repositories

import (
	"github.com/rios0rios0/deplock/internal/domain/entities"
)

// ManifestRepository reads and writes one manifest file format.
// Each implementation owns the encoding of terms and of the dependency list.
type ManifestRepository interface {
	// Format returns the format identifier (e.g. "yaml", "hcl").
	Format() string

	// Extensions returns the file extensions handled by this format, dot included.
	Extensions() []string

	// Read parses the manifest at path.
	Read(path string) (*entities.Manifest, error)

	// Write renders manifest to path with its dependency list replaced by deps,
	// prefixed by the generated-file header.
	Write(path string, manifest *entities.Manifest, deps []entities.DependencySpec) error
}
