package repositories

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rios0rios0/deplock/internal/domain/entities"
	domainRepos "github.com/rios0rios0/deplock/internal/domain/repositories"
)

// ManifestRegistry maps manifest file extensions to their format.
type ManifestRegistry struct {
	byExtension map[string]domainRepos.ManifestRepository
}

// NewManifestRegistry creates an empty manifest registry.
func NewManifestRegistry() *ManifestRegistry {
	return &ManifestRegistry{
		byExtension: make(map[string]domainRepos.ManifestRepository),
	}
}

// Register adds a manifest format under every extension it handles.
func (r *ManifestRegistry) Register(m domainRepos.ManifestRepository) {
	for _, ext := range m.Extensions() {
		r.byExtension[strings.ToLower(ext)] = m
	}
}

// ForPath returns the manifest format handling the file at path.
func (r *ManifestRegistry) ForPath(path string) (domainRepos.ManifestRepository, error) {
	ext := strings.ToLower(filepath.Ext(path))
	m, ok := r.byExtension[ext]
	if !ok {
		return nil, fmt.Errorf(
			"%w: %q (supported: %s)",
			entities.ErrUnsupportedManifest, path, strings.Join(r.Extensions(), ", "),
		)
	}
	return m, nil
}

// Extensions returns the sorted list of registered extensions.
func (r *ManifestRegistry) Extensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
