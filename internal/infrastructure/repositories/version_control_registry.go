package repositories

import (
	"fmt"
	"sort"
	"strings"
	"time"

	domainRepos "github.com/rios0rios0/deplock/internal/domain/repositories"
)

// VersionControlFactory creates a backend bounded by the given per-call timeout.
type VersionControlFactory func(timeout time.Duration) domainRepos.VersionControlRepository

// VersionControlRegistry manages all registered version-control backends.
type VersionControlRegistry struct {
	backends map[string]VersionControlFactory
}

// NewVersionControlRegistry creates an empty backend registry.
func NewVersionControlRegistry() *VersionControlRegistry {
	return &VersionControlRegistry{
		backends: make(map[string]VersionControlFactory),
	}
}

// Register adds a backend factory under the given name (e.g. "git").
func (r *VersionControlRegistry) Register(name string, factory VersionControlFactory) {
	r.backends[name] = factory
}

// Get returns a configured backend for the given name and timeout.
func (r *VersionControlRegistry) Get(name string, timeout time.Duration) (domainRepos.VersionControlRepository, error) {
	factory, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf(
			"unknown version control backend %q (available: %s)",
			name, strings.Join(r.Names(), ", "),
		)
	}
	return factory(timeout), nil
}

// Names returns the sorted list of registered backend names.
func (r *VersionControlRegistry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
