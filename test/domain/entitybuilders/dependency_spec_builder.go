//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/deplock/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencySpecBuilder helps create test dependency specs with a fluent interface.
type DependencySpecBuilder struct {
	*testkit.BaseBuilder
	name       string
	version    string
	sourceType string
	url        string
	refKind    entities.RefKind
	ref        string
	options    *entities.Options
	extras     []entities.Extra
	srcExtras  []entities.Extra
}

// NewDependencySpecBuilder creates a new spec builder with sensible defaults.
func NewDependencySpecBuilder() *DependencySpecBuilder {
	return &DependencySpecBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-dependency",
		version:     "1.*",
		sourceType:  entities.SourceTypeGit,
		url:         "https://example.com/test-dependency.git",
		refKind:     entities.RefKindTag,
		ref:         "v1.0.0",
	}
}

// WithName sets the dependency name.
func (b *DependencySpecBuilder) WithName(name string) *DependencySpecBuilder {
	b.name = name
	return b
}

// WithVersion sets the version constraint.
func (b *DependencySpecBuilder) WithVersion(version string) *DependencySpecBuilder {
	b.version = version
	return b
}

// WithSourceType sets the source type.
func (b *DependencySpecBuilder) WithSourceType(sourceType string) *DependencySpecBuilder {
	b.sourceType = sourceType
	return b
}

// WithURL sets the source URL.
func (b *DependencySpecBuilder) WithURL(url string) *DependencySpecBuilder {
	b.url = url
	return b
}

// WithBranch references a branch.
func (b *DependencySpecBuilder) WithBranch(branch string) *DependencySpecBuilder {
	b.refKind = entities.RefKindBranch
	b.ref = branch
	return b
}

// WithTag references a tag.
func (b *DependencySpecBuilder) WithTag(tag string) *DependencySpecBuilder {
	b.refKind = entities.RefKindTag
	b.ref = tag
	return b
}

// WithRevision references a concrete revision.
func (b *DependencySpecBuilder) WithRevision(revision string) *DependencySpecBuilder {
	b.refKind = entities.RefKindRef
	b.ref = revision
	return b
}

// WithOptions sets the opaque source options.
func (b *DependencySpecBuilder) WithOptions(format, raw string) *DependencySpecBuilder {
	b.options = &entities.Options{Format: format, Raw: []byte(raw)}
	return b
}

// WithExtra adds an uninterpreted dependency key.
func (b *DependencySpecBuilder) WithExtra(key, format, raw string) *DependencySpecBuilder {
	b.extras = append(b.extras, entities.Extra{Key: key, Value: entities.Options{Format: format, Raw: []byte(raw)}})
	return b
}

// WithSourceExtra adds an uninterpreted source key.
func (b *DependencySpecBuilder) WithSourceExtra(key, format, raw string) *DependencySpecBuilder {
	b.srcExtras = append(b.srcExtras, entities.Extra{Key: key, Value: entities.Options{Format: format, Raw: []byte(raw)}})
	return b
}

// Build creates the spec (satisfies testkit.Builder interface).
func (b *DependencySpecBuilder) Build() interface{} {
	return b.BuildSpec()
}

// BuildSpec creates the spec with a concrete return type.
func (b *DependencySpecBuilder) BuildSpec() entities.DependencySpec {
	return entities.DependencySpec{
		Name:    b.name,
		Version: b.version,
		Source: entities.Source{
			Type:    b.sourceType,
			URL:     b.url,
			RefKind: b.refKind,
			Ref:     b.ref,
			Options: b.options,
			Extras:  b.srcExtras,
		},
		Extras: b.extras,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencySpecBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	fresh := NewDependencySpecBuilder()
	fresh.BaseBuilder = b.BaseBuilder
	*b = *fresh
	return b
}

// Clone creates a deep copy of the DependencySpecBuilder.
func (b *DependencySpecBuilder) Clone() testkit.Builder {
	clone := *b
	clone.extras = append([]entities.Extra(nil), b.extras...)
	clone.srcExtras = append([]entities.Extra(nil), b.srcExtras...)
	clone.BaseBuilder = b.BaseBuilder.Clone().(*testkit.BaseBuilder)
	return &clone
}
