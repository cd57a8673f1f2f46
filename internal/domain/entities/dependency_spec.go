package entities

// SourceTypeGit is the only source type that can be pinned to a revision.
const SourceTypeGit = "git"

// AnyVersion replaces the version constraint of every locked spec.
const AnyVersion = ".*"

// RefKind tells how a git source reference should be interpreted.
type RefKind string

const (
	RefKindBranch RefKind = "branch"
	RefKindTag    RefKind = "tag"
	RefKindRef    RefKind = "ref" // concrete revision
)

// Options is an opaque payload attached to a source. Raw holds the verbatim
// encoding in the syntax of the manifest format that produced it.
type Options struct {
	Format string
	Raw    []byte
}

// Extra is a manifest key deplock does not interpret. Its value is carried
// as an opaque payload and written back after the known keys.
type Extra struct {
	Key   string
	Value Options
}

// Source describes where a dependency comes from.
type Source struct {
	Type    string
	URL     string
	RefKind RefKind
	Ref     string
	Options *Options
	Extras  []Extra
}

// DependencySpec is a named dependency entry as declared in a manifest.
type DependencySpec struct {
	Name    string
	Version string
	Source  Source
	Extras  []Extra
}

// Pinnable reports whether the spec can be locked to a revision.
func (it DependencySpec) Pinnable() bool {
	return it.Source.Type == SourceTypeGit
}

// Locked returns a copy of the spec pinned to the given revision. The
// options payload and extras are shared, never rewritten.
func (it DependencySpec) Locked(revision string) DependencySpec {
	locked := it
	locked.Version = AnyVersion
	locked.Source.RefKind = RefKindRef
	locked.Source.Ref = revision
	return locked
}

// PinnedRevision returns the concrete revision of a git spec, if it has one.
func (it DependencySpec) PinnedRevision() (string, bool) {
	if !it.Pinnable() || it.Source.RefKind != RefKindRef || it.Source.Ref == "" {
		return "", false
	}
	return it.Source.Ref, true
}

// FindSpec returns the first spec with the given name.
func FindSpec(specs []DependencySpec, name string) (DependencySpec, bool) {
	for _, spec := range specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return DependencySpec{}, false
}
