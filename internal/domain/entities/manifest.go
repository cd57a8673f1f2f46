package entities

import (
	"errors"
	"path/filepath"
	"strings"
)

const (
	// DepsKey is the top-level manifest key holding the dependency list.
	DepsKey = "deps"
	// DepsDirKey overrides the dependencies root.
	DepsDirKey = "deps_dir"
	// SubDirsKey lists sub-project directories whose manifests are collected too.
	SubDirsKey = "sub_dirs"

	// GeneratedHeader prefixes every lock file written by deplock.
	GeneratedHeader = "# THIS FILE IS GENERATED. DO NOT EDIT IT MANUALLY #"
)

var (
	// ErrUnsupportedManifest is returned for manifest files no codec can handle.
	ErrUnsupportedManifest = errors.New("unsupported manifest format")
	// ErrManifestMalformed is returned when a manifest does not follow the expected schema.
	ErrManifestMalformed = errors.New("malformed manifest")
)

// Term is a top-level manifest entry. Raw holds its verbatim encoding,
// key included, in the manifest's own format.
type Term struct {
	Key string
	Raw []byte
}

// Manifest is a parsed manifest file.
type Manifest struct {
	Path    string
	Format  string
	Terms   []Term
	Deps    []DependencySpec
	HasDeps bool
	DepsDir string
	SubDirs []string
}

// LockPath derives the default lock file path: "deps.yaml" becomes
// "deps.lock.yaml".
func LockPath(manifestPath string) string {
	ext := filepath.Ext(manifestPath)
	return strings.TrimSuffix(manifestPath, ext) + ".lock" + ext
}
