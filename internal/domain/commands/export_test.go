package commands

// FindManifest exports findManifest for testing.
var FindManifest = findManifest //nolint:gochecknoglobals // test export
