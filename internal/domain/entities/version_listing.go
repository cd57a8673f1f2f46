package entities

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// VersionListing describes the checkout of one dependency directory.
type VersionListing struct {
	Name     string `json:"name"`
	Revision string `json:"revision"`
	Tag      string `json:"tag,omitempty"`
}

// PreferredTag picks the tag to display for a revision: the highest semantic
// version, "v" prefix optional, or the lexically first tag when none is a
// semantic version.
func PreferredTag(tags []string) string {
	best := ""
	for _, tag := range tags {
		canonical := canonicalVersion(tag)
		if !semver.IsValid(canonical) {
			continue
		}
		if best == "" || semver.Compare(canonical, canonicalVersion(best)) > 0 {
			best = tag
		}
	}
	if best != "" || len(tags) == 0 {
		return best
	}

	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	return sorted[0]
}

func canonicalVersion(tag string) string {
	if strings.HasPrefix(tag, "v") {
		return tag
	}
	return "v" + tag
}
