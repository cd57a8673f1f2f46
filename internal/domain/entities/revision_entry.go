package entities

import (
	"slices"
	"strings"
)

// RevisionEntry pairs a dependency name with the revision checked out on disk.
type RevisionEntry struct {
	Name     string
	Revision string
}

// BuildVersionTable orders the scanned entries: the priority names first, in
// the order given, followed by every other entry sorted by name.
//
// Priority names missing from the scan are skipped without a placeholder.
// A priority name is resolved against the first scanned entry carrying it.
func BuildVersionTable(scanned []RevisionEntry, priorityNames []string) []RevisionEntry {
	table := make([]RevisionEntry, 0, len(scanned))
	for _, name := range priorityNames {
		if entry, ok := findEntry(scanned, name); ok {
			table = append(table, entry)
		}
	}

	rest := make([]RevisionEntry, 0, len(scanned))
	for _, entry := range scanned {
		if !slices.Contains(priorityNames, entry.Name) {
			rest = append(rest, entry)
		}
	}
	slices.SortStableFunc(rest, func(a, b RevisionEntry) int {
		return strings.Compare(a.Name, b.Name)
	})

	return append(table, rest...)
}

func findEntry(entries []RevisionEntry, name string) (RevisionEntry, bool) {
	for _, entry := range entries {
		if entry.Name == name {
			return entry, true
		}
	}
	return RevisionEntry{}, false
}
