package entities

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	// ErrInvalidIdentifier is returned for dependency names that cannot name a dependency.
	ErrInvalidIdentifier = errors.New("invalid dependency name")
	// ErrDuplicatePriority is returned when a name is listed twice in keep_first.
	ErrDuplicatePriority = errors.New("duplicate priority name")
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.+-]*$`)

// LockPolicy controls which dependencies are left unlocked and which are
// forced to the front of the lock file.
type LockPolicy struct {
	IgnoreNames   []string
	PriorityNames []string
}

// NewLockPolicy validates the operator-supplied names and builds a policy.
// Ignore names form a set: repeats collapse onto the first occurrence.
func NewLockPolicy(ignoreNames, priorityNames []string) (LockPolicy, error) {
	ignored := make([]string, 0, len(ignoreNames))
	for _, name := range ignoreNames {
		if err := ValidateIdentifier(name); err != nil {
			return LockPolicy{}, fmt.Errorf("ignore: %w", err)
		}
		if !slices.Contains(ignored, name) {
			ignored = append(ignored, name)
		}
	}

	seen := make(map[string]bool, len(priorityNames))
	for _, name := range priorityNames {
		if err := ValidateIdentifier(name); err != nil {
			return LockPolicy{}, fmt.Errorf("keep_first: %w", err)
		}
		if seen[name] {
			return LockPolicy{}, fmt.Errorf("keep_first: %w: %q", ErrDuplicatePriority, name)
		}
		seen[name] = true
	}

	return LockPolicy{
		IgnoreNames:   ignored,
		PriorityNames: append([]string(nil), priorityNames...),
	}, nil
}

// Ignores reports whether the policy passes the named dependency through unlocked.
func (it LockPolicy) Ignores(name string) bool {
	return slices.Contains(it.IgnoreNames, name)
}

// ValidateIdentifier rejects names that could not come from a manifest.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// ParseNameList splits a comma separated list of names, trimming blanks and
// dropping empty items.
func ParseNameList(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
