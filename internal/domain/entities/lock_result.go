package entities

// LockResult is the ordered locked dependency list plus the counts reported
// to the operator.
type LockResult struct {
	Deps     []DependencySpec
	Locked   int
	Ignored  int
	Unpinned []string
}

// MergeLock reconciles the version table with the declared specs.
//
// Ignored names come first, unmodified, in the policy's order. Every other
// table entry that has a declared spec follows, pinned to its revision, in
// table order. Entries without a declared spec are dropped. Declared specs
// whose source cannot be pinned keep their slot but are emitted unchanged.
func MergeLock(table []RevisionEntry, declared []DependencySpec, policy LockPolicy) LockResult {
	var result LockResult

	emitted := make(map[string]bool, len(policy.IgnoreNames))
	for _, name := range policy.IgnoreNames {
		if emitted[name] {
			continue
		}
		emitted[name] = true
		if spec, ok := FindSpec(declared, name); ok {
			result.Deps = append(result.Deps, spec)
			result.Ignored++
		}
	}

	for _, entry := range table {
		if policy.Ignores(entry.Name) {
			continue
		}
		spec, ok := FindSpec(declared, entry.Name)
		if !ok {
			continue
		}
		if !spec.Pinnable() {
			result.Deps = append(result.Deps, spec)
			result.Unpinned = append(result.Unpinned, spec.Name)
			continue
		}
		result.Deps = append(result.Deps, spec.Locked(entry.Revision))
		result.Locked++
	}

	return result
}
