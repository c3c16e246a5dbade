package commands

// VisitedPaths is an immutable chain of canonical directory paths from the root to the
// directory currently being built. Each branch extends its parent's chain, so siblings
// never observe each other's entries and no copying or locking is needed.
type VisitedPaths struct {
	path   string
	parent *VisitedPaths
}

// With returns a chain extended by path. The receiver is unchanged.
func (visited *VisitedPaths) With(path string) *VisitedPaths {
	return &VisitedPaths{path: path, parent: visited}
}

// Contains reports whether path appears anywhere on the chain.
func (visited *VisitedPaths) Contains(path string) bool {
	for current := visited; current != nil; current = current.parent {
		if current.path == path {
			return true
		}
	}
	return false
}

// Head returns the most recently added path, or "" for an empty chain.
func (visited *VisitedPaths) Head() string {
	if visited == nil {
		return ""
	}
	return visited.path
}
