package walker

// Outcome is the result of rendering one row, ordered by severity
type Outcome int

const (
	// Unchanged means nothing in the row or its subtree was modified
	Unchanged Outcome = iota
	// Changed means a value or membership changed but the row's own path is
	// still valid
	Changed
	// Removed means the row's node no longer exists at its path or changed
	// shape, so nothing further may be rendered from it this pass
	Removed
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "Unchanged"
	case Changed:
		return "Changed"
	case Removed:
		return "Removed"
	default:
		return "Outcome(?)"
	}
}

// Max returns the more severe of o and other
func (o Outcome) Max(other Outcome) Outcome {
	if other > o {
		return other
	}
	return o
}

// AsChild converts a child's outcome into its contribution to the parent.
// A removed child is a membership change of the parent, never a removal.
func (o Outcome) AsChild() Outcome {
	if o > Changed {
		return Changed
	}
	return o
}
