package models

// Declaration is the capability shared by context and service declarations.
type Declaration interface {
	Identity() ServiceID
	Ranking() int
	// TargetFilter is the optional predicate over the runtime identity. Empty
	// means the declaration addresses every runtime.
	TargetFilter() string
	Validate() error
	// Describe names the declaration kind for logs and reports.
	Describe() string
}

// Compare orders declarations by rank descending, then identity ascending.
// Synthetic (negative) ids sort before positive ids; among themselves the
// smaller magnitude wins. Returns 0 only for identical identities.
func Compare(a, b Declaration) int {
	if ra, rb := a.Ranking(), b.Ranking(); ra != rb {
		if ra > rb {
			return -1
		}
		return 1
	}
	return compareIDs(a.Identity(), b.Identity())
}

// Less reports whether a sorts before b under Compare.
func Less(a, b Declaration) bool {
	return Compare(a, b) < 0
}

func compareIDs(a, b ServiceID) int {
	if a == b {
		return 0
	}
	switch {
	case a < 0 && b < 0:
		// -1 is older than -2
		return cmpInt(-a, -b)
	case a < 0:
		return -1
	case b < 0:
		return 1
	default:
		return cmpInt(a, b)
	}
}

func cmpInt(a, b ServiceID) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
