// Package access defines the access levels a grant can carry and the order
// between them. Levels form a total order (Read < Modify < Full); when the
// same object is reachable through several grants, the effective level is
// the maximum.
package access

import "fmt"

// Level is the access level of a grant.
type Level int

const (
	// Read allows viewing an object.
	Read Level = iota + 1
	// Modify allows viewing and editing an object.
	Modify
	// Full allows viewing, editing and administrative control, delegation
	// included.
	Full
)

// Merge returns the stronger of a and b. Commutative and associative, so
// grants can be folded in any order.
func Merge(a, b Level) Level {
	if a > b {
		return a
	}
	return b
}

// Covers reports whether holding a satisfies a requirement of b.
func (a Level) Covers(b Level) bool {
	return a >= b
}

func (a Level) String() string {
	switch a {
	case Read:
		return "read"
	case Modify:
		return "modify"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("access.Level(%d)", int(a))
	}
}

// Parse returns the level named by s, as produced by String.
func Parse(s string) (Level, error) {
	switch s {
	case "read":
		return Read, nil
	case "modify":
		return Modify, nil
	case "full":
		return Full, nil
	default:
		return 0, fmt.Errorf("access: unknown level %q", s)
	}
}
