package permission

import (
	"sort"

	"github.com/Staersistemi/jorvik/internal/access"
)

// ObjectKind identifies the entity type a grant applies to.
type ObjectKind string

const (
	KindPerson     ObjectKind = "person"
	KindOrgUnit    ObjectKind = "org_unit"
	KindMembership ObjectKind = "membership"
	KindActivity   ObjectKind = "activity"
	KindArea       ObjectKind = "area"
	KindCourse     ObjectKind = "course"
	KindGroup      ObjectKind = "group"
	KindDepot      ObjectKind = "depot"
	KindVehicle    ObjectKind = "vehicle"
	KindPlacement  ObjectKind = "placement"
	KindDelegation ObjectKind = "delegation"
)

// Ref identifies one authorized object.
type Ref struct {
	Kind ObjectKind
	ID   string
}

// Refs builds a slice of refs of one kind from ids. Convenience for rules.
func Refs(kind ObjectKind, ids []string) []Ref {
	out := make([]Ref, len(ids))
	for i, id := range ids {
		out[i] = Ref{Kind: kind, ID: id}
	}
	return out
}

// Grant pairs an access level with the set of objects it covers. A rule
// returns zero or more grants.
type Grant struct {
	Level   access.Level
	Objects []Ref
}

// Decision is the merged outcome of expansion: the effective access level
// per object. Merging keeps the maximum level, so folding grants in any
// order yields the same decision.
type Decision map[Ref]access.Level

// Merge folds the grants into the decision.
func (d Decision) Merge(grants []Grant) {
	for _, g := range grants {
		for _, ref := range g.Objects {
			if cur, ok := d[ref]; ok {
				d[ref] = access.Merge(cur, g.Level)
			} else {
				d[ref] = g.Level
			}
		}
	}
}

// Allows reports whether the decision covers level on ref.
func (d Decision) Allows(ref Ref, level access.Level) bool {
	return d[ref].Covers(level)
}

// Refs returns the decided objects sorted by kind then id, for stable
// output.
func (d Decision) Refs() []Ref {
	out := make([]Ref, 0, len(d))
	for ref := range d {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out
}
