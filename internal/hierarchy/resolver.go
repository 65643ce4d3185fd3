// Package hierarchy resolves relationships in the organizational tree:
// ancestor chains (for attribute inheritance), descendant sets (for
// "including sub-units" scope expansion), and inherited fields.
//
// A Resolver works on an in-memory snapshot of units. Traversals are
// bounded: a parent chain or subtree deeper than the configured limit, or
// one that revisits a node, fails with ErrCycleDetected instead of looping.
package hierarchy

import (
	"errors"
	"fmt"

	orgunitdomain "github.com/Staersistemi/jorvik/internal/orgunit/domain"
)

// ErrCycleDetected is returned when a traversal revisits a unit or exceeds
// the depth bound. The tree invariant forbids cycles, so this signals
// corrupted data (e.g. a bad re-parenting) rather than a caller mistake.
var ErrCycleDetected = errors.New("hierarchy: cycle detected in unit tree")

// ErrUnknownUnit is returned when a traversal starts from a unit id that is
// not in the snapshot.
var ErrUnknownUnit = errors.New("hierarchy: unknown unit")

// DefaultMaxDepth bounds traversals. The real tree is five levels deep
// (national down to territorial); anything past this is corrupt data.
const DefaultMaxDepth = 64

// Resolver answers ancestor/descendant/inheritance queries over a unit
// snapshot. Safe for concurrent use; the snapshot is never mutated.
type Resolver struct {
	units    map[string]*orgunitdomain.OrgUnit
	children map[string][]string
	maxDepth int
}

// NewResolver builds a resolver over the given units. maxDepth <= 0 selects
// DefaultMaxDepth.
func NewResolver(units []*orgunitdomain.OrgUnit, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	r := &Resolver{
		units:    make(map[string]*orgunitdomain.OrgUnit, len(units)),
		children: make(map[string][]string),
		maxDepth: maxDepth,
	}
	for _, u := range units {
		r.units[u.ID] = u
	}
	for _, u := range units {
		if u.ParentID != nil {
			r.children[*u.ParentID] = append(r.children[*u.ParentID], u.ID)
		}
	}
	return r
}

// Unit returns the unit with the given id, or nil if not in the snapshot.
func (r *Resolver) Unit(id string) *orgunitdomain.OrgUnit {
	return r.units[id]
}

// Ancestors returns the chain of units above id, nearest parent first,
// ending at the root. The unit itself is not included.
func (r *Resolver) Ancestors(id string) ([]*orgunitdomain.OrgUnit, error) {
	u, ok := r.units[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	var chain []*orgunitdomain.OrgUnit
	seen := map[string]bool{u.ID: true}
	for u.ParentID != nil {
		parent, ok := r.units[*u.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: parent %s of %s", ErrUnknownUnit, *u.ParentID, u.ID)
		}
		if seen[parent.ID] || len(chain) >= r.maxDepth {
			return nil, fmt.Errorf("%w: via %s", ErrCycleDetected, parent.ID)
		}
		seen[parent.ID] = true
		chain = append(chain, parent)
		u = parent
	}
	return chain, nil
}

// Descendants returns the full subtree under id, breadth-first. With
// includeSelf the unit itself is the first element.
func (r *Resolver) Descendants(id string, includeSelf bool) ([]*orgunitdomain.OrgUnit, error) {
	if _, ok := r.units[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	var out []*orgunitdomain.OrgUnit
	seen := map[string]bool{id: true}
	if includeSelf {
		out = append(out, r.units[id])
	}
	queue := append([]string(nil), r.children[id]...)
	for depth := 0; len(queue) > 0; depth++ {
		if depth >= r.maxDepth {
			return nil, fmt.Errorf("%w: under %s", ErrCycleDetected, id)
		}
		var next []string
		for _, cid := range queue {
			if seen[cid] {
				return nil, fmt.Errorf("%w: via %s", ErrCycleDetected, cid)
			}
			seen[cid] = true
			out = append(out, r.units[cid])
			next = append(next, r.children[cid]...)
		}
		queue = next
	}
	return out, nil
}

// DescendantIDs is Descendants projected onto ids; the common form for
// feeding scope expansion into store queries.
func (r *Resolver) DescendantIDs(id string, includeSelf bool) ([]string, error) {
	units, err := r.Descendants(id, includeSelf)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	return ids, nil
}

// InheritedField returns the first non-empty value of the named field
// walking from the unit itself up to the root, or "" if no unit on the
// chain has a value. An explicit empty string does not stop the walk.
func (r *Resolver) InheritedField(id, name string) (string, error) {
	u, ok := r.units[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}
	if v := u.Field(name); v != "" {
		return v, nil
	}
	chain, err := r.Ancestors(id)
	if err != nil {
		return "", err
	}
	for _, a := range chain {
		if v := a.Field(name); v != "" {
			return v, nil
		}
	}
	return "", nil
}

// ValidateAcyclic checks that every unit can reach the root without
// revisiting a node. Run after re-parenting, before the change is committed.
func (r *Resolver) ValidateAcyclic() error {
	for id := range r.units {
		if _, err := r.Ancestors(id); err != nil {
			return err
		}
	}
	return nil
}
