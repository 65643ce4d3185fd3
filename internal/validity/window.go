// Package validity models the validity window of time-bounded records
// (memberships, delegations, vehicle placements) and the "active as of a
// date" predicate over it.
//
// There is exactly one definition of "active": Predicate.Matches. The
// single-record check (Window.ActiveOn), the bulk filter (Predicate.Filter)
// and the SQL rendering (Predicate.SQL) are all derived from it, so the
// boolean form and the set form cannot drift apart.
package validity

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWindow is returned by Validate when the end date precedes the
// start date. Writes that would create such a window must be rejected; a
// stored window is assumed valid.
var ErrInvalidWindow = errors.New("validity: end date precedes start date")

// Window is a validity interval. End == nil means open-ended.
type Window struct {
	Start time.Time
	End   *time.Time
}

// Open returns an open-ended window starting at start.
func Open(start time.Time) Window {
	return Window{Start: start}
}

// Between returns a window spanning start to end, both inclusive.
func Between(start, end time.Time) Window {
	return Window{Start: start, End: &end}
}

// Validate checks the window invariant (end, when set, is not before start).
func (w Window) Validate() error {
	if w.Start.IsZero() {
		return errors.New("validity: start date is required")
	}
	if w.End != nil && w.End.Before(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// ActiveOn reports whether the window contains day. Both boundaries are
// inclusive. Derived from On(day).Matches.
func (w Window) ActiveOn(day time.Time) bool {
	return On(day).Matches(w)
}

// Predicate decides whether a window is active as of a fixed reference day.
// Build one with On and reuse it for a whole bulk filter so every record is
// judged against the same day.
type Predicate struct {
	day time.Time
}

// On returns the active-as-of predicate for day.
func On(day time.Time) Predicate {
	return Predicate{day: truncate(day)}
}

// Day returns the reference day the predicate was built for.
func (p Predicate) Day() time.Time {
	return p.day
}

// Matches is the canonical definition of "active": the day is on or after
// the start, and the end is either unset or on or after the day.
func (p Predicate) Matches(w Window) bool {
	start := truncate(w.Start)
	if p.day.Before(start) {
		return false
	}
	if w.End == nil {
		return true
	}
	return !truncate(*w.End).Before(p.day)
}

// Filter returns the subset of windows matching the predicate, in input
// order. Convenience for in-memory stores and tests.
func (p Predicate) Filter(ws []Window) []Window {
	var out []Window
	for _, w := range ws {
		if p.Matches(w) {
			out = append(out, w)
		}
	}
	return out
}

// SQL renders the predicate as a SQL fragment over the conventional
// start_date/end_date columns of the given table alias, using a single
// positional argument for the reference day. arg is the 1-based index the
// caller will bind the day at.
//
// The rendered condition mirrors Matches term by term: start on or before
// the day, end unset or on or after the day.
func (p Predicate) SQL(alias string, arg int) string {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	return fmt.Sprintf("%[1]sstart_date <= $%[2]d AND (%[1]send_date IS NULL OR %[1]send_date >= $%[2]d)", prefix, arg)
}

// truncate drops the time-of-day component; validity is day-granular.
func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
