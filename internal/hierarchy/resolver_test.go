package hierarchy

import (
	"errors"
	"testing"

	orgunitdomain "github.com/Staersistemi/jorvik/internal/orgunit/domain"
)

func unit(id, name string, parentID *string) *orgunitdomain.OrgUnit {
	return &orgunitdomain.OrgUnit{ID: id, Name: name, Kind: orgunitdomain.KindLocal, ParentID: parentID}
}

func ptr(s string) *string { return &s }

// threeLevels builds the chain A -> B -> C plus a sibling of C under B.
func threeLevels() *Resolver {
	a := unit("A", "National", nil)
	a.Kind = orgunitdomain.KindNational
	a.TaxCode = "123"
	b := unit("B", "Regional", ptr("A"))
	b.Kind = orgunitdomain.KindRegional
	c := unit("C", "Local", ptr("B"))
	d := unit("D", "Local 2", ptr("B"))
	return NewResolver([]*orgunitdomain.OrgUnit{a, b, c, d}, 0)
}

func ids(units []*orgunitdomain.OrgUnit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.ID
	}
	return out
}

func TestAncestors(t *testing.T) {
	r := threeLevels()
	chain, err := r.Ancestors("C")
	if err != nil {
		t.Fatalf("Ancestors: %v", err)
	}
	got := ids(chain)
	if len(got) != 2 || got[0] != "B" || got[1] != "A" {
		t.Errorf("Ancestors(C) = %v, want [B A]", got)
	}

	chain, err = r.Ancestors("A")
	if err != nil || len(chain) != 0 {
		t.Errorf("Ancestors(root) = %v, %v, want empty", ids(chain), err)
	}
}

func TestDescendants(t *testing.T) {
	r := threeLevels()

	got, err := r.DescendantIDs("A", true)
	if err != nil {
		t.Fatalf("DescendantIDs: %v", err)
	}
	want := map[string]bool{"A": true, "B": true, "C": true, "D": true}
	if len(got) != len(want) {
		t.Fatalf("DescendantIDs(A, true) = %v, want %v", got, want)
	}
	if got[0] != "A" {
		t.Errorf("includeSelf should put the unit first, got %v", got)
	}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected descendant %s", id)
		}
	}

	got, err = r.DescendantIDs("B", true)
	if err != nil || len(got) != 3 {
		t.Errorf("DescendantIDs(B, true) = %v, %v, want {B C D}", got, err)
	}

	got, err = r.DescendantIDs("C", false)
	if err != nil || len(got) != 0 {
		t.Errorf("DescendantIDs(leaf, false) = %v, %v, want empty", got, err)
	}
}

func TestAncestorsCycleDetected(t *testing.T) {
	// A and B point at each other; the tree invariant is broken.
	a := unit("A", "A", ptr("B"))
	b := unit("B", "B", ptr("A"))
	r := NewResolver([]*orgunitdomain.OrgUnit{a, b}, 0)

	if _, err := r.Ancestors("A"); !errors.Is(err, ErrCycleDetected) {
		t.Errorf("Ancestors on a cycle = %v, want ErrCycleDetected", err)
	}
	if err := r.ValidateAcyclic(); !errors.Is(err, ErrCycleDetected) {
		t.Errorf("ValidateAcyclic = %v, want ErrCycleDetected", err)
	}

	if err := threeLevels().ValidateAcyclic(); err != nil {
		t.Errorf("ValidateAcyclic on a proper tree = %v, want nil", err)
	}
}

func TestUnknownUnit(t *testing.T) {
	r := threeLevels()
	if _, err := r.Ancestors("nope"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("Ancestors(unknown) = %v, want ErrUnknownUnit", err)
	}
	if _, err := r.Descendants("nope", true); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("Descendants(unknown) = %v, want ErrUnknownUnit", err)
	}
}

func TestInheritedField(t *testing.T) {
	r := threeLevels()

	// C has no tax code, B has none, A has "123".
	got, err := r.InheritedField("C", orgunitdomain.FieldTaxCode)
	if err != nil || got != "123" {
		t.Errorf("InheritedField(C, tax_code) = %q, %v, want \"123\"", got, err)
	}

	// A unit's own value wins over the ancestors'.
	own := unit("E", "Own", ptr("A"))
	own.TaxCode = "456"
	r2 := NewResolver([]*orgunitdomain.OrgUnit{r.Unit("A"), own}, 0)
	got, err = r2.InheritedField("E", orgunitdomain.FieldTaxCode)
	if err != nil || got != "456" {
		t.Errorf("InheritedField with own value = %q, %v, want \"456\"", got, err)
	}

	// Nothing anywhere on the chain: empty, no error.
	got, err = r.InheritedField("C", orgunitdomain.FieldVATNumber)
	if err != nil || got != "" {
		t.Errorf("InheritedField with no value = %q, %v, want \"\"", got, err)
	}
}
