package permission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Staersistemi/jorvik/internal/access"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandUnknownCapability(t *testing.T) {
	e := NewEngine(map[Capability]Rule{}, 0)
	_, err := e.Expand(context.Background(), CapManageUnit, nil, day(2024, 1, 1))
	if !errors.Is(err, ErrUnknownCapability) {
		t.Errorf("Expand = %v, want ErrUnknownCapability", err)
	}
}

func TestExpandEmptyRuleIsValid(t *testing.T) {
	e := NewEngine(map[Capability]Rule{CapManageOpsRoomPowers: emptyRule}, 0)
	grants, err := e.Expand(context.Background(), CapManageOpsRoomPowers, nil, day(2024, 1, 1))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(grants) != 0 {
		t.Errorf("placeholder rule should grant nothing, got %v", grants)
	}
}

func TestExpandComposition(t *testing.T) {
	// An outer rule composing an inner one, as manage-unit-activities
	// composes manage-activity.
	inner := func(ctx context.Context, ex Expander, scope []Ref, d time.Time) ([]Grant, error) {
		return []Grant{{Level: access.Read, Objects: scope}}, nil
	}
	outer := func(ctx context.Context, ex Expander, scope []Ref, d time.Time) ([]Grant, error) {
		grants := []Grant{{Level: access.Full, Objects: scope}}
		sub, err := ex.Expand(ctx, CapManageActivity, scope, d)
		if err != nil {
			return nil, err
		}
		return append(grants, sub...), nil
	}
	e := NewEngine(map[Capability]Rule{
		CapManageUnitActivities: outer,
		CapManageActivity:       inner,
	}, 0)

	scope := []Ref{{Kind: KindActivity, ID: "a1"}}
	grants, err := e.Expand(context.Background(), CapManageUnitActivities, scope, day(2024, 1, 1))
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(grants) != 2 {
		t.Fatalf("Expand returned %d grants, want 2", len(grants))
	}

	d := Decision{}
	d.Merge(grants)
	if got := d[Ref{Kind: KindActivity, ID: "a1"}]; got != access.Full {
		t.Errorf("merged level = %v, want Full (Full beats Read)", got)
	}
}

func TestExpandDepthGuard(t *testing.T) {
	// Two rules that compose each other forever.
	ping := func(ctx context.Context, ex Expander, scope []Ref, d time.Time) ([]Grant, error) {
		return ex.Expand(ctx, CapManageGroup, scope, d)
	}
	pong := func(ctx context.Context, ex Expander, scope []Ref, d time.Time) ([]Grant, error) {
		return ex.Expand(ctx, CapManageUnitGroups, scope, d)
	}
	e := NewEngine(map[Capability]Rule{
		CapManageUnitGroups: ping,
		CapManageGroup:      pong,
	}, 0)

	_, err := e.Expand(context.Background(), CapManageUnitGroups, nil, day(2024, 1, 1))
	if !errors.Is(err, ErrExpandDepthExceeded) {
		t.Errorf("Expand on a rule cycle = %v, want ErrExpandDepthExceeded", err)
	}
}

func TestExpandPropagatesStoreFailure(t *testing.T) {
	storeErr := errors.New("store: connection reset")
	failing := func(ctx context.Context, ex Expander, scope []Ref, d time.Time) ([]Grant, error) {
		return nil, storeErr
	}
	e := NewEngine(map[Capability]Rule{CapManageMembers: failing}, 0)
	_, err := e.Expand(context.Background(), CapManageMembers, nil, day(2024, 1, 1))
	if !errors.Is(err, storeErr) {
		t.Errorf("Expand = %v, want the store error unchanged", err)
	}
}

func TestDecisionMergeOrderIndependent(t *testing.T) {
	obj := Ref{Kind: KindPerson, ID: "p1"}
	other := Ref{Kind: KindPerson, ID: "p2"}
	grantSets := [][]Grant{
		{{Level: access.Read, Objects: []Ref{obj, other}}},
		{{Level: access.Modify, Objects: []Ref{obj}}},
		{{Level: access.Read, Objects: []Ref{other}}},
	}

	merge := func(order []int) Decision {
		d := Decision{}
		for _, i := range order {
			d.Merge(grantSets[i])
		}
		return d
	}

	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {0, 2, 1}}
	want := merge(orders[0])
	for _, order := range orders[1:] {
		got := merge(order)
		if len(got) != len(want) {
			t.Fatalf("order %v produced %d entries, want %d", order, len(got), len(want))
		}
		for ref, level := range want {
			if got[ref] != level {
				t.Errorf("order %v: %v = %v, want %v", order, ref, got[ref], level)
			}
		}
	}

	if want[obj] != access.Modify {
		t.Errorf("merged level for %v = %v, want Modify", obj, want[obj])
	}
	if !want.Allows(other, access.Read) || want.Allows(other, access.Modify) {
		t.Errorf("decision for %v = %v, want exactly Read", other, want[other])
	}
}

func TestDecisionRefsSorted(t *testing.T) {
	d := Decision{
		{Kind: KindPerson, ID: "b"}:  access.Read,
		{Kind: KindPerson, ID: "a"}:  access.Read,
		{Kind: KindOrgUnit, ID: "z"}: access.Full,
	}
	refs := d.Refs()
	if len(refs) != 3 || refs[0].Kind != KindOrgUnit || refs[1].ID != "a" || refs[2].ID != "b" {
		t.Errorf("Refs = %v, want sorted by kind then id", refs)
	}
}
