package authz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Staersistemi/jorvik/internal/access"
	delegationdomain "github.com/Staersistemi/jorvik/internal/delegation/domain"
	"github.com/Staersistemi/jorvik/internal/permission"
	"github.com/Staersistemi/jorvik/internal/validity"
)

type memDelegations struct {
	byPerson map[string][]*delegationdomain.Delegation
	err      error
}

func (m *memDelegations) CurrentByPerson(ctx context.Context, personID string, day time.Time) ([]*delegationdomain.Delegation, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*delegationdomain.Delegation
	for _, d := range m.byPerson[personID] {
		if d.ActiveOn(day) {
			out = append(out, d)
		}
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// unitScopedRule grants the given level on the scoped units.
func unitScopedRule(level access.Level) permission.Rule {
	return func(ctx context.Context, ex permission.Expander, scope []permission.Ref, d time.Time) ([]permission.Grant, error) {
		return []permission.Grant{{Level: level, Objects: scope}}, nil
	}
}

func testService(t *testing.T, delegations DelegationSource) *Service {
	t.Helper()
	engine := permission.NewEngine(map[permission.Capability]permission.Rule{
		permission.CapManageUnit:    unitScopedRule(access.Full),
		permission.CapMemberRosters: unitScopedRule(access.Read),
		permission.CapManageMembers: unitScopedRule(access.Modify),
	}, 0)
	s, err := NewService(delegations, engine)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

func delegationFor(personID string, capability permission.Capability, unitID string, w validity.Window) *delegationdomain.Delegation {
	return &delegationdomain.Delegation{
		ID:         "d-" + string(capability),
		PersonID:   personID,
		Capability: capability,
		Target:     delegationdomain.Target{Kind: permission.KindOrgUnit, ID: unitID},
		Window:     w,
	}
}

func TestAuthorizedObjectsMergesDelegations(t *testing.T) {
	open := validity.Open(day(2020, 1, 1))
	src := &memDelegations{byPerson: map[string][]*delegationdomain.Delegation{
		"p1": {
			delegationFor("p1", permission.CapMemberRosters, "u1", open),
			delegationFor("p1", permission.CapManageMembers, "u1", open),
		},
	}}
	s := testService(t, src)

	decision, err := s.AuthorizedObjects(context.Background(), "p1", day(2024, 6, 1))
	if err != nil {
		t.Fatalf("AuthorizedObjects: %v", err)
	}
	ref := permission.Ref{Kind: permission.KindOrgUnit, ID: "u1"}
	if len(decision) != 1 {
		t.Fatalf("decision has %d objects, want 1 merged entry", len(decision))
	}
	if got := decision[ref]; got != access.Modify {
		t.Errorf("merged level = %v, want Modify (Read+Modify on the same object)", got)
	}
}

func TestAuthorizedObjectsIgnoresExpiredDelegations(t *testing.T) {
	ended := validity.Between(day(2020, 1, 1), day(2021, 1, 1))
	src := &memDelegations{byPerson: map[string][]*delegationdomain.Delegation{
		"p1": {delegationFor("p1", permission.CapManageUnit, "u1", ended)},
	}}
	s := testService(t, src)

	decision, err := s.AuthorizedObjects(context.Background(), "p1", day(2024, 6, 1))
	if err != nil {
		t.Fatalf("AuthorizedObjects: %v", err)
	}
	if len(decision) != 0 {
		t.Errorf("expired delegation produced %d objects, want none", len(decision))
	}
}

func TestAuthorizedObjectsUnknownCapability(t *testing.T) {
	src := &memDelegations{byPerson: map[string][]*delegationdomain.Delegation{
		"p1": {delegationFor("p1", permission.CapManageOpsRoom, "u1", validity.Open(day(2020, 1, 1)))},
	}}
	s := testService(t, src)

	_, err := s.AuthorizedObjects(context.Background(), "p1", day(2024, 6, 1))
	if !errors.Is(err, permission.ErrUnknownCapability) {
		t.Errorf("AuthorizedObjects = %v, want ErrUnknownCapability", err)
	}
}

func TestAuthorizedObjectsPropagatesStoreFailure(t *testing.T) {
	src := &memDelegations{err: errors.New("db down")}
	s := testService(t, src)
	if _, err := s.AuthorizedObjects(context.Background(), "p1", day(2024, 6, 1)); err == nil {
		t.Error("AuthorizedObjects should fail when the delegation store fails")
	}
}

func TestCan(t *testing.T) {
	open := validity.Open(day(2020, 1, 1))
	src := &memDelegations{byPerson: map[string][]*delegationdomain.Delegation{
		"p1": {delegationFor("p1", permission.CapManageMembers, "u1", open)},
	}}
	s := testService(t, src)

	ref := permission.Ref{Kind: permission.KindOrgUnit, ID: "u1"}
	cases := []struct {
		name  string
		level access.Level
		want  bool
	}{
		{"covered lower level", access.Read, true},
		{"exact level", access.Modify, true},
		{"above granted level", access.Full, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Can(context.Background(), "p1", ref, tc.level, day(2024, 6, 1))
			if err != nil {
				t.Fatalf("Can: %v", err)
			}
			if got != tc.want {
				t.Errorf("Can(%v) = %v, want %v", tc.level, got, tc.want)
			}
		})
	}

	other := permission.Ref{Kind: permission.KindOrgUnit, ID: "u2"}
	got, err := s.Can(context.Background(), "p1", other, access.Read, day(2024, 6, 1))
	if err != nil {
		t.Fatalf("Can: %v", err)
	}
	if got {
		t.Error("Can on an unrelated object should be false")
	}
}
