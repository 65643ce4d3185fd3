package permission

import (
	"context"
	"time"

	"github.com/Staersistemi/jorvik/internal/access"
	membershipdomain "github.com/Staersistemi/jorvik/internal/membership/domain"
	membershiprepo "github.com/Staersistemi/jorvik/internal/membership/repository"
)

// UnitExpander expands unit ids to their subtrees for rules whose scope is
// "the unit including sub-units".
type UnitExpander interface {
	DescendantIDs(ctx context.Context, ids []string, includeSelf bool) ([]string, error)
}

// MembershipSource is the membership store as needed by the rules.
type MembershipSource interface {
	CurrentPersonIDs(ctx context.Context, unitIDs []string, day time.Time, f membershiprepo.Filter) ([]string, error)
	PendingPersonIDs(ctx context.Context, unitIDs []string) ([]string, error)
	CurrentIDs(ctx context.Context, unitIDs []string, day time.Time, f membershiprepo.Filter) ([]string, error)
}

// ActivitySource is the activity store as needed by the rules.
type ActivitySource interface {
	IDsByUnits(ctx context.Context, unitIDs []string) ([]string, error)
	IDsByAreas(ctx context.Context, areaIDs []string) ([]string, error)
	AreaIDsByUnits(ctx context.Context, unitIDs []string) ([]string, error)
	ParticipantPersonIDs(ctx context.Context, activityIDs []string) ([]string, error)
}

// CourseSource is the course store as needed by the rules.
type CourseSource interface {
	IDsByUnits(ctx context.Context, unitIDs []string) ([]string, error)
	EnrolleePersonIDs(ctx context.Context, courseIDs []string, aspirantsOnly bool) ([]string, error)
}

// GroupSource is the group store as needed by the rules.
type GroupSource interface {
	IDsByUnits(ctx context.Context, unitIDs []string) ([]string, error)
	CurrentMemberPersonIDs(ctx context.Context, groupIDs []string, day time.Time) ([]string, error)
}

// FleetSource is the fleet store as needed by the rules.
type FleetSource interface {
	DepotIDsByUnits(ctx context.Context, unitIDs []string) ([]string, error)
	VehicleIDsPlacedIn(ctx context.Context, depotIDs []string, day time.Time) ([]string, error)
	CurrentPlacementIDs(ctx context.Context, depotIDs []string, day time.Time) ([]string, error)
}

// PersonalRecordSource resolves a person's own records for the
// personal-records capability.
type PersonalRecordSource interface {
	MembershipIDsByPerson(ctx context.Context, personID string) ([]string, error)
	DelegationIDsByPerson(ctx context.Context, personID string) ([]string, error)
}

// Stores bundles every store the default rule table reads from.
type Stores struct {
	Units       UnitExpander
	Memberships MembershipSource
	Activities  ActivitySource
	Courses     CourseSource
	Groups      GroupSource
	Fleet       FleetSource
	Personal    PersonalRecordSource
}

// DefaultRules builds the complete capability table over the given stores.
// Registered once at process start; the engine copies it and the table is
// read-only afterwards.
func DefaultRules(s Stores) map[Capability]Rule {
	return map[Capability]Rule{
		CapManageMembers:           s.manageMembers,
		CapMemberRosters:           s.memberRosters,
		CapIssueMemberCards:        s.issueMemberCards,
		CapManageUnit:              manageUnit,
		CapManageUnitAreas:         s.manageUnitAreas,
		CapManageUnitActivities:    s.manageUnitActivities,
		CapManageAreaActivities:    s.manageAreaActivities,
		CapManageActivityReferents: emptyRule,
		CapManageActivity:          s.manageActivity,
		CapManageUnitCourses:       s.manageUnitCourses,
		CapManageCourse:            s.manageCourse,
		CapManageUnitFleets:        s.manageUnitFleets,
		CapManageGroup:             s.manageGroup,
		CapManageUnitGroups:        s.manageUnitGroups,
		CapManageOpsRoom:           s.manageOpsRoom,
		CapManageOpsRoomPowers:     emptyRule,
		CapPersonalRecords:         s.personalRecords,
	}
}

// scopeIDs extracts the ids of refs of the given kind. Refs of other kinds
// are ignored: a delegation targeting the wrong entity type contributes
// nothing rather than failing the whole expansion.
func scopeIDs(scope []Ref, kind ObjectKind) []string {
	var ids []string
	for _, ref := range scope {
		if ref.Kind == kind {
			ids = append(ids, ref.ID)
		}
	}
	return ids
}

// emptyRule is the expansion of placeholder capabilities: valid, grants
// nothing.
func emptyRule(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	return nil, nil
}

// manageMembers grants modify over the unit's own (normal-scope) current
// members and read over members extended from elsewhere.
func (s Stores) manageMembers(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	units := scopeIDs(scope, KindOrgUnit)
	normal, err := s.Memberships.CurrentPersonIDs(ctx, units, day,
		membershiprepo.Filter{ScopeKinds: []membershipdomain.ScopeKind{membershipdomain.ScopeNormal}})
	if err != nil {
		return nil, err
	}
	extended, err := s.Memberships.CurrentPersonIDs(ctx, units, day,
		membershiprepo.Filter{ScopeKinds: []membershipdomain.ScopeKind{membershipdomain.ScopeExtended}})
	if err != nil {
		return nil, err
	}
	return []Grant{
		{Level: access.Modify, Objects: Refs(KindPerson, normal)},
		{Level: access.Read, Objects: Refs(KindPerson, extended)},
	}, nil
}

// memberRosters grants read over the unit's whole roster: current members,
// pending requests, and the membership records themselves.
func (s Stores) memberRosters(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	units := scopeIDs(scope, KindOrgUnit)
	current, err := s.Memberships.CurrentPersonIDs(ctx, units, day, membershiprepo.Filter{})
	if err != nil {
		return nil, err
	}
	pending, err := s.Memberships.PendingPersonIDs(ctx, units)
	if err != nil {
		return nil, err
	}
	records, err := s.Memberships.CurrentIDs(ctx, units, day, membershiprepo.Filter{})
	if err != nil {
		return nil, err
	}
	return []Grant{
		{Level: access.Read, Objects: Refs(KindPerson, current)},
		{Level: access.Read, Objects: Refs(KindPerson, pending)},
		{Level: access.Read, Objects: Refs(KindMembership, records)},
	}, nil
}

// issueMemberCards grants modify over the membership records cards are
// issued against.
func (s Stores) issueMemberCards(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	units := scopeIDs(scope, KindOrgUnit)
	records, err := s.Memberships.CurrentIDs(ctx, units, day, membershiprepo.Filter{})
	if err != nil {
		return nil, err
	}
	return []Grant{{Level: access.Modify, Objects: Refs(KindMembership, records)}}, nil
}

// manageUnit grants full control over the units themselves.
func manageUnit(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	return []Grant{{Level: access.Full, Objects: Refs(KindOrgUnit, scopeIDs(scope, KindOrgUnit))}}, nil
}

// manageUnitAreas grants full control over the activity areas of the units.
func (s Stores) manageUnitAreas(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	areas, err := s.Activities.AreaIDsByUnits(ctx, scopeIDs(scope, KindOrgUnit))
	if err != nil {
		return nil, err
	}
	return []Grant{{Level: access.Full, Objects: Refs(KindArea, areas)}}, nil
}

// manageUnitActivities grants full control over every activity under the
// units and their sub-units, plus everything manage-activity grants there.
func (s Stores) manageUnitActivities(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	units, err := s.Units.DescendantIDs(ctx, scopeIDs(scope, KindOrgUnit), true)
	if err != nil {
		return nil, err
	}
	activities, err := s.Activities.IDsByUnits(ctx, units)
	if err != nil {
		return nil, err
	}
	grants := []Grant{{Level: access.Full, Objects: Refs(KindActivity, activities)}}
	sub, err := ex.Expand(ctx, CapManageActivity, Refs(KindActivity, activities), day)
	if err != nil {
		return nil, err
	}
	return append(grants, sub...), nil
}

// manageAreaActivities grants full control over every activity of the
// areas, plus everything manage-activity grants there.
func (s Stores) manageAreaActivities(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	activities, err := s.Activities.IDsByAreas(ctx, scopeIDs(scope, KindArea))
	if err != nil {
		return nil, err
	}
	grants := []Grant{{Level: access.Full, Objects: Refs(KindActivity, activities)}}
	sub, err := ex.Expand(ctx, CapManageActivity, Refs(KindActivity, activities), day)
	if err != nil {
		return nil, err
	}
	return append(grants, sub...), nil
}

// manageActivity grants modify over the activities and read over their
// participants.
func (s Stores) manageActivity(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	activities := scopeIDs(scope, KindActivity)
	participants, err := s.Activities.ParticipantPersonIDs(ctx, activities)
	if err != nil {
		return nil, err
	}
	return []Grant{
		{Level: access.Modify, Objects: Refs(KindActivity, activities)},
		{Level: access.Read, Objects: Refs(KindPerson, participants)},
	}, nil
}

// manageUnitCourses grants full control over the units' courses, plus
// everything manage-course grants there.
func (s Stores) manageUnitCourses(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	courses, err := s.Courses.IDsByUnits(ctx, scopeIDs(scope, KindOrgUnit))
	if err != nil {
		return nil, err
	}
	grants := []Grant{{Level: access.Full, Objects: Refs(KindCourse, courses)}}
	sub, err := ex.Expand(ctx, CapManageCourse, Refs(KindCourse, courses), day)
	if err != nil {
		return nil, err
	}
	return append(grants, sub...), nil
}

// manageCourse grants modify over the courses and their aspirant enrollees,
// and read over every enrollee.
func (s Stores) manageCourse(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	courses := scopeIDs(scope, KindCourse)
	aspirants, err := s.Courses.EnrolleePersonIDs(ctx, courses, true)
	if err != nil {
		return nil, err
	}
	enrollees, err := s.Courses.EnrolleePersonIDs(ctx, courses, false)
	if err != nil {
		return nil, err
	}
	return []Grant{
		{Level: access.Modify, Objects: Refs(KindCourse, courses)},
		{Level: access.Modify, Objects: Refs(KindPerson, aspirants)},
		{Level: access.Read, Objects: Refs(KindPerson, enrollees)},
	}, nil
}

// manageUnitFleets grants modify over the depots of the units and their
// sub-units, the vehicles currently placed there, and the placements.
func (s Stores) manageUnitFleets(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	units, err := s.Units.DescendantIDs(ctx, scopeIDs(scope, KindOrgUnit), true)
	if err != nil {
		return nil, err
	}
	depots, err := s.Fleet.DepotIDsByUnits(ctx, units)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.Fleet.VehicleIDsPlacedIn(ctx, depots, day)
	if err != nil {
		return nil, err
	}
	placements, err := s.Fleet.CurrentPlacementIDs(ctx, depots, day)
	if err != nil {
		return nil, err
	}
	return []Grant{
		{Level: access.Modify, Objects: Refs(KindDepot, depots)},
		{Level: access.Modify, Objects: Refs(KindVehicle, vehicles)},
		{Level: access.Modify, Objects: Refs(KindPlacement, placements)},
	}, nil
}

// manageGroup grants modify over the groups and read over their current
// members.
func (s Stores) manageGroup(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	groups := scopeIDs(scope, KindGroup)
	members, err := s.Groups.CurrentMemberPersonIDs(ctx, groups, day)
	if err != nil {
		return nil, err
	}
	return []Grant{
		{Level: access.Modify, Objects: Refs(KindGroup, groups)},
		{Level: access.Read, Objects: Refs(KindPerson, members)},
	}, nil
}

// manageUnitGroups composes manage-group over every group of the units.
func (s Stores) manageUnitGroups(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	groups, err := s.Groups.IDsByUnits(ctx, scopeIDs(scope, KindOrgUnit))
	if err != nil {
		return nil, err
	}
	return ex.Expand(ctx, CapManageGroup, Refs(KindGroup, groups), day)
}

// manageOpsRoom grants read over the unit's current member roster, the
// population operations-room shifts draw from.
func (s Stores) manageOpsRoom(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	members, err := s.Memberships.CurrentPersonIDs(ctx, scopeIDs(scope, KindOrgUnit), day, membershiprepo.Filter{})
	if err != nil {
		return nil, err
	}
	return []Grant{{Level: access.Read, Objects: Refs(KindPerson, members)}}, nil
}

// personalRecords grants a person read access to their own records.
func (s Stores) personalRecords(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error) {
	var grants []Grant
	for _, personID := range scopeIDs(scope, KindPerson) {
		memberships, err := s.Personal.MembershipIDsByPerson(ctx, personID)
		if err != nil {
			return nil, err
		}
		delegations, err := s.Personal.DelegationIDsByPerson(ctx, personID)
		if err != nil {
			return nil, err
		}
		grants = append(grants,
			Grant{Level: access.Read, Objects: []Ref{{Kind: KindPerson, ID: personID}}},
			Grant{Level: access.Read, Objects: Refs(KindMembership, memberships)},
			Grant{Level: access.Read, Objects: Refs(KindDelegation, delegations)},
		)
	}
	return grants, nil
}
