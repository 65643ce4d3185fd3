// Package permission implements the expansion engine: turning a delegated
// capability over a scope into the concrete set of (access level, object)
// pairs it authorizes.
package permission

import "fmt"

// Capability is a named permission class a delegation can grant.
type Capability string

const (
	// CapManageMembers: manage the member records of a unit.
	CapManageMembers Capability = "manage_members"
	// CapMemberRosters: read the member rosters of a unit, pending and
	// past requests included.
	CapMemberRosters Capability = "member_rosters"
	// CapIssueMemberCards: issue membership cards on behalf of a unit.
	CapIssueMemberCards Capability = "issue_member_cards"
	// CapManageUnit: full control over the unit itself (the presidency).
	CapManageUnit Capability = "manage_unit"
	// CapManageUnitAreas: manage the activity areas of a unit.
	CapManageUnitAreas Capability = "manage_unit_areas"
	// CapManageUnitActivities: manage every activity of a unit and its
	// sub-units; composes CapManageActivity.
	CapManageUnitActivities Capability = "manage_unit_activities"
	// CapManageAreaActivities: manage every activity of an area; composes
	// CapManageActivity.
	CapManageAreaActivities Capability = "manage_area_activities"
	// CapManageActivityReferents: appoint activity referents. Placeholder:
	// expands to nothing yet.
	CapManageActivityReferents Capability = "manage_activity_referents"
	// CapManageActivity: manage a single activity and read its
	// participants.
	CapManageActivity Capability = "manage_activity"
	// CapManageUnitCourses: manage every course of a unit; composes
	// CapManageCourse.
	CapManageUnitCourses Capability = "manage_unit_courses"
	// CapManageCourse: manage a single course and its enrollees.
	CapManageCourse Capability = "manage_course"
	// CapManageUnitFleets: manage the fleet depots of a unit and its
	// sub-units, vehicles and placements included.
	CapManageUnitFleets Capability = "manage_unit_fleets"
	// CapManageGroup: manage a single group and read its current members.
	CapManageGroup Capability = "manage_group"
	// CapManageUnitGroups: manage every group of a unit; composes
	// CapManageGroup.
	CapManageUnitGroups Capability = "manage_unit_groups"
	// CapManageOpsRoom: run the operations room of a unit.
	CapManageOpsRoom Capability = "manage_ops_room"
	// CapManageOpsRoomPowers: assign operations-room powers. Placeholder:
	// expands to nothing yet.
	CapManageOpsRoomPowers Capability = "manage_ops_room_powers"
	// CapPersonalRecords: read one's own records.
	CapPersonalRecords Capability = "personal_records"
)

// ParseCapability returns the capability named by s.
func ParseCapability(s string) (Capability, error) {
	c := Capability(s)
	switch c {
	case CapManageMembers, CapMemberRosters, CapIssueMemberCards,
		CapManageUnit, CapManageUnitAreas, CapManageUnitActivities,
		CapManageAreaActivities, CapManageActivityReferents, CapManageActivity,
		CapManageUnitCourses, CapManageCourse, CapManageUnitFleets,
		CapManageGroup, CapManageUnitGroups, CapManageOpsRoom,
		CapManageOpsRoomPowers, CapPersonalRecords:
		return c, nil
	default:
		return "", fmt.Errorf("permission: unknown capability %q", s)
	}
}
