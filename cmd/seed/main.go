// seed inserts development sample data for local testing: a small unit
// tree, a few people with memberships, and the delegations that make them
// interesting to inspect with cmd/authz.
// Idempotent: skips inserts if the sample president already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Staersistemi/jorvik/internal/audit"
	auditrepo "github.com/Staersistemi/jorvik/internal/audit/repository"
	"github.com/Staersistemi/jorvik/internal/config"
	"github.com/Staersistemi/jorvik/internal/db"
	"github.com/Staersistemi/jorvik/internal/permission"
	"github.com/Staersistemi/jorvik/internal/validity"

	activitydomain "github.com/Staersistemi/jorvik/internal/activity/domain"
	activityrepo "github.com/Staersistemi/jorvik/internal/activity/repository"
	coursedomain "github.com/Staersistemi/jorvik/internal/course/domain"
	courserepo "github.com/Staersistemi/jorvik/internal/course/repository"
	delegationdomain "github.com/Staersistemi/jorvik/internal/delegation/domain"
	delegationrepo "github.com/Staersistemi/jorvik/internal/delegation/repository"
	fleetdomain "github.com/Staersistemi/jorvik/internal/fleet/domain"
	fleetrepo "github.com/Staersistemi/jorvik/internal/fleet/repository"
	groupdomain "github.com/Staersistemi/jorvik/internal/group/domain"
	grouprepo "github.com/Staersistemi/jorvik/internal/group/repository"
	membershipdomain "github.com/Staersistemi/jorvik/internal/membership/domain"
	membershiprepo "github.com/Staersistemi/jorvik/internal/membership/repository"
	membershipservice "github.com/Staersistemi/jorvik/internal/membership/service"
	orgunitdomain "github.com/Staersistemi/jorvik/internal/orgunit/domain"
	orgunitrepo "github.com/Staersistemi/jorvik/internal/orgunit/repository"
	persondomain "github.com/Staersistemi/jorvik/internal/person/domain"
	personrepo "github.com/Staersistemi/jorvik/internal/person/repository"
)

const (
	unitNationalID    = "seed-unit-national"
	unitRegionalID    = "seed-unit-regional"
	unitLocalID       = "seed-unit-milano"
	unitTerritorialID = "seed-unit-milano-nord"

	presidentID = "seed-person-maria"
	volunteerID = "seed-person-luca"
	aspirantID  = "seed-person-anna"
	extendedID  = "seed-person-paolo"

	presidentFiscalCode = "RSSMRA80A41F205X"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	persons := personrepo.NewPostgresRepository(conn)

	existing, err := persons.GetByFiscalCode(ctx, presidentFiscalCode)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied. Skipping.")
		os.Exit(0)
	}

	now := time.Now().UTC()
	since := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	open := validity.Open(since)

	units := orgunitrepo.NewPostgresRepository(conn, cfg.HierarchyMaxDepth)
	for _, u := range []*orgunitdomain.OrgUnit{
		{ID: unitNationalID, Name: "Comitato Nazionale", Kind: orgunitdomain.KindNational,
			TaxCode: "00974450586", Email: "info@example.org", CreatedAt: now},
		{ID: unitRegionalID, Name: "Comitato Regionale Lombardia", Kind: orgunitdomain.KindRegional,
			ParentID: strptr(unitNationalID), CreatedAt: now},
		{ID: unitLocalID, Name: "Comitato di Milano", Kind: orgunitdomain.KindLocal,
			ParentID: strptr(unitRegionalID), Email: "milano@example.org", CreatedAt: now},
		{ID: unitTerritorialID, Name: "Unità Territoriale Milano Nord", Kind: orgunitdomain.KindTerritorial,
			ParentID: strptr(unitLocalID), CreatedAt: now},
	} {
		if err := units.Create(ctx, u); err != nil {
			log.Fatalf("seed unit %s: %v", u.ID, err)
		}
	}

	for _, p := range []*persondomain.Person{
		{ID: presidentID, Name: "Maria", Surname: "Rossi", FiscalCode: presidentFiscalCode,
			BirthDate: date(1980, 1, 1), Gender: persondomain.GenderFemale, Status: persondomain.StatusVolunteer, CreatedAt: now},
		{ID: volunteerID, Name: "Luca", Surname: "Bianchi", FiscalCode: "BNCLCU85B02F205Y",
			BirthDate: date(1985, 2, 2), Gender: persondomain.GenderMale, Status: persondomain.StatusVolunteer, CreatedAt: now},
		{ID: aspirantID, Name: "Anna", Surname: "Verdi", FiscalCode: "VRDNNA95C43F205Z",
			BirthDate: date(1995, 3, 3), Gender: persondomain.GenderFemale, Status: persondomain.StatusAspirant, CreatedAt: now},
		{ID: extendedID, Name: "Paolo", Surname: "Neri", FiscalCode: "NREPLA90D04F205W",
			BirthDate: date(1990, 4, 4), Gender: persondomain.GenderMale, Status: persondomain.StatusVolunteer, CreatedAt: now},
	} {
		if err := persons.Create(ctx, p); err != nil {
			log.Fatalf("seed person %s: %v", p.ID, err)
		}
	}

	delegations := delegationrepo.NewPostgresRepository(conn)
	for _, d := range []*delegationdomain.Delegation{
		{ID: "seed-delegation-president", PersonID: presidentID,
			Capability: permission.CapManageUnit,
			Target:     delegationdomain.Target{Kind: permission.KindOrgUnit, ID: unitLocalID},
			Window:     open, CreatedAt: now},
		{ID: "seed-delegation-members", PersonID: presidentID,
			Capability: permission.CapManageMembers,
			Target:     delegationdomain.Target{Kind: permission.KindOrgUnit, ID: unitLocalID},
			Window:     open, CreatedAt: now},
		{ID: "seed-delegation-activities", PersonID: presidentID,
			Capability: permission.CapManageUnitActivities,
			Target:     delegationdomain.Target{Kind: permission.KindOrgUnit, ID: unitLocalID},
			Window:     open, CreatedAt: now},
		{ID: "seed-delegation-activity-luca", PersonID: volunteerID,
			Capability: permission.CapManageActivity,
			Target:     delegationdomain.Target{Kind: permission.KindActivity, ID: "seed-activity-ambulances"},
			Window:     open, CreatedAt: now},
	} {
		if err := delegations.Create(ctx, d); err != nil {
			log.Fatalf("seed delegation %s: %v", d.ID, err)
		}
	}

	// Memberships go through the registry so the lifecycle and audit trail
	// are exercised, not just the table.
	memberships := membershiprepo.NewPostgresRepository(conn)
	auditLogger := audit.NewLogger(auditrepo.NewPostgresRepository(conn))
	registry := membershipservice.NewRegistry(memberships, units, delegations, logAuthorizer{}, auditLogger)
	for _, m := range []*membershipdomain.Membership{
		{ID: "seed-membership-maria", PersonID: presidentID, OrgUnitID: unitLocalID,
			MemberKind: membershipdomain.MemberVolunteer, ScopeKind: membershipdomain.ScopeNormal,
			Window: open, CreatedAt: now},
		{ID: "seed-membership-luca", PersonID: volunteerID, OrgUnitID: unitLocalID,
			MemberKind: membershipdomain.MemberVolunteer, ScopeKind: membershipdomain.ScopeNormal,
			Window: open, CreatedAt: now},
		// Paolo's home unit is elsewhere; in Milano he is extended scope.
		{ID: "seed-membership-paolo", PersonID: extendedID, OrgUnitID: unitLocalID,
			MemberKind: membershipdomain.MemberVolunteer, ScopeKind: membershipdomain.ScopeExtended,
			Window: open, CreatedAt: now},
	} {
		if err := registry.Enroll(ctx, m); err != nil {
			log.Fatalf("seed membership %s: %v", m.ID, err)
		}
	}
	// Anna's request stays pending: routed to the president, unconfirmed
	// until granted, visible only in rosters.
	if err := registry.Request(ctx, &membershipdomain.Membership{
		ID: "seed-membership-anna", PersonID: aspirantID, OrgUnitID: unitLocalID,
		MemberKind: membershipdomain.MemberVolunteer, ScopeKind: membershipdomain.ScopeNormal,
		Window: open, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed membership seed-membership-anna: %v", err)
	}

	activities := activityrepo.NewPostgresRepository(conn)
	if err := activities.CreateArea(ctx, &activitydomain.Area{
		ID: "seed-area-emergency", Name: "Emergenza", OrgUnitID: unitLocalID, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed area: %v", err)
	}
	if err := activities.Create(ctx, &activitydomain.Activity{
		ID: "seed-activity-ambulances", Name: "Servizio Ambulanze", OrgUnitID: unitLocalID,
		AreaID: strptr("seed-area-emergency"), CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed activity: %v", err)
	}
	if err := activities.Create(ctx, &activitydomain.Activity{
		ID: "seed-activity-first-aid", Name: "Punto Primo Soccorso", OrgUnitID: unitTerritorialID, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed activity: %v", err)
	}
	if err := activities.AddParticipant(ctx, &activitydomain.Participation{
		ID: "seed-participation-luca", ActivityID: "seed-activity-ambulances", PersonID: volunteerID, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed participation: %v", err)
	}

	courses := courserepo.NewPostgresRepository(conn)
	if err := courses.Create(ctx, &coursedomain.Course{
		ID: "seed-course-base", Name: "Corso Base Volontari", OrgUnitID: unitLocalID, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed course: %v", err)
	}
	if err := courses.Enroll(ctx, &coursedomain.Enrollment{
		ID: "seed-enrollment-anna", CourseID: "seed-course-base", PersonID: aspirantID, Aspirant: true, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed enrollment: %v", err)
	}

	groups := grouprepo.NewPostgresRepository(conn)
	if err := groups.Create(ctx, &groupdomain.Group{
		ID: "seed-group-divers", Name: "Gruppo Sommozzatori", OrgUnitID: unitLocalID, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed group: %v", err)
	}
	if err := groups.AddMember(ctx, &groupdomain.GroupMembership{
		ID: "seed-group-membership-luca", GroupID: "seed-group-divers", PersonID: volunteerID,
		Window: open, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed group membership: %v", err)
	}

	fleet := fleetrepo.NewPostgresRepository(conn)
	if err := fleet.CreateDepot(ctx, &fleetdomain.Depot{
		ID: "seed-depot-nord", Name: "Autorimessa Nord", OrgUnitID: unitTerritorialID, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed depot: %v", err)
	}
	if err := fleet.CreateVehicle(ctx, &fleetdomain.Vehicle{
		ID: "seed-vehicle-amb1", Plate: "CRI123AB", Make: "Fiat", Model: "Ducato",
		Status: fleetdomain.VehicleInService, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed vehicle: %v", err)
	}
	if err := fleet.Place(ctx, &fleetdomain.Placement{
		ID: "seed-placement-amb1", VehicleID: "seed-vehicle-amb1", DepotID: "seed-depot-nord",
		Window: open, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed placement: %v", err)
	}

	log.Println("Seed applied.")
}

// logAuthorizer stands in for the approval workflow: it only reports that
// the request was routed. The membership stays pending until granted.
type logAuthorizer struct{}

func (logAuthorizer) RequestApproval(ctx context.Context, m *membershipdomain.Membership, approverID string) error {
	log.Printf("membership %s awaits approval by %s", m.ID, approverID)
	return nil
}

func strptr(s string) *string { return &s }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
