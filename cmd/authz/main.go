// authz prints everything a person may act on as of a date: their current
// delegations are expanded through the capability rules and the merged
// result is listed one object per line.
//
//	go run ./cmd/authz -person RSSMRA80A41F205X -date 2026-06-01
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Staersistemi/jorvik/internal/authz"
	"github.com/Staersistemi/jorvik/internal/config"
	"github.com/Staersistemi/jorvik/internal/db"
	"github.com/Staersistemi/jorvik/internal/permission"
	"github.com/Staersistemi/jorvik/internal/telemetry/otel"

	activityrepo "github.com/Staersistemi/jorvik/internal/activity/repository"
	courserepo "github.com/Staersistemi/jorvik/internal/course/repository"
	delegationrepo "github.com/Staersistemi/jorvik/internal/delegation/repository"
	fleetrepo "github.com/Staersistemi/jorvik/internal/fleet/repository"
	grouprepo "github.com/Staersistemi/jorvik/internal/group/repository"
	membershiprepo "github.com/Staersistemi/jorvik/internal/membership/repository"
	orgunitrepo "github.com/Staersistemi/jorvik/internal/orgunit/repository"
	persondomain "github.com/Staersistemi/jorvik/internal/person/domain"
	personrepo "github.com/Staersistemi/jorvik/internal/person/repository"
)

func main() {
	personFlag := flag.String("person", "", "Person id or fiscal code")
	dateFlag := flag.String("date", "", "Reference date (YYYY-MM-DD); defaults to today")
	flag.Parse()

	if *personFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: authz -person <id|fiscal code> [-date YYYY-MM-DD]")
		os.Exit(2)
	}

	day := time.Now().UTC()
	if *dateFlag != "" {
		parsed, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatalf("invalid -date %q: %v", *dateFlag, err)
		}
		day = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "jorvik-authz", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	persons := personrepo.NewPostgresRepository(conn)
	memberships := membershiprepo.NewPostgresRepository(conn)
	delegations := delegationrepo.NewPostgresRepository(conn)

	person, err := resolvePerson(ctx, persons, *personFlag)
	if err != nil {
		log.Fatalf("person: %v", err)
	}
	if person == nil {
		log.Fatalf("no person with id or fiscal code %q", *personFlag)
	}

	stores := permission.Stores{
		Units:       orgunitrepo.NewPostgresRepository(conn, cfg.HierarchyMaxDepth),
		Memberships: memberships,
		Activities:  activityrepo.NewPostgresRepository(conn),
		Courses:     courserepo.NewPostgresRepository(conn),
		Groups:      grouprepo.NewPostgresRepository(conn),
		Fleet:       fleetrepo.NewPostgresRepository(conn),
		Personal:    personalSource{memberships: memberships, delegations: delegations},
	}
	engine := permission.NewEngine(permission.DefaultRules(stores), cfg.AuthzMaxExpandDepth)

	svc, err := authz.NewService(delegations, engine)
	if err != nil {
		log.Fatalf("authz: %v", err)
	}

	decision, err := svc.AuthorizedObjects(ctx, person.ID, day)
	if err != nil {
		log.Fatalf("authz: %v", err)
	}

	fmt.Printf("%s %s (%s) as of %s: %d objects\n",
		person.Name, person.Surname, person.ID, day.Format("2006-01-02"), len(decision))
	for _, ref := range decision.Refs() {
		fmt.Printf("%-6s  %-12s  %s\n", decision[ref], ref.Kind, ref.ID)
	}
}

// resolvePerson accepts either a person id or a fiscal code.
func resolvePerson(ctx context.Context, persons *personrepo.PostgresRepository, key string) (*persondomain.Person, error) {
	p, err := persons.GetByID(ctx, key)
	if err != nil || p != nil {
		return p, err
	}
	return persons.GetByFiscalCode(ctx, key)
}

// personalSource adapts the membership and delegation repositories to the
// personal-records expansion, which only needs record ids.
type personalSource struct {
	memberships membershiprepo.Repository
	delegations delegationrepo.Repository
}

func (s personalSource) MembershipIDsByPerson(ctx context.Context, personID string) ([]string, error) {
	list, err := s.memberships.ListByPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(list))
	for i, m := range list {
		ids[i] = m.ID
	}
	return ids, nil
}

func (s personalSource) DelegationIDsByPerson(ctx context.Context, personID string) ([]string, error) {
	return s.delegations.IDsByPerson(ctx, personID)
}
