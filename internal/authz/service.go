// Package authz answers "what may this person touch, today": it expands a
// person's current delegations through the capability rules and merges the
// results into a single decision.
package authz

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Staersistemi/jorvik/internal/access"
	delegationdomain "github.com/Staersistemi/jorvik/internal/delegation/domain"
	"github.com/Staersistemi/jorvik/internal/permission"
)

const instrumentationName = "github.com/Staersistemi/jorvik/internal/authz"

// DelegationSource lists a person's delegations active on a given day.
type DelegationSource interface {
	CurrentByPerson(ctx context.Context, personID string, day time.Time) ([]*delegationdomain.Delegation, error)
}

// Service computes a person's authorizations from their delegations.
type Service struct {
	delegations DelegationSource
	engine      *permission.Engine
	tracer      trace.Tracer
	expansions  metric.Int64Counter
	checks      metric.Int64Counter
}

// NewService returns an authorization service over the given delegation
// store and rule engine. Instrumentation uses the global otel providers.
func NewService(delegations DelegationSource, engine *permission.Engine) (*Service, error) {
	meter := otel.Meter(instrumentationName)
	expansions, err := meter.Int64Counter("authz.delegation_expansions",
		metric.WithDescription("Delegations expanded through the capability rules."))
	if err != nil {
		return nil, fmt.Errorf("authz: create counter: %w", err)
	}
	checks, err := meter.Int64Counter("authz.checks",
		metric.WithDescription("Point authorization checks, by outcome."))
	if err != nil {
		return nil, fmt.Errorf("authz: create counter: %w", err)
	}
	return &Service{
		delegations: delegations,
		engine:      engine,
		tracer:      otel.Tracer(instrumentationName),
		expansions:  expansions,
		checks:      checks,
	}, nil
}

// AuthorizedObjects returns everything the person may act on as of day,
// with the highest access level any of their delegations grants per object.
func (s *Service) AuthorizedObjects(ctx context.Context, personID string, day time.Time) (permission.Decision, error) {
	ctx, span := s.tracer.Start(ctx, "authz.AuthorizedObjects",
		trace.WithAttributes(attribute.String("person.id", personID)))
	defer span.End()

	current, err := s.delegations.CurrentByPerson(ctx, personID, day)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("authz: load delegations: %w", err)
	}
	span.SetAttributes(attribute.Int("delegations.count", len(current)))

	decision := permission.Decision{}
	for _, d := range current {
		grants, err := s.engine.Expand(ctx, d.Capability, d.Target.Scope(), day)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("authz: expand %s: %w", d.Capability, err)
		}
		decision.Merge(grants)
		s.expansions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("capability", string(d.Capability))))
	}
	span.SetAttributes(attribute.Int("objects.count", len(decision)))
	return decision, nil
}

// Can reports whether the person holds at least the given level on the
// object as of day.
func (s *Service) Can(ctx context.Context, personID string, obj permission.Ref, level access.Level, day time.Time) (bool, error) {
	decision, err := s.AuthorizedObjects(ctx, personID, day)
	if err != nil {
		return false, err
	}
	allowed := decision.Allows(obj, level)
	s.checks.Add(ctx, 1, metric.WithAttributes(attribute.Bool("allowed", allowed)))
	return allowed, nil
}
