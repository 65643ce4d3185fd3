package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/Staersistemi/jorvik/internal/audit/domain"
)

type memRepo struct {
	entries []*domain.AuditLog
	err     error
}

func (m *memRepo) Create(ctx context.Context, a *domain.AuditLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, a)
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	for _, a := range m.entries {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memRepo) ListByUnit(ctx context.Context, orgUnitID string, limit, offset int32) ([]*domain.AuditLog, error) {
	var out []*domain.AuditLog
	for _, a := range m.entries {
		if a.OrgUnitID == orgUnitID {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestLogEvent(t *testing.T) {
	repo := &memRepo{}
	l := NewLogger(repo)
	l.LogEvent(context.Background(), "u1", "p1", "membership.grant", "membership:m1", "")

	if len(repo.entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.ID == "" {
		t.Error("entry should get a generated id")
	}
	if e.OrgUnitID != "u1" || e.PersonID != "p1" || e.Action != "membership.grant" {
		t.Errorf("entry = %+v", e)
	}
}

func TestLogEventWithoutUnitUsesSentinel(t *testing.T) {
	repo := &memRepo{}
	NewLogger(repo).LogEvent(context.Background(), "", "p1", "person.create", "person:p1", "")
	if got := repo.entries[0].OrgUnitID; got != SentinelUnitID {
		t.Errorf("org unit = %q, want %q", got, SentinelUnitID)
	}
}

func TestLogEventBestEffort(t *testing.T) {
	repo := &memRepo{err: errors.New("db down")}
	// Must not panic or propagate the failure.
	NewLogger(repo).LogEvent(context.Background(), "u1", "p1", "x", "y", "")
	NewLogger(nil).LogEvent(context.Background(), "u1", "p1", "x", "y", "")
}
