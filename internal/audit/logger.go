// Package audit records administrative events: membership requests and
// decisions, delegation changes, unit restructuring.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Staersistemi/jorvik/internal/audit/domain"
	auditrepo "github.com/Staersistemi/jorvik/internal/audit/repository"
)

// SentinelUnitID is the org_unit_id used for events with no unit context.
const SentinelUnitID = "_system"

// AuditLogger writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, orgUnitID, personID, action, resource, metadata string)
}

// Logger implements AuditLogger over the audit repository.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns an AuditLogger that persists to repo.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and
// not returned.
func (l *Logger) LogEvent(ctx context.Context, orgUnitID, personID, action, resource, metadata string) {
	if l.repo == nil {
		return
	}
	if orgUnitID == "" {
		orgUnitID = SentinelUnitID
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		OrgUnitID: orgUnitID,
		PersonID:  personID,
		Action:    action,
		Resource:  resource,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s/%s: %v", action, resource, err)
	}
}
