package services

import (
	"context"
	"time"

	"github.com/lakeview/cottage-admin-console/internal/database"
	"github.com/lakeview/cottage-admin-console/internal/models"
	"github.com/lakeview/cottage-admin-console/internal/utils"
	"github.com/sirupsen/logrus"
)

// Actor identifies the staff member behind a workspace
type Actor struct {
	SessionID string
	AdminID   string
	Email     string
	Role      models.AdminRole
}

// RequestMeta carries the client details of the HTTP request driving an operation
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type requestMetaKey struct{}

// WithRequestMeta attaches request details for the audit trail
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func requestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// AuditEvent represents one console action to be recorded
type AuditEvent struct {
	Action     string // e.g. "login", "reservation_confirm", "admin_update"
	EntityType string // reservation, admin, session, report
	EntityID   string
	Success    bool
	Details    map[string]interface{}
}

// AuditRecorder records console actions. Recording never fails the action.
type AuditRecorder interface {
	Record(ctx context.Context, actor Actor, event AuditEvent)
}

// NoopAuditRecorder is used when the audit trail is disabled
type NoopAuditRecorder struct{}

func (NoopAuditRecorder) Record(context.Context, Actor, AuditEvent) {}

// AuditService writes console actions to the audit table
type AuditService struct {
	repo   *database.ConsoleAuditRepository
	logger *logrus.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo *database.ConsoleAuditRepository, logger *logrus.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		logger: logger,
	}
}

// Record stores event; failures are logged and swallowed
func (s *AuditService) Record(ctx context.Context, actor Actor, event AuditEvent) {
	meta := requestMetaFrom(ctx)

	details := models.JSONDetails{}
	for k, v := range event.Details {
		details[k] = v
	}
	if meta.UserAgent != "" {
		details["device_info"] = utils.ParseUserAgent(meta.UserAgent)
	}

	entry := &models.ConsoleAuditEntry{
		SessionID:  actor.SessionID,
		AdminID:    actor.AdminID,
		AdminEmail: actor.Email,
		AdminRole:  string(actor.Role),
		Action:     event.Action,
		EntityType: event.EntityType,
		Success:    event.Success,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Details:    details,
	}
	if event.EntityID != "" {
		id := event.EntityID
		entry.EntityID = &id
	}

	if err := s.repo.Insert(entry); err != nil {
		s.logger.WithFields(logrus.Fields{
			"action": event.Action,
			"admin":  actor.Email,
			"error":  err.Error(),
		}).Error("Failed to record console audit entry")
	}
}

// RecentEvents returns the newest audit entries
func (s *AuditService) RecentEvents(limit int) ([]models.ConsoleAuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListRecent(limit)
}

// CleanupOldAuditLogs removes audit entries older than the specified duration
func (s *AuditService) CleanupOldAuditLogs(olderThan time.Duration) (int64, error) {
	return s.repo.DeleteOlderThan(olderThan)
}
