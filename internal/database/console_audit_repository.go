package database

import (
	"fmt"
	"time"

	"github.com/lakeview/cottage-admin-console/internal/models"
)

// Schema of the console audit table, applied by EnsureConsoleAuditSchema
const consoleAuditSchema = `
	CREATE TABLE IF NOT EXISTS console_audit_logs (
		id          BIGSERIAL PRIMARY KEY,
		session_id  TEXT NOT NULL,
		admin_id    TEXT NOT NULL,
		admin_email TEXT NOT NULL,
		admin_role  TEXT NOT NULL,
		action      TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id   TEXT,
		success     BOOLEAN NOT NULL DEFAULT TRUE,
		ip_address  TEXT NOT NULL DEFAULT '',
		user_agent  TEXT NOT NULL DEFAULT '',
		details     JSONB,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_console_audit_logs_created_at ON console_audit_logs (created_at);
`

// ConsoleAuditRepository stores the console's own action log
type ConsoleAuditRepository struct {
	db DB
}

// NewConsoleAuditRepository creates a new ConsoleAuditRepository
func NewConsoleAuditRepository(db DB) *ConsoleAuditRepository {
	return &ConsoleAuditRepository{db: db}
}

// EnsureSchema creates the audit table when missing
func (r *ConsoleAuditRepository) EnsureSchema() error {
	if _, err := r.db.Exec(consoleAuditSchema); err != nil {
		return fmt.Errorf("failed to create console audit table: %w", err)
	}
	return nil
}

// Insert writes one entry
func (r *ConsoleAuditRepository) Insert(entry *models.ConsoleAuditEntry) error {
	query := `
		INSERT INTO console_audit_logs (
			session_id, admin_id, admin_email, admin_role, action, entity_type,
			entity_id, success, ip_address, user_agent, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`

	_, err := r.db.Exec(
		query,
		entry.SessionID,
		entry.AdminID,
		entry.AdminEmail,
		entry.AdminRole,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Success,
		entry.IPAddress,
		entry.UserAgent,
		entry.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to insert console audit entry: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries first
func (r *ConsoleAuditRepository) ListRecent(limit int) ([]models.ConsoleAuditEntry, error) {
	query := `
		SELECT id, session_id, admin_id, admin_email, admin_role, action, entity_type,
		       entity_id, success, ip_address, user_agent, details, created_at
		FROM console_audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	entries := []models.ConsoleAuditEntry{}
	if err := r.db.Select(&entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list console audit entries: %w", err)
	}
	return entries, nil
}

// DeleteOlderThan removes entries created before now minus olderThan
func (r *ConsoleAuditRepository) DeleteOlderThan(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	result, err := r.db.Exec(`DELETE FROM console_audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune console audit entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}
