package models

import "time"

// ConsoleAuditEntry is one staff action performed through the console.
// It is the console's own log, separate from the remote activity log.
type ConsoleAuditEntry struct {
	ID         int64       `db:"id" json:"id"`
	SessionID  string      `db:"session_id" json:"session_id"`
	AdminID    string      `db:"admin_id" json:"admin_id"`
	AdminEmail string      `db:"admin_email" json:"admin_email"`
	AdminRole  string      `db:"admin_role" json:"admin_role"`
	Action     string      `db:"action" json:"action"`
	EntityType string      `db:"entity_type" json:"entity_type"`
	EntityID   *string     `db:"entity_id" json:"entity_id,omitempty"`
	Success    bool        `db:"success" json:"success"`
	IPAddress  string      `db:"ip_address" json:"ip_address"`
	UserAgent  string      `db:"user_agent" json:"user_agent"`
	Details    JSONDetails `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}
