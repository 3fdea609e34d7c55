package models

import "time"

// Audit severity levels, stored uppercase.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// AuditEntry is a single append-only audit trail record. Entries are never
// updated or deleted through the application.
type AuditEntry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Level     string    `json:"level"` // INFO | WARN | ERROR
	Message   string    `json:"message"`
	// UserID is the acting user when known; nil for anonymous events
	// (e.g. failed sign-in) or after the account is removed.
	UserID *int `json:"user_id,omitempty"`
}
