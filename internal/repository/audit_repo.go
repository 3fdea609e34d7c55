package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"equiptrack/internal/models"
)

type AuditSQLite struct {
	db *sql.DB
}

func NewAuditSQLite(db *sql.DB) *AuditSQLite { return &AuditSQLite{db: db} }

// Ensure implementation of Audit interface at compile time.
var _ Audit = (*AuditSQLite)(nil)

const (
	insertAuditSQL = `INSERT INTO log (id, created_at, level, message, user_id) VALUES (?, ?, ?, ?, ?)`
	selectAuditSQL = `SELECT id, created_at, level, message, user_id FROM log`
)

// Append inserts one audit entry. Missing ID and CreatedAt are filled in.
func (r *AuditSQLite) Append(ctx context.Context, e models.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	var userID any
	if e.UserID != nil {
		userID = *e.UserID
	}
	_, err := r.db.ExecContext(ctx, insertAuditSQL,
		e.ID,
		stampOrNow(e.CreatedAt),
		strings.ToUpper(strings.TrimSpace(e.Level)),
		e.Message,
		userID,
	)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// List returns entries filtered by [from, to] (inclusive) and/or level,
// newest first.
func (r *AuditSQLite) List(ctx context.Context, from, to time.Time, level string) ([]models.AuditEntry, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, from.Format(timestampLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, to.Format(timestampLayout))
	}
	if level = strings.ToUpper(strings.TrimSpace(level)); level != "" {
		conds = append(conds, "level = ?")
		args = append(args, level)
	}

	q := selectAuditSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select log entries: %w", err)
	}
	defer rows.Close()

	out := make([]models.AuditEntry, 0, 64)
	for rows.Next() {
		var e models.AuditEntry
		var created string
		var userID sql.NullInt64
		if err := rows.Scan(&e.ID, &created, &e.Level, &e.Message, &userID); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		if e.CreatedAt, err = time.ParseInLocation(timestampLayout, created, models.LocalZone); err != nil {
			return nil, fmt.Errorf("parse created_at of log %s: %w", e.ID, err)
		}
		if userID.Valid {
			id := int(userID.Int64)
			e.UserID = &id
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
