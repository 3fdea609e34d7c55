package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"equiptrack/internal/models"
	"equiptrack/internal/repository"
)

// ErrInvalidTimeRange rejects log queries whose 'from' falls after 'to'.
var ErrInvalidTimeRange = errors.New("invalid time range: 'from' must be <= 'to'")

// AuditLogService reads the append-only application log.
type AuditLogService struct {
	audit repository.Audit
}

func NewAuditLogService(audit repository.Audit) *AuditLogService {
	return &AuditLogService{audit: audit}
}

// normalizeLevel trims spaces and uppercases the level filter.
func normalizeLevel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// normalizeAndValidateFilter prepares the query parameters and validates the
// time range.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}
	return f.From, f.To, normalizeLevel(f.Level), nil
}

// List returns log entries matching the filter, newest first.
func (s *AuditLogService) List(ctx context.Context, f LogFilter) ([]models.AuditEntry, error) {
	from, to, level, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.audit.List(ctx, from, to, level)
}
