package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"equiptrack/internal/metrics"
	"equiptrack/internal/models"
	"equiptrack/internal/repository"
)

const (
	layoutFilterDay   = "2006-01-02"
	layoutFilterMonth = "2006-01"
)

var (
	ErrSerialRequired = errors.New("equipment serial is required")
	ErrStatusRequired = errors.New("test status is required")
)

// EquipmentService implements the test-tracking workflow over the equipment
// and test repositories. Mutations leave a trail in the application log.
type EquipmentService struct {
	equipRepo repository.Equipment
	testRepo  repository.Tests
	audit     repository.Audit
}

func NewEquipmentService(equipRepo repository.Equipment, testRepo repository.Tests, audit repository.Audit) *EquipmentService {
	return &EquipmentService{equipRepo: equipRepo, testRepo: testRepo, audit: audit}
}

// Register creates the equipment, or requests a re-test when the serial is
// already known. A known serial is a workflow transition, not a conflict.
func (s *EquipmentService) Register(ctx context.Context, ident Identity, in RegisterInput) (*models.Equipment, bool, error) {
	serial := strings.TrimSpace(in.Serial)
	if serial == "" {
		return nil, false, ErrSerialRequired
	}

	equip, created, err := s.equipRepo.Register(ctx, serial, strings.TrimSpace(in.Type), strings.TrimSpace(in.Model))
	if err != nil {
		return nil, false, err
	}

	var msg string
	if created {
		metrics.EquipmentRegisteredTotal.WithLabelValues("created").Inc()
		msg = fmt.Sprintf("equipment %s registered by %q", equip.Serial, ident.Username)
	} else {
		metrics.EquipmentRegisteredTotal.WithLabelValues("retest").Inc()
		msg = fmt.Sprintf("equipment %s sent back to testing by %q", equip.Serial, ident.Username)
	}
	if err := s.audit.Append(ctx, models.AuditEntry{
		Level:   models.LevelInfo,
		Message: msg,
		UserID:  actorRef(ident),
	}); err != nil {
		return nil, false, err
	}

	return equip, created, nil
}

// List returns the whole fleet, newest first.
func (s *EquipmentService) List(ctx context.Context) ([]models.Equipment, error) {
	return s.equipRepo.List(ctx)
}

// Overview condenses the fleet into dashboard counters.
func (s *EquipmentService) Overview(ctx context.Context) (*Overview, error) {
	all, err := s.equipRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	ov := &Overview{
		Total:       len(all),
		ByStatus:    make(map[string]int),
		GeneratedAt: models.Now(),
	}
	for _, e := range all {
		ov.ByStatus[e.CurrentStatus]++
		ov.TestsTotal += e.TestCount
		if e.Tested() {
			ov.Tested++
		} else {
			ov.AwaitingTest++
		}
	}
	return ov, nil
}

// Search filters the fleet. A malformed day or month is noted in the
// application log and the predicate is dropped; the search still runs. When
// both a valid day and a month are given, the day wins.
func (s *EquipmentService) Search(ctx context.Context, ident Identity, f SearchFilter) ([]models.Equipment, error) {
	filter := repository.EquipmentFilter{
		Term:   strings.TrimSpace(f.Term),
		Status: strings.TrimSpace(f.Status),
	}

	if day := strings.TrimSpace(f.Day); day != "" {
		if t, err := time.Parse(layoutFilterDay, day); err != nil {
			_ = s.audit.Append(ctx, models.AuditEntry{
				Level:   models.LevelWarn,
				Message: fmt.Sprintf("ignoring invalid day filter %q", day),
				UserID:  actorRef(ident),
			})
		} else {
			filter.Day = t.Format(layoutFilterDay)
		}
	}
	if month := strings.TrimSpace(f.Month); month != "" && filter.Day == "" {
		if t, err := time.Parse(layoutFilterMonth, month); err != nil {
			_ = s.audit.Append(ctx, models.AuditEntry{
				Level:   models.LevelWarn,
				Message: fmt.Sprintf("ignoring invalid month filter %q", month),
				UserID:  actorRef(ident),
			})
		} else {
			filter.Month = t.Format(layoutFilterMonth)
		}
	}

	return s.equipRepo.Search(ctx, filter)
}

// RecordTest appends a test result and moves the equipment to the result's
// status. The outcome label is free text; only non-emptiness is enforced.
func (s *EquipmentService) RecordTest(ctx context.Context, ident Identity, equipmentID int, in TestInput) (*models.TestRecord, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return nil, ErrStatusRequired
	}

	equip, err := s.equipRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if equip == nil {
		return nil, ErrNotFound
	}

	rec := models.TestRecord{
		EquipmentID: equip.ID,
		UserID:      &ident.UserID,
		TestedAt:    models.Now(),
		Status:      status,
		Speed:       strings.TrimSpace(in.Speed),
		SignalDBM:   strings.TrimSpace(in.SignalDBM),
		Notes:       strings.TrimSpace(in.Notes),
	}
	id, err := s.testRepo.Record(ctx, rec)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	metrics.TestsRecordedTotal.Inc()

	if err := s.audit.Append(ctx, models.AuditEntry{
		Level:   models.LevelInfo,
		Message: fmt.Sprintf("test %q recorded for equipment %s by %q", rec.Status, equip.Serial, ident.Username),
		UserID:  actorRef(ident),
	}); err != nil {
		return nil, err
	}

	return &rec, nil
}

// Delete removes the equipment and its whole test history.
func (s *EquipmentService) Delete(ctx context.Context, ident Identity, equipmentID int) error {
	equip, err := s.equipRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return err
	}
	if equip == nil {
		return ErrNotFound
	}

	if err := s.equipRepo.Delete(ctx, equip.ID); err != nil {
		return err
	}

	return s.audit.Append(ctx, models.AuditEntry{
		Level:   models.LevelWarn,
		Message: fmt.Sprintf("equipment %s deleted by %q", equip.Serial, ident.Username),
		UserID:  actorRef(ident),
	})
}
