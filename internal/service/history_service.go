package service

import (
	"context"
	"fmt"
	"time"

	"equiptrack/internal/models"
	"equiptrack/internal/repository"
)

// HistoryService rebuilds a device's timeline from its stored tests.
type HistoryService struct {
	equipRepo repository.Equipment
	testRepo  repository.Tests
}

func NewHistoryService(equipRepo repository.Equipment, testRepo repository.Tests) *HistoryService {
	return &HistoryService{equipRepo: equipRepo, testRepo: testRepo}
}

// ForEquipment returns the device with its tests newest first. Each entry
// carries the elapsed time since the previous event on that device; the
// oldest test measures against the registration.
func (s *HistoryService) ForEquipment(ctx context.Context, equipmentID int) (*EquipmentHistory, error) {
	equip, err := s.equipRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if equip == nil {
		return nil, ErrNotFound
	}

	tests, err := s.testRepo.ListByEquipment(ctx, equip.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(tests))
	for i, tr := range tests {
		prev := equip.RegisteredAt
		if i+1 < len(tests) {
			prev = tests[i+1].TestedAt
		}
		entries = append(entries, HistoryEntry{
			TestRecord: tr,
			Elapsed:    formatElapsed(tr.TestedAt.Sub(prev)),
		})
	}

	return &EquipmentHistory{
		Equipment:   *equip,
		TimeInField: formatElapsed(models.Now().Sub(equip.RegisteredAt)),
		Entries:     entries,
	}, nil
}

// formatElapsed renders a duration with its largest two non-zero units:
// "2d 3h", "3h 12m", "45m". Sub-minute gaps collapse to "0m".
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	totalMinutes := int(d.Minutes())
	days := totalMinutes / (24 * 60)
	hours := (totalMinutes / 60) % 24
	minutes := totalMinutes % 60

	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
