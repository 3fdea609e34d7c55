package service

import (
	"context"
	"time"

	"equiptrack/internal/models"
	"equiptrack/internal/repository"
)

// Minimal stubs satisfying the repository interfaces. A non-nil err makes
// every method fail with it.

type fakeUserRepo struct {
	users  map[string]*models.User
	nextID int
	err    error

	createdUsername string
	createdHash     string
	createdRole     models.Role
	updatedID       int
	updatedHash     string
	deletedID       int
}

func (f *fakeUserRepo) Create(ctx context.Context, username, passwordHash string, role models.Role) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.createdUsername = username
	f.createdHash = passwordHash
	f.createdRole = role
	if f.nextID == 0 {
		f.nextID = 1
	}
	return f.nextID, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[username], nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	if f.err != nil {
		return f.err
	}
	f.updatedID = id
	f.updatedHash = passwordHash
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int) error {
	if f.err != nil {
		return f.err
	}
	f.deletedID = id
	return nil
}

type fakeEquipmentRepo struct {
	byID      map[int]*models.Equipment
	listOut   []models.Equipment
	searchOut []models.Equipment
	err       error

	gotSerial string
	gotTipo   string
	gotModelo string
	regOut    *models.Equipment
	regNew    bool

	gotFilter repository.EquipmentFilter
	deletedID int
}

func (f *fakeEquipmentRepo) Register(ctx context.Context, serial, tipo, modelo string) (*models.Equipment, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	f.gotSerial = serial
	f.gotTipo = tipo
	f.gotModelo = modelo
	return f.regOut, f.regNew, nil
}

func (f *fakeEquipmentRepo) GetByID(ctx context.Context, id int) (*models.Equipment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeEquipmentRepo) List(ctx context.Context) ([]models.Equipment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listOut, nil
}

func (f *fakeEquipmentRepo) Search(ctx context.Context, filter repository.EquipmentFilter) ([]models.Equipment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.gotFilter = filter
	return f.searchOut, nil
}

func (f *fakeEquipmentRepo) Delete(ctx context.Context, id int) error {
	if f.err != nil {
		return f.err
	}
	f.deletedID = id
	return nil
}

type fakeTestRepo struct {
	recorded []models.TestRecord
	nextID   int
	listOut  []models.TestRecord
	err      error
}

func (f *fakeTestRepo) Record(ctx context.Context, rec models.TestRecord) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.recorded = append(f.recorded, rec)
	if f.nextID == 0 {
		f.nextID = 1
	}
	return f.nextID, nil
}

func (f *fakeTestRepo) ListByEquipment(ctx context.Context, equipmentID int) ([]models.TestRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listOut, nil
}

type fakeAuditRepo struct {
	entries   []models.AuditEntry
	appendErr error

	listOut  []models.AuditEntry
	listErr  error
	gotFrom  time.Time
	gotTo    time.Time
	gotLevel string
}

func (f *fakeAuditRepo) Append(ctx context.Context, e models.AuditEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, from, to time.Time, level string) ([]models.AuditEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.gotFrom = from
	f.gotTo = to
	f.gotLevel = level
	return f.listOut, nil
}

// lastEntry returns the most recent audit entry, or a zero value.
func (f *fakeAuditRepo) lastEntry() models.AuditEntry {
	if len(f.entries) == 0 {
		return models.AuditEntry{}
	}
	return f.entries[len(f.entries)-1]
}
