package repository

import (
	"context"
	"database/sql"
	"time"

	"equiptrack/internal/models"
)

type Users interface {
	Create(ctx context.Context, username, passwordHash string, role models.Role) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	Delete(ctx context.Context, id int) error
}

// EquipmentFilter carries the normalized search predicates. Zero values mean
// "not filtered". Day and Month are pre-validated date strings (2006-01-02
// and 2006-01); the composer trusts them.
type EquipmentFilter struct {
	Status string
	Day    string
	Month  string
	Term   string
}

type Equipment interface {
	// Register inserts a new row or, when the serial already exists,
	// overwrites tipo/modelo and resets the status to awaiting-test.
	// Reports whether a row was created.
	Register(ctx context.Context, serial, tipo, modelo string) (*models.Equipment, bool, error)
	GetByID(ctx context.Context, id int) (*models.Equipment, error)
	List(ctx context.Context) ([]models.Equipment, error)
	Search(ctx context.Context, f EquipmentFilter) ([]models.Equipment, error)
	// Delete removes the equipment and its teste children in one transaction.
	Delete(ctx context.Context, id int) error
}

type Tests interface {
	// Record appends the test row and mirrors its status onto
	// equipamento.status_atual in one transaction.
	Record(ctx context.Context, rec models.TestRecord) (int, error)
	ListByEquipment(ctx context.Context, equipmentID int) ([]models.TestRecord, error)
}

type Audit interface {
	Append(ctx context.Context, e models.AuditEntry) error
	List(ctx context.Context, from, to time.Time, level string) ([]models.AuditEntry, error)
}

type Repository struct {
	Users     Users
	Equipment Equipment
	Tests     Tests
	Audit     Audit
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:     NewUserSQLite(db),
		Equipment: NewEquipmentSQLite(db),
		Tests:     NewTestSQLite(db),
		Audit:     NewAuditSQLite(db),
	}
}

// timestampLayout is how date columns are written and read back. Values are
// local wall-clock time; see models.LocalZone.
const timestampLayout = "2006-01-02 15:04:05"

// stampOrNow formats t for storage, substituting the current local time when
// t is zero.
func stampOrNow(t time.Time) string {
	if t.IsZero() {
		t = models.Now()
	}
	return t.Format(timestampLayout)
}
