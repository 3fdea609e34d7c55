package service

import (
	"context"
	"errors"
	"time"

	"equiptrack/internal/models"
	"equiptrack/internal/repository"
)

// ErrNotFound is returned when the addressed equipment or user does not exist.
var ErrNotFound = errors.New("not found")

// Identity is the authenticated caller, as carried by the session token.
type Identity struct {
	UserID   int
	Username string
	Role     models.Role
}

// actorRef returns the audit-trail user reference for ident. System actors
// (CLI, bootstrap) carry no user id and are recorded as NULL.
func actorRef(ident Identity) *int {
	if ident.UserID <= 0 {
		return nil
	}
	id := ident.UserID
	return &id
}

// Session is the result of a successful sign-in. Landing tells the client
// which view to open first; scheduling-only accounts go straight to search.
type Session struct {
	Token   string      `json:"token"`
	Role    models.Role `json:"role"`
	Landing string      `json:"landing"`
}

// RegisterInput carries a registration request. Serial is the device
// serial/MAC; registering a known serial requests a re-test instead of
// failing.
type RegisterInput struct {
	Serial string
	Type   string
	Model  string
}

// TestInput carries one test result. Status is the outcome label; the rest
// is optional measurement detail.
type TestInput struct {
	Status    string
	Speed     string
	SignalDBM string
	Notes     string
}

// SearchFilter holds the raw, user-supplied search predicates. Day and Month
// arrive as free text and are validated during the search.
type SearchFilter struct {
	Term   string
	Status string
	Day    string
	Month  string
}

// LogFilter filters the audit log listing.
type LogFilter struct {
	From  time.Time
	To    time.Time
	Level string
}

// HistoryEntry is one test augmented with the elapsed time since the
// previous event on the same equipment (its registration, for the first
// test).
type HistoryEntry struct {
	models.TestRecord
	Elapsed string `json:"tempo_decorrido"`
}

// EquipmentHistory is the full per-device view: the equipment, how long it
// has been in the field, and its tests newest first.
type EquipmentHistory struct {
	Equipment   models.Equipment `json:"equipamento"`
	TimeInField string           `json:"tempo_em_campo"`
	Entries     []HistoryEntry   `json:"testes"`
}

// Overview aggregates the fleet for the dashboard and the live feed.
type Overview struct {
	Total        int            `json:"total"`
	AwaitingTest int            `json:"aguardando_teste"`
	Tested       int            `json:"testados"`
	ByStatus     map[string]int `json:"por_status"`
	TestsTotal   int            `json:"total_testes"`
	GeneratedAt  time.Time      `json:"gerado_em"`
}

type Authorization interface {
	SignIn(ctx context.Context, username, password string) (*Session, error)
	// SignOut records the departure in the application log. Tokens stay
	// valid until they expire; this is bookkeeping.
	SignOut(ctx context.Context, ident Identity) error
	ParseToken(accessToken string) (*Identity, error)
}

// Equipment exposes the test-tracking workflow: registration, search,
// result recording and removal.
type Equipment interface {
	Register(ctx context.Context, ident Identity, in RegisterInput) (*models.Equipment, bool, error)
	List(ctx context.Context) ([]models.Equipment, error)
	Overview(ctx context.Context) (*Overview, error)
	Search(ctx context.Context, ident Identity, f SearchFilter) ([]models.Equipment, error)
	RecordTest(ctx context.Context, ident Identity, equipmentID int, in TestInput) (*models.TestRecord, error)
	Delete(ctx context.Context, ident Identity, equipmentID int) error
}

// History reconstructs a device's test timeline with elapsed durations.
type History interface {
	ForEquipment(ctx context.Context, equipmentID int) (*EquipmentHistory, error)
}

// Users is the admin-only account management surface.
type Users interface {
	Create(ctx context.Context, ident Identity, in NewUserInput) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, ident Identity, id int) error
	ResetPassword(ctx context.Context, ident Identity, id int, newPassword string) error
}

// NewUserInput carries an account creation request. An empty Role means the
// default (support).
type NewUserInput struct {
	Username string
	Password string
	Role     string
}

// AuditLog exposes the append-only application log with filtering access.
type AuditLog interface {
	List(ctx context.Context, f LogFilter) ([]models.AuditEntry, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Equipment
	History
	Users
	AuditLog
}

// NewService wires the repository layer into concrete services. The signing
// key comes from configuration and is what session tokens are minted with.
func NewService(repos *repository.Repository, signingKey string) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Audit, signingKey),
		Equipment:     NewEquipmentService(repos.Equipment, repos.Tests, repos.Audit),
		History:       NewHistoryService(repos.Equipment, repos.Tests),
		Users:         NewUserService(repos.Users, repos.Audit),
		AuditLog:      NewAuditLogService(repos.Audit),
	}
}
