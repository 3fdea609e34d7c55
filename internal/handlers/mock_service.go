package handlers

import (
	"context"

	"equiptrack/internal/models"
	"equiptrack/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	session    *service.Session
	signInErr  error
	ident      *service.Identity
	parseErr   error
	signOutErr error

	lastUsername string
	lastPassword string
	lastToken    string
	signOutIdent service.Identity
	signOutCalls int
}

func (m *mockAuth) SignIn(ctx context.Context, username, password string) (*service.Session, error) {
	m.lastUsername = username
	m.lastPassword = password
	return m.session, m.signInErr
}

func (m *mockAuth) SignOut(ctx context.Context, ident service.Identity) error {
	m.signOutCalls++
	m.signOutIdent = ident
	return m.signOutErr
}

func (m *mockAuth) ParseToken(token string) (*service.Identity, error) {
	m.lastToken = token
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	return m.ident, nil
}

type mockEquipment struct {
	regOut      *models.Equipment
	regCreated  bool
	regErr      error
	listOut     []models.Equipment
	listErr     error
	overviewOut *service.Overview
	overviewErr error
	searchOut   []models.Equipment
	searchErr   error
	recordOut   *models.TestRecord
	recordErr   error
	deleteErr   error

	lastIdent    service.Identity
	lastRegister service.RegisterInput
	lastFilter   service.SearchFilter
	lastTestID   int
	lastTest     service.TestInput
	lastDeleteID int

	registerCalls int
	recordCalls   int
	deleteCalls   int
}

func (m *mockEquipment) Register(ctx context.Context, ident service.Identity, in service.RegisterInput) (*models.Equipment, bool, error) {
	m.registerCalls++
	m.lastIdent = ident
	m.lastRegister = in
	return m.regOut, m.regCreated, m.regErr
}

func (m *mockEquipment) List(ctx context.Context) ([]models.Equipment, error) {
	return m.listOut, m.listErr
}

func (m *mockEquipment) Overview(ctx context.Context) (*service.Overview, error) {
	return m.overviewOut, m.overviewErr
}

func (m *mockEquipment) Search(ctx context.Context, ident service.Identity, f service.SearchFilter) ([]models.Equipment, error) {
	m.lastIdent = ident
	m.lastFilter = f
	return m.searchOut, m.searchErr
}

func (m *mockEquipment) RecordTest(ctx context.Context, ident service.Identity, equipmentID int, in service.TestInput) (*models.TestRecord, error) {
	m.recordCalls++
	m.lastIdent = ident
	m.lastTestID = equipmentID
	m.lastTest = in
	return m.recordOut, m.recordErr
}

func (m *mockEquipment) Delete(ctx context.Context, ident service.Identity, equipmentID int) error {
	m.deleteCalls++
	m.lastIdent = ident
	m.lastDeleteID = equipmentID
	return m.deleteErr
}

type mockHistory struct {
	out    *service.EquipmentHistory
	err    error
	lastID int
}

func (m *mockHistory) ForEquipment(ctx context.Context, equipmentID int) (*service.EquipmentHistory, error) {
	m.lastID = equipmentID
	return m.out, m.err
}

type mockUsers struct {
	createOut *models.User
	createErr error
	listOut   []models.User
	listErr   error
	deleteErr error
	resetErr  error

	lastCreate   service.NewUserInput
	lastDeleteID int
	lastResetID  int
	lastPassword string

	createCalls int
	deleteCalls int
}

func (m *mockUsers) Create(ctx context.Context, ident service.Identity, in service.NewUserInput) (*models.User, error) {
	m.createCalls++
	m.lastCreate = in
	return m.createOut, m.createErr
}

func (m *mockUsers) List(ctx context.Context) ([]models.User, error) {
	return m.listOut, m.listErr
}

func (m *mockUsers) Delete(ctx context.Context, ident service.Identity, id int) error {
	m.deleteCalls++
	m.lastDeleteID = id
	return m.deleteErr
}

func (m *mockUsers) ResetPassword(ctx context.Context, ident service.Identity, id int, newPassword string) error {
	m.lastResetID = id
	m.lastPassword = newPassword
	return m.resetErr
}

type mockAuditLog struct {
	out        []models.AuditEntry
	err        error
	lastFilter service.LogFilter
}

func (m *mockAuditLog) List(ctx context.Context, f service.LogFilter) ([]models.AuditEntry, error) {
	m.lastFilter = f
	return m.out, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func supportIdent() *service.Identity {
	return &service.Identity{UserID: 7, Username: "tech", Role: models.RoleSupport}
}

func adminIdent() *service.Identity {
	return &service.Identity{UserID: 1, Username: "admin", Role: models.RoleAdmin}
}

func schedulerIdent() *service.Identity {
	return &service.Identity{UserID: 3, Username: "agenda", Role: models.RoleScheduler}
}
