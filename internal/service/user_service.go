package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"equiptrack/internal/models"
	"equiptrack/internal/repository"
)

var (
	ErrUsernameRequired  = errors.New("username is required")
	ErrPasswordRequired  = errors.New("password is required")
	ErrInvalidRole       = errors.New("unknown role")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrProtectedUser     = errors.New("the bootstrap admin account cannot be changed")
)

// UserService manages accounts. The bootstrap admin account is out of reach:
// it can neither be deleted nor have its password reset here.
type UserService struct {
	users repository.Users
	audit repository.Audit
}

func NewUserService(users repository.Users, audit repository.Audit) *UserService {
	return &UserService{users: users, audit: audit}
}

// Create adds an account with the given role (default support). Usernames
// are unique.
func (s *UserService) Create(ctx context.Context, ident Identity, in NewUserInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, ErrPasswordRequired
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, ErrInvalidRole
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	id, err := s.users.Create(ctx, username, hash, role)
	if err != nil {
		return nil, err
	}

	u := &models.User{ID: id, Username: username, Role: role}
	u.Protected = u.IsProtected()

	if err := s.audit.Append(ctx, models.AuditEntry{
		Level:   models.LevelInfo,
		Message: fmt.Sprintf("user %q created with role %s by %q", u.Username, u.Role, ident.Username),
		UserID:  actorRef(ident),
	}); err != nil {
		return nil, err
	}

	return u, nil
}

// List returns every account, oldest first.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Delete removes an account. Tests and log entries recorded by it survive
// with the operator reference detached.
func (s *UserService) Delete(ctx context.Context, ident Identity, id int) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if u.IsProtected() {
		_ = s.audit.Append(ctx, models.AuditEntry{
			Level:   models.LevelWarn,
			Message: fmt.Sprintf("blocked attempt by %q to delete the bootstrap account", ident.Username),
			UserID:  actorRef(ident),
		})
		return ErrProtectedUser
	}

	if err := s.users.Delete(ctx, u.ID); err != nil {
		return err
	}

	return s.audit.Append(ctx, models.AuditEntry{
		Level:   models.LevelWarn,
		Message: fmt.Sprintf("user %q deleted by %q", u.Username, ident.Username),
		UserID:  actorRef(ident),
	})
}

// ResetPassword replaces an account's password.
func (s *UserService) ResetPassword(ctx context.Context, ident Identity, id int, newPassword string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if u.IsProtected() {
		_ = s.audit.Append(ctx, models.AuditEntry{
			Level:   models.LevelWarn,
			Message: fmt.Sprintf("blocked attempt by %q to reset the bootstrap account password", ident.Username),
			UserID:  actorRef(ident),
		})
		return ErrProtectedUser
	}
	if strings.TrimSpace(newPassword) == "" {
		return ErrPasswordRequired
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	return s.audit.Append(ctx, models.AuditEntry{
		Level:   models.LevelInfo,
		Message: fmt.Sprintf("password reset for user %q by %q", u.Username, ident.Username),
		UserID:  actorRef(ident),
	})
}

// bootstrapPassword is the initial password of the bootstrap admin account.
const bootstrapPassword = "admin"

// EnsureBootstrapAdmin creates the primordial admin account when it is
// missing. Serve and init-db run it at startup. It reports whether it
// created one.
func EnsureBootstrapAdmin(ctx context.Context, users repository.Users, audit repository.Audit) (bool, error) {
	existing, err := users.GetByUsername(ctx, models.BootstrapUsername)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	hash, err := hashPassword(bootstrapPassword)
	if err != nil {
		return false, err
	}
	id, err := users.Create(ctx, models.BootstrapUsername, hash, models.RoleAdmin)
	if err != nil {
		return false, err
	}

	return true, audit.Append(ctx, models.AuditEntry{
		Level:   models.LevelInfo,
		Message: "bootstrap admin account created",
		UserID:  &id,
	})
}
