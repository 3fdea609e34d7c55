package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"equiptrack/internal/models"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserSQLite)(nil)

const (
	insertUserSQL           = `INSERT INTO user (username, password_hash, role) VALUES (?, ?, ?)`
	selectUserByUsernameSQL = `SELECT id, username, password_hash, role FROM user WHERE username = ?`
	selectUserByIDSQL       = `SELECT id, username, password_hash, role FROM user WHERE id = ?`
	selectUsersSQL          = `SELECT id, username, password_hash, role FROM user ORDER BY id`
	updateUserPasswordSQL   = `UPDATE user SET password_hash = ? WHERE id = ?`
	detachUserTestsSQL      = `UPDATE teste SET user_id = NULL WHERE user_id = ?`
	detachUserLogsSQL       = `UPDATE log SET user_id = NULL WHERE user_id = ?`
	deleteUserSQL           = `DELETE FROM user WHERE id = ?`
)

// Create inserts a new user and returns its ID.
func (r *UserSQLite) Create(ctx context.Context, username, passwordHash string, role models.Role) (int, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, username, passwordHash, string(role))
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username), username)
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUserByIDSQL, id), id)
}

func (r *UserSQLite) scanOne(row *sql.Row, key any) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %v: %w", key, err)
	}
	u.Role = models.Role(role)
	u.Protected = u.IsProtected()
	return &u, nil
}

// List returns all users ordered by id.
func (r *UserSQLite) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &role); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		u.Role = models.Role(role)
		u.Protected = u.IsProtected()
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePassword replaces the stored credential hash.
func (r *UserSQLite) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	if _, err := r.db.ExecContext(ctx, updateUserPasswordSQL, passwordHash, id); err != nil {
		return fmt.Errorf("update password for user %d: %w", id, err)
	}
	return nil
}

// Delete removes the user. Teste and log rows recorded by the user are kept
// (history is additive); their user reference is detached inside the same
// transaction.
func (r *UserSQLite) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, detachUserTestsSQL, id); err != nil {
		return fmt.Errorf("detach tests of user %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, detachUserLogsSQL, id); err != nil {
		return fmt.Errorf("detach logs of user %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, deleteUserSQL, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete user %d: %w", id, err)
	}
	return nil
}
