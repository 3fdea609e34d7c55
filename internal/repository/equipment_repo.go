package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"equiptrack/internal/models"
)

type EquipmentSQLite struct {
	db *sql.DB
}

func NewEquipmentSQLite(db *sql.DB) *EquipmentSQLite {
	return &EquipmentSQLite{db: db}
}

// Ensure implementation of Equipment interface at compile time.
var _ Equipment = (*EquipmentSQLite)(nil)

const (
	// Listing queries join against teste so every row carries its test count.
	selectEquipmentBaseSQL = `SELECT e.id, e.tipo, e.modelo, e.serial, e.status_atual, e.data_cadastro, COUNT(t.id)
FROM equipamento e
LEFT JOIN teste t ON t.equipamento_id = e.id`
	groupEquipmentSQL = ` GROUP BY e.id ORDER BY e.id DESC`

	selectEquipmentBySerialSQL = `SELECT id FROM equipamento WHERE serial = ?`
	insertEquipmentSQL         = `INSERT INTO equipamento (tipo, modelo, serial, status_atual, data_cadastro) VALUES (?, ?, ?, ?, ?)`
	updateEquipmentSQL         = `UPDATE equipamento SET tipo = ?, modelo = ?, status_atual = ? WHERE id = ?`
	deleteEquipmentTestsSQL    = `DELETE FROM teste WHERE equipamento_id = ?`
	deleteEquipmentSQL         = `DELETE FROM equipamento WHERE id = ?`
)

// Register stores a new equipment under the given serial. When the serial is
// already known the row is recycled instead: type and model are refreshed and
// the status goes back to awaiting-test, which is how a re-test request is
// expressed. The registration date and recorded tests of an existing row are
// left untouched. The second return reports whether a new row was created.
func (r *EquipmentSQLite) Register(ctx context.Context, serial, tipo, modelo string) (*models.Equipment, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin register equipment %q: %w", serial, err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int
	created := false
	err = tx.QueryRowContext(ctx, selectEquipmentBySerialSQL, serial).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx, insertEquipmentSQL,
			tipo, modelo, serial, models.StatusAwaitingTest, stampOrNow(time.Time{}))
		if err != nil {
			return nil, false, fmt.Errorf("insert equipment %q: %w", serial, err)
		}
		lastID, err := res.LastInsertId()
		if err != nil {
			return nil, false, fmt.Errorf("get last insert id for equipment %q: %w", serial, err)
		}
		id = int(lastID)
		created = true
	case err != nil:
		return nil, false, fmt.Errorf("select equipment %q: %w", serial, err)
	default:
		if _, err := tx.ExecContext(ctx, updateEquipmentSQL, tipo, modelo, models.StatusAwaitingTest, id); err != nil {
			return nil, false, fmt.Errorf("update equipment %q: %w", serial, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit register equipment %q: %w", serial, err)
	}

	equip, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return equip, created, nil
}

// GetByID fetches one equipment with its test count. Returns (nil, nil) if
// not found.
func (r *EquipmentSQLite) GetByID(ctx context.Context, id int) (*models.Equipment, error) {
	query := selectEquipmentBaseSQL + " WHERE e.id = ?" + groupEquipmentSQL
	var e models.Equipment
	var registered string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Type, &e.Model, &e.Serial, &e.CurrentStatus, &registered, &e.TestCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select equipment %d: %w", id, err)
	}
	if e.RegisteredAt, err = time.ParseInLocation(timestampLayout, registered, models.LocalZone); err != nil {
		return nil, fmt.Errorf("parse registration date of equipment %d: %w", id, err)
	}
	return &e, nil
}

// List returns every equipment, newest first.
func (r *EquipmentSQLite) List(ctx context.Context) ([]models.Equipment, error) {
	return r.Search(ctx, EquipmentFilter{})
}

// Search returns the equipments matching the filter, newest first. All filter
// fields are optional and combine with AND. The date filters keep an
// equipment when at least one of its tests falls on the requested day or
// month, without multiplying rows per matching test.
func (r *EquipmentSQLite) Search(ctx context.Context, filter EquipmentFilter) ([]models.Equipment, error) {
	query := selectEquipmentBaseSQL
	conds := []string{}
	args := []any{}

	if term := strings.TrimSpace(filter.Term); term != "" {
		conds = append(conds, "(lower(e.serial) LIKE ? OR lower(e.modelo) LIKE ? OR lower(e.tipo) LIKE ?)")
		pattern := "%" + strings.ToLower(term) + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		conds = append(conds, "e.status_atual = ?")
		args = append(args, filter.Status)
	}
	if filter.Day != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM teste tf WHERE tf.equipamento_id = e.id AND date(tf.data_teste) = ?)")
		args = append(args, filter.Day)
	}
	if filter.Month != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM teste tf WHERE tf.equipamento_id = e.id AND strftime('%Y-%m', tf.data_teste) = ?)")
		args = append(args, filter.Month)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += groupEquipmentSQL

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select equipments: %w", err)
	}
	defer rows.Close()

	var out []models.Equipment
	for rows.Next() {
		var e models.Equipment
		var registered string
		if err := rows.Scan(&e.ID, &e.Type, &e.Model, &e.Serial, &e.CurrentStatus, &registered, &e.TestCount); err != nil {
			return nil, fmt.Errorf("scan equipment row: %w", err)
		}
		if e.RegisteredAt, err = time.ParseInLocation(timestampLayout, registered, models.LocalZone); err != nil {
			return nil, fmt.Errorf("parse registration date of equipment %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the equipment together with its test history, in one
// transaction. Audit log entries are not touched.
func (r *EquipmentSQLite) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete equipment %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteEquipmentTestsSQL, id); err != nil {
		return fmt.Errorf("delete tests of equipment %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, deleteEquipmentSQL, id); err != nil {
		return fmt.Errorf("delete equipment %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete equipment %d: %w", id, err)
	}
	return nil
}
