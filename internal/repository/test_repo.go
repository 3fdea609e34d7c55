package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"equiptrack/internal/models"
)

type TestSQLite struct {
	db *sql.DB
}

func NewTestSQLite(db *sql.DB) *TestSQLite {
	return &TestSQLite{db: db}
}

// Ensure implementation of Tests interface at compile time.
var _ Tests = (*TestSQLite)(nil)

const (
	insertTestSQL = `INSERT INTO teste (equipamento_id, user_id, data_teste, status, velocidade_teste, sinal_dbm, observacoes)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	updateEquipmentStatusSQL = `UPDATE equipamento SET status_atual = ? WHERE id = ?`
	selectTestsByEquipSQL    = `SELECT id, equipamento_id, user_id, data_teste, status, velocidade_teste, sinal_dbm, observacoes
FROM teste WHERE equipamento_id = ? ORDER BY data_teste DESC, id DESC`
)

// Record appends a test result and mirrors its outcome into the equipment's
// current status, in one transaction. Returns the id of the new test row.
func (r *TestSQLite) Record(ctx context.Context, rec models.TestRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin record test for equipment %d: %w", rec.EquipmentID, err)
	}
	defer func() { _ = tx.Rollback() }()

	var userID any
	if rec.UserID != nil {
		userID = *rec.UserID
	}
	res, err := tx.ExecContext(ctx, insertTestSQL,
		rec.EquipmentID, userID, stampOrNow(rec.TestedAt),
		rec.Status, rec.Speed, rec.SignalDBM, rec.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert test for equipment %d: %w", rec.EquipmentID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for test: %w", err)
	}

	if _, err := tx.ExecContext(ctx, updateEquipmentStatusSQL, rec.Status, rec.EquipmentID); err != nil {
		return 0, fmt.Errorf("update status of equipment %d: %w", rec.EquipmentID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record test for equipment %d: %w", rec.EquipmentID, err)
	}
	return int(lastID), nil
}

// ListByEquipment returns the equipment's tests, newest first.
func (r *TestSQLite) ListByEquipment(ctx context.Context, equipmentID int) ([]models.TestRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectTestsByEquipSQL, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("select tests of equipment %d: %w", equipmentID, err)
	}
	defer rows.Close()

	var out []models.TestRecord
	for rows.Next() {
		var rec models.TestRecord
		var userID sql.NullInt64
		var tested string
		if err := rows.Scan(&rec.ID, &rec.EquipmentID, &userID, &tested,
			&rec.Status, &rec.Speed, &rec.SignalDBM, &rec.Notes); err != nil {
			return nil, fmt.Errorf("scan test row: %w", err)
		}
		if userID.Valid {
			id := int(userID.Int64)
			rec.UserID = &id
		}
		if rec.TestedAt, err = time.ParseInLocation(timestampLayout, tested, models.LocalZone); err != nil {
			return nil, fmt.Errorf("parse test date of test %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
