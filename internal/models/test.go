package models

import "time"

// TestRecord is one recorded test event. It belongs to exactly one Equipment
// and carries the operator who recorded it. Records are immutable once
// created: there is no update or delete route, history is strictly additive.
type TestRecord struct {
	ID          int    `json:"id"`
	EquipmentID int    `json:"equipamento_id"`
	// UserID is the recording operator; nil after that account is removed.
	UserID    *int      `json:"user_id,omitempty"`
	TestedAt  time.Time `json:"data_teste"`
	Status    string    `json:"status"`
	Speed     string    `json:"velocidade_teste,omitempty"`
	SignalDBM string    `json:"sinal_dbm,omitempty"`
	Notes     string    `json:"observacoes,omitempty"`
}
