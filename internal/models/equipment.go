package models

import "time"

// StatusAwaitingTest is the workflow sentinel: set at registration and again
// when an existing serial is re-registered (a re-test request). Any other
// status value is the free-text outcome of the latest recorded test.
const StatusAwaitingTest = "Aguardando Teste"

// Equipment is a tracked network device (ONU, router, ...) keyed by its
// serial/MAC. CurrentStatus always mirrors the outcome of the most recent
// test, or StatusAwaitingTest when none exists yet.
type Equipment struct {
	ID            int       `json:"id"`
	Type          string    `json:"tipo"`
	Model         string    `json:"modelo"`
	Serial        string    `json:"serial"`
	CurrentStatus string    `json:"status_atual"`
	RegisteredAt  time.Time `json:"data_cadastro"`
	// TestCount is filled by listing queries; it is not a stored column.
	TestCount int `json:"total_testes"`
}

// Tested reports whether at least one test has been recorded.
func (e *Equipment) Tested() bool {
	return e.TestCount > 0
}
