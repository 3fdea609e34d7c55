package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"equiptrack/internal/models"
	"equiptrack/internal/service"
)

func TestRenderSearch(t *testing.T) {
	now := time.Date(2025, 3, 16, 14, 30, 0, 0, models.LocalZone)
	equips := []models.Equipment{
		{
			Serial:        "AA:BB:CC",
			Type:          "ONU",
			Model:         "F601",
			CurrentStatus: "Aprovado",
			RegisteredAt:  time.Date(2025, 3, 1, 8, 0, 0, 0, models.LocalZone),
		},
		{
			Serial:        "DD:EE:FF",
			Type:          "Roteador",
			Model:         "AC1200",
			CurrentStatus: models.StatusAwaitingTest,
			RegisteredAt:  time.Date(2025, 2, 10, 9, 0, 0, 0, models.LocalZone),
		},
	}

	var buf bytes.Buffer
	if err := RenderSearch(&buf, equips, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"RELATÓRIO DE EQUIPAMENTOS",
		"Data: 16/03/2025 14:30",
		"Total de equipamentos: 2",
		"<td>AA:BB:CC</td>",
		"<td>01/03/2025</td>",
		"<td>Aguardando Teste</td>",
		"Relatório gerado pelo Sistema de Controle de Testes",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSearch_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSearch(&buf, nil, time.Date(2025, 3, 16, 14, 30, 0, 0, models.LocalZone)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Total de equipamentos: 0") {
		t.Fatalf("empty report should still render with a zero count")
	}
}

func TestRenderSearch_EscapesStoredText(t *testing.T) {
	equips := []models.Equipment{{
		Serial:        `<script>alert("x")</script>`,
		RegisteredAt:  time.Date(2025, 3, 1, 8, 0, 0, 0, models.LocalZone),
		CurrentStatus: models.StatusAwaitingTest,
	}}

	var buf bytes.Buffer
	if err := RenderSearch(&buf, equips, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Fatalf("stored text must be escaped")
	}
}

func TestRenderHistory(t *testing.T) {
	now := time.Date(2025, 3, 16, 14, 30, 0, 0, models.LocalZone)
	h := &service.EquipmentHistory{
		Equipment: models.Equipment{
			Serial:        "AA:BB:CC",
			Type:          "ONU",
			Model:         "F601",
			CurrentStatus: "Aprovado",
		},
		Entries: []service.HistoryEntry{
			{
				TestRecord: models.TestRecord{
					TestedAt:  time.Date(2025, 3, 15, 10, 5, 0, 0, models.LocalZone),
					Status:    "Aprovado",
					Speed:     "600Mbps",
					SignalDBM: "-19.4",
				},
				Elapsed: "2d 2h",
			},
			{
				TestRecord: models.TestRecord{
					TestedAt: time.Date(2025, 3, 13, 8, 0, 0, 0, models.LocalZone),
					Status:   "Reprovado",
				},
				Elapsed: "45m",
			},
		},
	}

	var buf bytes.Buffer
	if err := RenderHistory(&buf, h, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"HISTÓRICO DE TESTES",
		"Histórico - AA:BB:CC",
		"Equipamento: AA:BB:CC",
		"Testes Realizados (2)",
		"<td>15/03/2025 10:05</td>",
		"<td>600Mbps</td>",
		"Relatório gerado em 16/03/2025 14:30",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}

	// Empty measurements render as a dash.
	if !strings.Contains(out, "<td>-</td>") {
		t.Fatalf("empty fields should render as '-':\n%s", out)
	}
}

func TestFilenames(t *testing.T) {
	day := time.Date(2025, 3, 16, 0, 0, 0, 0, models.LocalZone)
	if got := SearchFilename(day); got != "relatorio_equipamentos_2025-03-16.html" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := HistoryFilename("AA:BB:CC"); got != "historico_AA:BB:CC.html" {
		t.Fatalf("unexpected filename %q", got)
	}
}
