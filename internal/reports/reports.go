// Package reports renders the printable HTML documents the export routes
// serve. The documents are self-contained (inline styles) so they can be
// saved or printed as-is.
package reports

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"equiptrack/internal/models"
	"equiptrack/internal/service"
)

const (
	layoutReportDateTime = "02/01/2006 15:04"
	layoutReportDate     = "02/01/2006"
)

var searchTmpl = template.Must(template.New("search").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Relatório de Equipamentos</title>
    <style>
        body { font-family: Arial; margin: 20px; }
        h1 { color: #333; text-align: center; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { border: 1px solid #ddd; padding: 10px; text-align: left; }
        th { background-color: #f5f5f5; }
        .header { text-align: center; margin-bottom: 30px; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <h1>RELATÓRIO DE EQUIPAMENTOS</h1>
        <p>Data: {{.GeneratedAt}}</p>
        <p>Total de equipamentos: {{.Total}}</p>
    </div>

    <table>
        <thead>
            <tr>
                <th>Serial</th>
                <th>Tipo</th>
                <th>Modelo</th>
                <th>Status</th>
                <th>Data Cadastro</th>
            </tr>
        </thead>
        <tbody>
            {{range .Rows}}<tr>
                <td>{{.Serial}}</td>
                <td>{{.Type}}</td>
                <td>{{.Model}}</td>
                <td>{{.Status}}</td>
                <td>{{.Registered}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="footer">
        <p>Relatório gerado pelo Sistema de Controle de Testes</p>
        <p><strong>Dica:</strong> Use Ctrl+P para imprimir ou salvar como PDF</p>
    </div>
</body>
</html>
`))

var historyTmpl = template.Must(template.New("history").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Histórico - {{.Serial}}</title>
    <style>
        body { font-family: Arial; margin: 20px; }
        h1 { color: #333; }
        .info { background: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0; }
        table { width: 100%; border-collapse: collapse; }
        th, td { border: 1px solid #ddd; padding: 10px; text-align: left; }
        th { background-color: #f5f5f5; }
    </style>
</head>
<body>
    <h1>HISTÓRICO DE TESTES</h1>

    <div class="info">
        <h3>Equipamento: {{.Serial}}</h3>
        <p><strong>Tipo:</strong> {{.Type}}</p>
        <p><strong>Modelo:</strong> {{.Model}}</p>
        <p><strong>Status Atual:</strong> {{.Status}}</p>
    </div>

    <h3>Testes Realizados ({{.Total}})</h3>
    <table>
        <thead>
            <tr>
                <th>Data</th>
                <th>Status</th>
                <th>Velocidade</th>
                <th>Sinal</th>
                <th>Observações</th>
            </tr>
        </thead>
        <tbody>
            {{range .Rows}}<tr>
                <td>{{.Tested}}</td>
                <td>{{.Status}}</td>
                <td>{{.Speed}}</td>
                <td>{{.Signal}}</td>
                <td>{{.Notes}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div style="margin-top: 30px; font-size: 12px; color: #666;">
        <p>Relatório gerado em {{.GeneratedAt}}</p>
        <p><strong>Dica:</strong> Use Ctrl+P para imprimir ou salvar como PDF</p>
    </div>
</body>
</html>
`))

type searchRow struct {
	Serial     string
	Type       string
	Model      string
	Status     string
	Registered string
}

type searchView struct {
	GeneratedAt string
	Total       int
	Rows        []searchRow
}

// RenderSearch writes the equipment listing report. The rows keep the order
// they arrive in (newest first from the search).
func RenderSearch(w io.Writer, equips []models.Equipment, now time.Time) error {
	view := searchView{
		GeneratedAt: now.Format(layoutReportDateTime),
		Total:       len(equips),
		Rows:        make([]searchRow, 0, len(equips)),
	}
	for _, e := range equips {
		view.Rows = append(view.Rows, searchRow{
			Serial:     e.Serial,
			Type:       e.Type,
			Model:      e.Model,
			Status:     e.CurrentStatus,
			Registered: e.RegisteredAt.Format(layoutReportDate),
		})
	}
	return searchTmpl.Execute(w, view)
}

type historyRow struct {
	Tested string
	Status string
	Speed  string
	Signal string
	Notes  string
}

type historyView struct {
	Serial      string
	Type        string
	Model       string
	Status      string
	Total       int
	Rows        []historyRow
	GeneratedAt string
}

// RenderHistory writes a device's test history document, newest test first.
func RenderHistory(w io.Writer, h *service.EquipmentHistory, now time.Time) error {
	view := historyView{
		Serial:      h.Equipment.Serial,
		Type:        h.Equipment.Type,
		Model:       h.Equipment.Model,
		Status:      h.Equipment.CurrentStatus,
		Total:       len(h.Entries),
		Rows:        make([]historyRow, 0, len(h.Entries)),
		GeneratedAt: now.Format(layoutReportDateTime),
	}
	for _, entry := range h.Entries {
		view.Rows = append(view.Rows, historyRow{
			Tested: entry.TestedAt.Format(layoutReportDateTime),
			Status: entry.Status,
			Speed:  orDash(entry.Speed),
			Signal: orDash(entry.SignalDBM),
			Notes:  orDash(entry.Notes),
		})
	}
	return historyTmpl.Execute(w, view)
}

// SearchFilename names the attachment for the listing report.
func SearchFilename(day time.Time) string {
	return fmt.Sprintf("relatorio_equipamentos_%s.html", day.Format("2006-01-02"))
}

// HistoryFilename names the attachment for a device's history report.
func HistoryFilename(serial string) string {
	return fmt.Sprintf("historico_%s.html", serial)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
