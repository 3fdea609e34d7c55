package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"equiptrack/internal/models"
	"equiptrack/internal/reports"
	"equiptrack/internal/service"

	"github.com/gin-gonic/gin"
)

const contentTypeHTML = "text/html; charset=utf-8"

// writeAttachment sets the download headers for an exported report.
func writeAttachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", contentTypeHTML)
	c.Status(http.StatusOK)
}

// @Summary      Export equipment report
// @Description  Renders the current search result as a printable HTML report. Accepts the same query parameters as the search route.
// @Tags         relatorios
// @Produce      html
// @Param        q              query  string  false  "Term matched against serial, model and type"
// @Param        filtro_status  query  string  false  "Exact current status"
// @Param        filtro_dia     query  string  false  "Day a test was performed (YYYY-MM-DD)"
// @Param        filtro_mes     query  string  false  "Month a test was performed (YYYY-MM)"
// @Success      200  {string}  string  "HTML document"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/relatorios/equipamentos [get]
// @Security     BearerAuth
func (h *Handler) exportSearchReport(c *gin.Context) {
	ctx := c.Request.Context()
	ident, ok := h.identityFrom(c)
	if !ok {
		return
	}

	items, err := h.services.Equipment.Search(ctx, ident, searchFilterFromQuery(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errExportReport, "report_export_failed", err)
		return
	}

	now := models.Now()
	writeAttachment(c, reports.SearchFilename(now))
	if err := reports.RenderSearch(c.Writer, items, now); err != nil && h.log != nil {
		h.log.Errorw("report_render_failed", "err", err)
	}
}

// @Summary      Export history report
// @Description  Renders one device's full test history as a printable HTML report.
// @Tags         relatorios
// @Produce      html
// @Param        id  path  int  true  "Equipment ID"
// @Success      200  {string}  string  "HTML document"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/relatorios/equipamentos/{id}/historico [get]
// @Security     BearerAuth
func (h *Handler) exportHistoryReport(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	hist, err := h.services.History.ForEquipment(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errExportReport, "report_export_failed", err, "equipment_id", id)
		return
	}

	writeAttachment(c, reports.HistoryFilename(hist.Equipment.Serial))
	if err := reports.RenderHistory(c.Writer, hist, models.Now()); err != nil && h.log != nil {
		h.log.Errorw("report_render_failed", "err", err, "equipment_id", id)
	}
}
