package handlers

import (
	"net/http"
	"strings"

	"equiptrack/internal/service"

	"github.com/gin-gonic/gin"
)

// searchFilterFromQuery maps the query string onto a service filter. The
// parameter names are the ones the search screen submits: q, filtro_status,
// filtro_dia, filtro_mes.
func searchFilterFromQuery(c *gin.Context) service.SearchFilter {
	return service.SearchFilter{
		Term:   strings.TrimSpace(c.Query("q")),
		Status: strings.TrimSpace(c.Query("filtro_status")),
		Day:    strings.TrimSpace(c.Query("filtro_dia")),
		Month:  strings.TrimSpace(c.Query("filtro_mes")),
	}
}

// @Summary      Search equipment
// @Description  Text search over serial, model and type plus optional status and test-date filters. filtro_dia (YYYY-MM-DD) takes precedence over filtro_mes (YYYY-MM); malformed dates are logged and ignored rather than failing the search.
// @Tags         equipamentos
// @Produce      json
// @Param        q              query  string  false  "Term matched against serial, model and type"
// @Param        filtro_status  query  string  false  "Exact current status"
// @Param        filtro_dia     query  string  false  "Day a test was performed (YYYY-MM-DD)"
// @Param        filtro_mes     query  string  false  "Month a test was performed (YYYY-MM)"
// @Success      200  {object}  map[string]interface{}  "count, equipamentos"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/equipamentos/search [get]
// @Security     BearerAuth
func (h *Handler) searchEquipment(c *gin.Context) {
	ctx := c.Request.Context()
	ident, ok := h.identityFrom(c)
	if !ok {
		return
	}

	items, err := h.services.Equipment.Search(ctx, ident, searchFilterFromQuery(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSearchEquipment, "equipment_search_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":        len(items),
		"equipamentos": items,
	})
}
