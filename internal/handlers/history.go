package handlers

import (
	"errors"
	"net/http"

	"equiptrack/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Equipment history
// @Description  The device, how long it has been in the field, and its tests newest first. Each test carries the elapsed time since the previous event on the same device.
// @Tags         equipamentos
// @Produce      json
// @Param        id  path  int  true  "Equipment ID"
// @Success      200  {object}  service.EquipmentHistory
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/equipamentos/{id}/historico [get]
// @Security     BearerAuth
func (h *Handler) getHistory(c *gin.Context) {
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
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "history_load_failed", err, "equipment_id", id)
		return
	}
	c.JSON(http.StatusOK, hist)
}
