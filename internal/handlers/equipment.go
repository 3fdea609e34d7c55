package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"equiptrack/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK         = "ok"
	statusRegistered = "registered"
	statusRetest     = "retest"
	statusRecorded   = "recorded"
	statusDeleted    = "deleted"
	statusSignedOut  = "signed_out"
	statusPWReset    = "password_reset"

	errSignIn            = "sign-in failed"
	errRegisterEquipment = "failed to register equipment"
	errListEquipment     = "failed to list equipment"
	errLoadOverview      = "failed to load overview"
	errSearchEquipment   = "failed to search equipment"
	errRecordTest        = "failed to record test"
	errDeleteEquipment   = "failed to delete equipment"
	errLoadHistory       = "failed to load history"
	errExportReport      = "failed to export report"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// pathID parses the :id route parameter, answering 400 on anything that is
// not a positive integer.
func (h *Handler) pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// Request DTO for registering equipment. The JSON keys match the field
// names the support screens post. All three are required: a re-register
// overwrites tipo/modelo, so accepting blanks would erase them.
type registerEquipmentRequest struct {
	Serial string `json:"serial" binding:"required"`
	Tipo   string `json:"tipo" binding:"required"`
	Modelo string `json:"modelo" binding:"required"`
}

// Request DTO for recording a test result.
type recordTestRequest struct {
	Status      string `json:"status" binding:"required"`
	Velocidade  string `json:"velocidade_teste"`
	Sinal       string `json:"sinal_dbm"`
	Observacoes string `json:"observacoes"`
}

// @Summary      Register equipment
// @Description  Registers a device by serial. Posting a known serial does not fail: the device keeps its identity and history and goes back to awaiting-test, which is how a re-test is requested.
// @Tags         equipamentos
// @Accept       json
// @Produce      json
// @Param        body  body      registerEquipmentRequest  true  "Device data"
// @Success      200   {object}  map[string]interface{}  "status=retest, equipamento"
// @Success      201   {object}  map[string]interface{}  "status=registered, equipamento"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/equipamentos [post]
// @Security     BearerAuth
func (h *Handler) registerEquipment(c *gin.Context) {
	ctx := c.Request.Context()
	ident, ok := h.identityFrom(c)
	if !ok {
		return
	}
	var input registerEquipmentRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	equip, created, err := h.services.Equipment.Register(ctx, ident, service.RegisterInput{
		Serial: input.Serial,
		Type:   input.Tipo,
		Model:  input.Modelo,
	})
	if err != nil {
		if errors.Is(err, service.ErrSerialRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errRegisterEquipment, "equipment_register_failed", err, "serial", input.Serial)
		return
	}

	code, status := http.StatusOK, statusRetest
	if created {
		code, status = http.StatusCreated, statusRegistered
	}
	c.JSON(code, gin.H{"status": status, "equipamento": equip})
}

// @Summary      List equipment
// @Tags         equipamentos
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, equipamentos"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/equipamentos [get]
// @Security     BearerAuth
func (h *Handler) listEquipment(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.services.Equipment.List(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListEquipment, "equipment_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":        len(items),
		"equipamentos": items,
	})
}

// @Summary      Fleet overview
// @Description  Aggregate counters for the dashboard: totals, per-status breakdown and devices still awaiting their first test.
// @Tags         equipamentos
// @Produce      json
// @Success      200  {object}  service.Overview
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/equipamentos/overview [get]
// @Security     BearerAuth
func (h *Handler) getOverview(c *gin.Context) {
	ctx := c.Request.Context()
	ov, err := h.services.Equipment.Overview(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadOverview, "overview_load_failed", err)
		return
	}
	c.JSON(http.StatusOK, ov)
}

// @Summary      Record test result
// @Description  Appends a test to the device history and moves the device status to the test outcome. Records are immutable once created.
// @Tags         equipamentos
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Equipment ID"
// @Param        body  body      recordTestRequest  true  "Test result"
// @Success      201   {object}  map[string]interface{}  "status=recorded, teste"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/equipamentos/{id}/testes [post]
// @Security     BearerAuth
func (h *Handler) recordTest(c *gin.Context) {
	ctx := c.Request.Context()
	ident, ok := h.identityFrom(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var input recordTestRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	rec, err := h.services.Equipment.RecordTest(ctx, ident, id, service.TestInput{
		Status:    input.Status,
		Speed:     input.Velocidade,
		SignalDBM: input.Sinal,
		Notes:     input.Observacoes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
		case errors.Is(err, service.ErrStatusRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errRecordTest, "test_record_failed", err, "equipment_id", id)
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": statusRecorded, "teste": rec})
}

// @Summary      Delete equipment
// @Description  Removes the device and its whole test history.
// @Tags         equipamentos
// @Produce      json
// @Param        id  path      int  true  "Equipment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/equipamentos/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteEquipment(c *gin.Context) {
	ctx := c.Request.Context()
	ident, ok := h.identityFrom(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.services.Equipment.Delete(ctx, ident, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errDeleteEquipment, "equipment_delete_failed", err, "equipment_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted, "id": id})
}
