package handlers

import (
	"net/http"

	"equiptrack/internal/logger"
	"equiptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.observeRequests)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Operational endpoints
	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live fleet overview over WebSocket, behind the same session check
	router.GET("/ws", h.identityMiddleware, h.wsOverview)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-in", h.signIn)
		auth.POST("/sign-out", h.signOut)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.identityMiddleware)
	{
		h.registerEquipmentRoutes(api)
		h.registerReportRoutes(api)
		h.registerAdminRoutes(api)
	}
}

func (h *Handler) registerEquipmentRoutes(api *gin.RouterGroup) {
	equip := api.Group("/equipamentos")
	{
		equip.GET("", h.listEquipment)
		equip.GET("/overview", h.getOverview)
		equip.GET("/search", h.searchEquipment)
		equip.GET("/:id/historico", h.getHistory)

		// Mutations are closed to scheduling-only accounts.
		write := equip.Group("", h.equipmentWriteAccess)
		{
			write.POST("", h.registerEquipment)
			write.POST("/:id/testes", h.recordTest)
			write.DELETE("/:id", h.deleteEquipment)
		}
	}
}

func (h *Handler) registerReportRoutes(api *gin.RouterGroup) {
	reports := api.Group("/relatorios")
	{
		reports.GET("/equipamentos", h.exportSearchReport)
		reports.GET("/equipamentos/:id/historico", h.exportHistoryReport)
	}
}

func (h *Handler) registerAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", h.adminAccess)
	{
		users := admin.Group("/users")
		{
			users.POST("", h.createUser)
			users.GET("", h.listUsers)
			users.DELETE("/:id", h.deleteUser)
			users.PUT("/:id/password", h.resetPassword)
		}
		admin.GET("/logs", h.getLogs)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
