package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1.
// Чтение открыто всем, мутации и экспорт закрыты админской сессией.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := SessionAuthMiddleware(h.sessionService, h.logger)

	locations := api.Group("/locations")
	{
		locations.GET("", h.listLocations)
		locations.GET("/stats", h.getStats)
		locations.GET("/export", auth, h.exportLocations)
		locations.GET("/:id", h.getLocation)
		locations.POST("", auth, h.createLocation)
		locations.PUT("/:id", auth, h.updateLocation)
		locations.DELETE("/:id", auth, h.deleteLocation)
	}

	// Маршруты админской сессии
	api.POST("/auth/login", h.login)
	api.GET("/auth/session", h.sessionStatus)
	api.POST("/auth/logout", auth, h.logout)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
