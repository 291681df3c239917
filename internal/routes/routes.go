package routes

import (
	"assist_backend/internal/handlers"
	"assist_backend/internal/logger"
	"assist_backend/internal/metrics"
	"assist_backend/internal/middleware"
	"assist_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
) {
	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		// Публичные маршруты
		appHandlers.AuthHandler.RegisterRoutes(api)

		// Все остальное требует аутентификации
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			appHandlers.ProfileHandler.RegisterRoutes(protected)
			appHandlers.LinkingHandler.RegisterRoutes(protected)
			appHandlers.RequestHandler.RegisterRoutes(protected)
			appHandlers.ChatHandler.RegisterRoutes(protected)
			appHandlers.ButtonHandler.RegisterRoutes(protected)
			appHandlers.SettingsHandler.RegisterRoutes(protected)
		}
	}

	// Prometheus-метрики
	ginRouter.GET("/metrics", metrics.Handler())

	// Регистрация WebSocket
	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
