package router

import (
	"procureMatch/internal/middleware"
	"procureMatch/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendHandler) {
	reco := api.Group("/recommendations")

	// identity is optional for serving; admin operations are gated
	reco.GET("", handler.Recommend, middleware.OptionalAuthMiddleware())
	reco.GET("/stats", handler.Statistics, middleware.AuthMiddleware(), middleware.AdminOnly())
	reco.POST("/cache/invalidate", handler.InvalidateCache, middleware.AuthMiddleware(), middleware.AdminOnly())
}

func SetupCatalogRoutes(api *echo.Group, handler *rest.CatalogHandler) {
	catalog := api.Group("/catalog")

	catalog.GET("", handler.GetAllItems, middleware.OptionalAuthMiddleware())
	catalog.GET("/:item_id", handler.GetItemByID, middleware.OptionalAuthMiddleware())
	catalog.POST("/bulk", handler.BulkUpsert, middleware.AuthMiddleware(), middleware.AdminOnly())
}
