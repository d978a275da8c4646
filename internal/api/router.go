package api

import (
	"github.com/gin-gonic/gin"
	"station-dashboard/internal/config"
	"station-dashboard/internal/logging"
)

func NewRouter(logger *logging.Logger, cfg config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLoggingMiddleware(logger))

	r.GET("/health", h.Health)

	api := r.Group(cfg.API.BasePath)
	{
		// Stations
		api.GET("/stations", h.GetStations)
		api.GET("/stations/:id", h.GetStation)

		// Derived metrics
		api.GET("/summary", h.GetSummary)
		api.GET("/risks", h.GetRisks)

		// Chart datasets
		api.GET("/datasets/quality-mix", h.GetQualityMix)
		api.GET("/datasets/funnel", h.GetFunnel)
		api.GET("/datasets/shipments", h.GetShipments)
		api.GET("/datasets/pine-trend", h.GetPineTrend)

		// Live stream
		api.GET("/ws", h.Stream)
	}
	return r
}
