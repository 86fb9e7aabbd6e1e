package api

import (
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"maintenance-backend/config"
	"maintenance-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, log *zap.Logger) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(mw.RequestLogger(log), gin.Recovery())

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Writes pass through the same middleware so they flush cached listings.
	cacheStore := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		machines := api.Group("/machines", caching)
		machines.GET("", h.GetMachines)
		machines.POST("", h.CreateMachine)
		machines.GET("/:id", h.GetMachine)
		machines.PUT("/:id", h.UpdateMachine)
		machines.DELETE("/:id", h.DeleteMachine)
		machines.GET("/:id/sensors", h.GetMachineSensors)

		parts := api.Group("/parts", caching)
		parts.GET("", h.GetParts)
		parts.POST("", h.CreatePart)
		parts.GET("/low-stock", h.GetLowStockParts)
		parts.GET("/:id", h.GetPart)
		parts.PUT("/:id", h.UpdatePart)
		parts.PATCH("/:id/stock", h.UpdatePartStock)
		parts.DELETE("/:id", h.DeletePart)

		sensors := api.Group("/sensors", caching)
		sensors.GET("", h.GetSensors)
		sensors.POST("", h.CreateSensor)
		sensors.GET("/alerts", h.GetSensorAlerts)
		sensors.GET("/readings/latest", h.GetLatestReadings)
		sensors.GET("/units", h.GetSensorUnits)
		sensors.GET("/:id", h.GetSensor)
		sensors.PUT("/:id", h.UpdateSensor)
		sensors.DELETE("/:id", h.DeleteSensor)
		sensors.GET("/:id/readings", h.GetSensorReadings)
		sensors.POST("/:id/readings", h.AddSensorReading)

		employees := api.Group("/employees", caching)
		employees.GET("", h.GetEmployees)
		employees.POST("", h.CreateEmployee)
		employees.GET("/:id", h.GetEmployee)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)

		orders := api.Group("/work-orders", caching)
		orders.GET("", h.GetWorkOrders)
		orders.POST("", h.CreateWorkOrder)
		orders.GET("/pending", h.GetPendingWorkOrders)
		orders.GET("/:id", h.GetWorkOrder)
		orders.PUT("/:id", h.UpdateWorkOrder)
		orders.DELETE("/:id", h.DeleteWorkOrder)
		orders.POST("/:id/parts", h.AddWorkOrderPart)
		orders.DELETE("/:id/parts/:part_id", h.RemoveWorkOrderPart)
		orders.POST("/:id/progress", h.RecordWorkOrderProgress)

		reports := api.Group("/reports")
		reports.GET("/summary", caching, h.GetReportSummary)
		reports.GET("/analytics", caching, h.GetReportAnalytics)
		reports.GET("/export", h.ExportReport)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
