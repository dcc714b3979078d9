package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietbevis/kma-training-support-sub000/config"
	"github.com/vietbevis/kma-training-support-sub000/internal/api/handler"
	"github.com/vietbevis/kma-training-support-sub000/internal/api/middleware"
	"github.com/vietbevis/kma-training-support-sub000/pkg/jwt"
)

// Setup builds the Gin engine with all middleware and routes.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Upload.MaxBytes))
	r.Use(middleware.Identity(jwtMgr))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		imports := v1.Group("/imports")
		{
			imports.POST("/timetable", h.Import.ImportTimetable)
			imports.POST("/standard-hours", h.Import.ImportStandardHours)
		}

		schedules := v1.Group("/schedules")
		{
			schedules.GET("", h.Schedule.List)
			schedules.POST("", h.Schedule.Create)
			schedules.POST("/check-conflict", h.Schedule.CheckConflict)
			schedules.GET("/:id", h.Schedule.Get)
			schedules.PUT("/:id", h.Schedule.Update)
			schedules.DELETE("/:id", h.Schedule.Delete)
		}

		buildings := v1.Group("/buildings")
		{
			buildings.GET("/:id/availability", h.Availability.GetRoomAvailability)
		}

		export := v1.Group("/export")
		{
			export.GET("/schedules", h.Export.ExportSchedules)
		}
	}

	return r
}
