package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-backoffice/controllers"
	"hotel-backoffice/middleware"
)

type Controllers struct {
	Bookings    *controllers.BookingController
	RoomTypes   *controllers.RoomTypeController
	Rooms       *controllers.RoomController
	Maintenance *controllers.MaintenanceController
	Settings    *controllers.SettingsController
}

func SetupRouter(ctl Controllers, origins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))

	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.AdminIDHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.AdminIdentity())
	{
		bookings := api.Group("/bookings")
		{
			// quote must be registered before /:id
			bookings.POST("/quote", ctl.Bookings.Quote)
			bookings.GET("/:id", ctl.Bookings.GetBooking)
			bookings.PUT("/:id", ctl.Bookings.UpdateBooking)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", ctl.RoomTypes.GetRoomTypes)
			roomTypes.POST("", ctl.RoomTypes.CreateRoomType)
			roomTypes.PUT("/:id", ctl.RoomTypes.UpdateRoomType)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			rooms.GET("/:id/policy", ctl.Rooms.GetRoomPolicy)
			rooms.PATCH("/:id/status", ctl.Rooms.UpdateRoomStatus)
		}

		maintenance := api.Group("/maintenance")
		{
			maintenance.GET("/schedules", ctl.Maintenance.ListSchedules)
			maintenance.POST("/schedules", ctl.Maintenance.CreateSchedule)
			maintenance.PUT("/schedules/:id", ctl.Maintenance.UpdateSchedule)
			maintenance.DELETE("/schedules/:id", ctl.Maintenance.DeleteSchedule)
			maintenance.POST("/reconcile", ctl.Maintenance.Reconcile)
			maintenance.GET("/logs", ctl.Maintenance.ListLogs)
			maintenance.GET("/logs/export", ctl.Maintenance.ExportLogs)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", ctl.Settings.GetSettings)
			settings.PUT("/:key", ctl.Settings.UpdateSetting)
		}
	}

	return r
}
