package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"hotel-pms-backend/config"
	"hotel-pms-backend/controllers"
	"hotel-pms-backend/middleware"
)

type Controllers struct {
	Auth         *controllers.AuthController
	Users        *controllers.UserController
	Rooms        *controllers.RoomController
	Guests       *controllers.GuestController
	Reservations *controllers.ReservationController
	Payments     *controllers.PaymentController
	Maintenance  *controllers.MaintenanceController
	Dashboard    *controllers.DashboardController
	Reports      *controllers.ReportController
}

func SetupRouter(cfg *config.Config, ctl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := cfg.Server.CORSOrigins
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
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		loginLimit := rate.Limit(cfg.Server.LoginRatePerMin / 60)
		auth.POST("/login", middleware.RateLimiter(loginLimit, cfg.Server.LoginBurst), ctl.Auth.Login)

		authed := auth.Group("")
		authed.Use(middleware.RequireAuth(cfg.Auth.JWTSecret))
		{
			authed.GET("/verify", ctl.Auth.Verify)
			authed.GET("/me", ctl.Auth.Me)
		}
	}

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(cfg.Auth.JWTSecret))
	{
		users := protected.Group("/users")
		users.Use(middleware.RequireAdmin())
		{
			users.GET("", ctl.Users.List)
			users.POST("", ctl.Users.Create)
			users.GET("/:id", ctl.Users.Get)
			users.PUT("/:id", ctl.Users.Update)
			users.DELETE("/:id", ctl.Users.Delete)
		}

		rooms := protected.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.List)
			rooms.POST("", ctl.Rooms.Create)
			rooms.GET("/available", ctl.Rooms.Available)
			rooms.GET("/:id", ctl.Rooms.Get)
			rooms.PUT("/:id", ctl.Rooms.Update)
			rooms.PATCH("/:id/status", ctl.Rooms.UpdateStatus)
			rooms.DELETE("/:id", ctl.Rooms.Delete)
		}

		guests := protected.Group("/guests")
		{
			guests.GET("", ctl.Guests.List)
			guests.POST("", ctl.Guests.Create)
			guests.GET("/search", ctl.Guests.Search)
			guests.GET("/:id", ctl.Guests.Get)
			guests.PUT("/:id", ctl.Guests.Update)
			guests.GET("/:id/reservations", ctl.Guests.Reservations)
			guests.DELETE("/:id", ctl.Guests.Delete)
		}

		reservations := protected.Group("/reservations")
		{
			reservations.GET("", ctl.Reservations.List)
			reservations.POST("", ctl.Reservations.Create)
			reservations.GET("/arrivals", ctl.Reservations.TodayArrivals)
			reservations.GET("/departures", ctl.Reservations.TodayDepartures)
			reservations.GET("/:id", ctl.Reservations.Get)
			reservations.PUT("/:id", ctl.Reservations.Update)
			reservations.POST("/:id/confirm", ctl.Reservations.Confirm)
			reservations.POST("/:id/check-in", ctl.Reservations.CheckIn)
			reservations.POST("/:id/check-out", ctl.Reservations.CheckOut)
			reservations.POST("/:id/cancel", ctl.Reservations.Cancel)
		}

		payments := protected.Group("/payments")
		{
			payments.GET("", ctl.Payments.List)
			payments.POST("", ctl.Payments.Create)
			payments.GET("/reservation/:reservationId", ctl.Payments.ByReservation)
			payments.GET("/reservation/:reservationId/summary", ctl.Payments.Summary)
			payments.GET("/:id", ctl.Payments.Get)
			payments.POST("/:id/refund", ctl.Payments.Refund)
		}

		maintenance := protected.Group("/maintenance")
		{
			maintenance.GET("", ctl.Maintenance.List)
			maintenance.POST("", ctl.Maintenance.Create)
			maintenance.GET("/pending", ctl.Maintenance.Pending)
			maintenance.GET("/room/:roomId", ctl.Maintenance.ByRoom)
			maintenance.GET("/:id", ctl.Maintenance.Get)
			maintenance.PUT("/:id", ctl.Maintenance.Update)
			maintenance.POST("/:id/assign", ctl.Maintenance.Assign)
			maintenance.POST("/:id/complete", ctl.Maintenance.Complete)
			maintenance.POST("/:id/cancel", ctl.Maintenance.Cancel)
		}

		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("/stats", ctl.Dashboard.Stats)
			dashboard.GET("/activities", ctl.Dashboard.Activities)
		}

		reports := protected.Group("/reports")
		{
			reports.GET("/occupancy", ctl.Reports.Occupancy)
			reports.GET("/revenue", ctl.Reports.Revenue)
			reports.GET("/financial", ctl.Reports.Financial)
			reports.GET("/guests", ctl.Reports.Guests)
			reports.GET("/room-performance", ctl.Reports.RoomPerformance)
			reports.GET("/export", ctl.Reports.Export)
		}
	}

	return r
}
