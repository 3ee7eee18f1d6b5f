package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hotel-pms-backend/config"
	"hotel-pms-backend/controllers"
	"hotel-pms-backend/routes"
	"hotel-pms-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	cfg := config.Load()

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("database connection established, migrations applied")

	// Services
	userService := services.NewUserService(db)
	roomService := services.NewRoomService(db)
	guestService := services.NewGuestService(db)
	reservationService := services.NewReservationService(db)
	paymentService := services.NewPaymentService(db)
	maintenanceService := services.NewMaintenanceService(db)
	reportService := services.NewReportService(db)

	// Controllers
	tokenTTL := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	ctl := routes.Controllers{
		Auth:         controllers.NewAuthController(userService, cfg.Auth.JWTSecret, tokenTTL),
		Users:        controllers.NewUserController(userService),
		Rooms:        controllers.NewRoomController(roomService),
		Guests:       controllers.NewGuestController(guestService),
		Reservations: controllers.NewReservationController(reservationService),
		Payments:     controllers.NewPaymentController(paymentService),
		Maintenance:  controllers.NewMaintenanceController(maintenanceService),
		Dashboard:    controllers.NewDashboardController(reportService),
		Reports:      controllers.NewReportController(reportService),
	}

	router := routes.SetupRouter(cfg, ctl)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server stopped gracefully")
}
