package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hotel-backoffice/config"
	"hotel-backoffice/controllers"
	"hotel-backoffice/repository"
	"hotel-backoffice/routes"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"
)

func main() {
	cfg, dotenv := config.Load()

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	if !dotenv {
		logger.Info(".env not found; using environment variables")
	}

	db, err := config.ConnectDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("database connect failed", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	logger.Info("database ready", zap.String("driver", cfg.Database.Driver))

	cache := config.ConnectRedis(cfg.Redis, logger)
	if cache != nil {
		defer cache.Close()
	}

	store := repository.NewGormStore(db)
	settingsSvc := services.NewSettingsService(store, cache, cfg.Redis.TTL, logger)
	statusSvc := services.NewRoomStatusService(store, logger)
	maintenanceSvc := services.NewMaintenanceService(store, statusSvc, logger)
	roomTypeSvc := services.NewRoomTypeService(store, settingsSvc, logger)

	notifier := services.MultiNotifier{services.NewEmailNotifier(cfg.SMTP, settingsSvc, logger)}
	if cfg.WhatsApp.PhoneNumberID != "" && cfg.WhatsApp.Token != "" {
		wa := utils.NewWhatsAppClient(cfg.WhatsApp.BaseURL, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.Token, 10*time.Second)
		notifier = append(notifier, services.NewWhatsAppNotifier(wa, settingsSvc))
	}
	bookingSvc := services.NewBookingEditService(store, settingsSvc, statusSvc, notifier, logger)

	router := routes.SetupRouter(routes.Controllers{
		Bookings:    controllers.NewBookingController(bookingSvc),
		RoomTypes:   controllers.NewRoomTypeController(roomTypeSvc),
		Rooms:       controllers.NewRoomController(roomTypeSvc, statusSvc),
		Maintenance: controllers.NewMaintenanceController(maintenanceSvc, statusSvc),
		Settings:    controllers.NewSettingsController(settingsSvc),
	}, cfg.CORSOrigins, logger)

	// Heal rooms left in maintenance while the service was down.
	if summary, err := statusSvc.ReconcileMaintenanceStatuses(context.Background(), nil); err != nil {
		logger.Warn("startup reconciliation failed", zap.Error(err))
	} else {
		logger.Info("startup reconciliation done", zap.Int("checked", summary.Checked), zap.Int("changed", len(summary.Changed)))
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}
