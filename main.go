package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patitas/config"
	"patitas/cron"
	"patitas/database"
	appointmentRepo "patitas/database/repository/appointment"
	catalogRepo "patitas/database/repository/catalog"
	recordsRepo "patitas/database/repository/records"
	slotRepo "patitas/database/repository/slot"
	"patitas/handlers"
	"patitas/routes"
	"patitas/services/availability"
	"patitas/services/booking"
	"patitas/services/notification"
	"patitas/services/reminder"
	"patitas/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAvailabilityCache()

	clock, err := utils.NewClinicTime(config.AppConfig.ClinicTimezone)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load clinic timezone %q: %v", config.AppConfig.ClinicTimezone, err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	slots := slotRepo.NewMongoSlotRepo()
	appointments := appointmentRepo.NewMongoAppointmentRepo()
	catalog := catalogRepo.NewMongoCatalogRepo()
	records := recordsRepo.NewMongoRecordsRepo()

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer idxCancel()
	if err := slots.EnsureIndexes(idxCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure slot indexes: %v", err)
	}
	if err := appointments.EnsureIndexes(idxCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}

	// services.
	availabilityService := &availability.DefaultAvailabilityService{
		SlotRepo:        slots,
		AppointmentRepo: appointments,
		Clock:           clock,
		Cache:           utils.GetAvailabilityCacheClient(),
	}

	bookingService := &booking.DefaultBookingService{
		AppointmentRepo: appointments,
		SlotRepo:        slots,
		CatalogRepo:     catalog,
		RecordsRepo:     records,
		Availability:    availabilityService,
	}

	reminderService := &reminder.DefaultReminderService{
		AppointmentRepo: appointments,
		RecordsRepo:     records,
		Mailer:          notification.NewSMTPSender(),
		Clock:           clock,
		ClinicName:      config.AppConfig.ClinicName,
	}

	cron.InitReminderWorker(reminderService)

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	bookingHandler := handlers.NewBookingHandler(bookingService, records, logger)
	catalogHandler := handlers.NewCatalogHandler(catalog)
	adminHandler := handlers.NewAdminHandler(reminderService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		RecordsRepo:  records,
		Availability: availabilityHandler,
		Booking:      bookingHandler,
		Catalog:      catalogHandler,
		Admin:        adminHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetAvailabilityCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
