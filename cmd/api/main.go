package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"turfbook/internal/config"
	"turfbook/internal/database"
	"turfbook/internal/middleware"
	"turfbook/internal/modules/availability"
	"turfbook/internal/modules/booking"
	"turfbook/internal/modules/notification"
	"turfbook/internal/modules/payment"
	"turfbook/internal/modules/rates"
	"turfbook/internal/pkg/clock"
	"turfbook/internal/pkg/logger"
	"turfbook/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog := logger.New(cfg.Env, cfg.LogLevel)
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	bookingRepo := repository.NewBookingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	calc := rates.NewCalculator(cfg.DayRate, cfg.NightRate, cfg.NightStartHour, cfg.NightEndHour)

	notificationService := notification.NewService(notificationRepo, zlog)
	notificationHandler := notification.NewHandler(notificationService)

	availabilityService := availability.NewService(bookingRepo, calc, clock.New())
	availabilityHandler := availability.NewHandler(availabilityService)

	bookingService := booking.NewService(bookingRepo, calc, notificationService, cfg.RequiredAdvance)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(bookingRepo, notificationService)
	paymentHandler := payment.NewHandler(paymentService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(zlog), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		availabilityHandler.RegisterRoutes(v1)
		bookingHandler.RegisterRoutes(v1)
		paymentHandler.RegisterRoutes(v1)
		notificationHandler.RegisterRoutes(v1)
	}

	zlog.Info("starting api", zap.String("port", cfg.AppPort))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
