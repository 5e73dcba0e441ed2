package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/clarecoast/shorebound/config"
	"github.com/clarecoast/shorebound/internal/clients/tides"
	"github.com/clarecoast/shorebound/internal/clients/weather"
	"github.com/clarecoast/shorebound/internal/handler"
	"github.com/clarecoast/shorebound/internal/middleware"
	"github.com/clarecoast/shorebound/internal/observability"
	"github.com/clarecoast/shorebound/internal/repository"
	"github.com/clarecoast/shorebound/internal/service"
	"github.com/clarecoast/shorebound/pkg/cache"
	"github.com/clarecoast/shorebound/pkg/database"
	"github.com/clarecoast/shorebound/pkg/rabbitmq"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ is optional; without it integration events are skipped.
	var publisher *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		var err error
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		logger.Info("RABBIT_URL not set, integration events disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	buddyRepo := repository.NewBuddyRepository(db)
	spotRepo := repository.NewSpotRepository(db)

	// Outbound clients + shared forecast cache
	forecastCache := cache.New(clock)
	weatherClient := weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimeout, metrics, logger)
	tidesClient := tides.NewClient(cfg.TidesBaseURL, cfg.TidesAPIKey, cfg.TidesTimeout, metrics, logger, clock)

	// Services
	activitySvc := service.NewActivityService(activityRepo)
	bookingSvc := service.NewBookingService(bookingRepo, activityRepo, publisher, metrics, clock)
	buddySvc := service.NewBuddyService(buddyRepo, publisher, metrics, clock)
	spotSvc := service.NewSpotService(spotRepo)
	accountSvc := service.NewAccountService(userRepo, bookingRepo, buddyRepo, cfg.JWTSecret, cfg.JWTExpiry, clock)
	safetySvc := service.NewSafetyService(weatherClient, tidesClient, forecastCache, service.SafetyConfig{
		WeatherTTL:       cfg.WeatherCacheTTL,
		TidesTTL:         cfg.TidesCacheTTL,
		TideTimeOffset:   time.Duration(cfg.TideTimeOffsetMinutes) * time.Minute,
		TideHeightOffset: cfg.TideHeightOffsetMeters,
	}, metrics, clock)

	auth := middleware.NewAuth(cfg.JWTSecret)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "shorebound"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler.NewAccountHandler(accountSvc, auth).RegisterRoutes(e)
	handler.NewActivityHandler(activitySvc, auth).RegisterRoutes(e)
	handler.NewBookingHandler(bookingSvc, auth, clock).RegisterRoutes(e)
	handler.NewBuddyHandler(buddySvc, auth).RegisterRoutes(e)
	handler.NewSafetyHandler(safetySvc).RegisterRoutes(e)
	handler.NewSpotHandler(spotSvc).RegisterRoutes(e)

	logger.Info("shorebound starting", "port", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
