package main

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"outreachly/config"
	"outreachly/middleware"
	"outreachly/models"
	"outreachly/routes"
	"outreachly/utils"
	"outreachly/worker"
)

func main() {
	appLogger := logrus.New()
	appLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		appLogger.Fatalf("Failed to load configuration: %v", err)
	}

	if config.AppConfig.Environment == "development" {
		appLogger.SetLevel(logrus.DebugLevel)
	}

	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			appLogger.Warnf("Sentry initialization failed: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		appLogger.Fatalf("Failed to connect to database: %v", err)
	}

	store := worker.NewGormStore(config.DB)

	// Any campaign still marked sending died mid-run in a previous process;
	// park it before accepting traffic.
	if err := worker.RecoverStaleCampaigns(store, appLogger.WithField("component", "recovery")); err != nil {
		appLogger.Fatalf("Crash recovery failed: %v", err)
	}

	quota := worker.NewDailyQuota()
	hub := worker.NewHub()

	dial := func(user *models.User) (worker.Mailer, error) {
		return utils.DialCampaignMailer(user)
	}
	dispatcher := worker.NewDispatcher(store, quota, dial, config.SenderLimits, appLogger.WithField("component", "dispatcher"))

	// Create Fiber app
	app := fiber.New()
	app.Use(middleware.CORS())

	routes.SetupRoutes(app, config.DB, appLogger, hub, dispatcher)

	appLogger.Infof("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		appLogger.Fatalf("Failed to start server: %v", err)
	}
}
