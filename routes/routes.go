package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	controller "outreachly/controllers"
	"outreachly/middleware"
	"outreachly/worker"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	// Protected auth endpoints
	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Get("/me", controller.Me)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, appLogger *logrus.Logger, hub *worker.Hub, dispatcher *worker.Dispatcher) {
	campaignController := controller.NewCampaignController(db, appLogger.WithField("component", "campaign"), hub, dispatcher)
	contactController := controller.NewContactController(db, appLogger.WithField("component", "contact"))
	templateController := controller.NewTemplateController(db)

	api := app.Group("/api/v1", middleware.Protected(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Sender (SMTP credentials) routes; the live connection test is rate limited
	sender := api.Group("/sender")
	sender.Get("/", controller.GetSenderSettings)
	sender.Put("/", controller.UpdateSenderSettings)
	sender.Post("/test", middleware.SMTPTestRateLimiter(), controller.TestSenderConnection)

	// Contact routes
	contact := api.Group("/contacts")
	contact.Get("/", contactController.GetContacts)
	contact.Post("/import", contactController.ImportContacts)
	contact.Post("/match", contactController.MatchContacts)
	contact.Post("/match/confirm", contactController.ConfirmMatches)

	// Template routes
	template := api.Group("/templates")
	template.Post("/", templateController.CreateTemplate)
	template.Get("/", templateController.GetTemplates)

	// Campaign routes
	campaign := api.Group("/campaigns")
	campaign.Post("/", campaignController.CreateCampaign)
	campaign.Get("/", campaignController.GetCampaigns)
	campaign.Get("/:id", campaignController.GetCampaign)
	campaign.Post("/:id/exclude", campaignController.ExcludeRecipients)
	campaign.Post("/:id/start", campaignController.StartCampaign)
	campaign.Post("/:id/pause", campaignController.PauseCampaign)
	campaign.Post("/:id/resume", campaignController.ResumeCampaign)
	campaign.Post("/:id/retry", campaignController.RetryFailed)

	// WebSocket route for campaign progress
	app.Get("/api/v1/campaigns/:id/progress", middleware.Protected(), websocket.New(func(c *websocket.Conn) {
		campaignController.HandleCampaignProgressWS(c)
	}))
}

func SetupRoutes(app *fiber.App, db *gorm.DB, appLogger *logrus.Logger, hub *worker.Hub, dispatcher *worker.Dispatcher) {
	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app)
	SetupAPIRoutes(app, db, appLogger, hub, dispatcher)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
