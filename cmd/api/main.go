package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"aide-sociale/internal/config"
	"aide-sociale/internal/handler"
	"aide-sociale/internal/middleware"
	"aide-sociale/internal/pkg/i18n"
	pkglogger "aide-sociale/internal/pkg/logger"
	"aide-sociale/internal/repository"
	"aide-sociale/internal/service"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	pkglogger.Setup(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	if err := i18n.LoadTranslations(cfg.LocalesPath); err != nil {
		logrus.WithError(err).Warn("Failed to load email translations, labels will fall back to keys")
	}
	i18n.SetFallback(cfg.DefaultLanguage)

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Failed to connect to Redis, running without stats cache and realtime events")
		redis = nil
	} else {
		defer redis.Close()
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, cfg)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		ProxyHeader:  fiber.HeaderXForwardedFor,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handler.RegisterRoutes(app.Group("/api/v1"), handlers, middleware.AuthRequired(services.Auth))

	logrus.WithField("port", cfg.Port).Info("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}
