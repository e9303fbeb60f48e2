package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"spmb/config"
	"spmb/services/admission/delivery"
	"spmb/services/admission/repository"
	"spmb/services/admission/usecase"
)

var log *logrus.Logger
var wg sync.WaitGroup

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment")
	}

	log = config.GetLogrusInstance()

	startHTTP()
}

func startHTTP() {
	log.Info("Starting HTTP")
	app := fiber.New(config.GetFiberConfig())

	// CORS Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// The registration store may be absent in a fresh deployment. Public
	// reads then serve empty lists and writes fail loudly, so the server
	// boots either way.
	db, err := config.BootDB()
	if err != nil {
		log.Errorf("Database unavailable, running without registration store: %v", err)
		db = nil
	}

	ctx := context.Background()

	pool, err := config.BootPgxPool(ctx)
	if err != nil {
		log.Errorf("Settings pool unavailable: %v", err)
		pool = nil
	}
	if pool != nil {
		if err := repository.MigrateSettings(ctx, pool); err != nil {
			log.Errorf("Settings migration failed: %v", err)
		}
	}

	redisClient, err := config.BootRedis()
	if err != nil {
		log.Errorf("Redis unavailable, logo cache disabled: %v", err)
		redisClient = nil
	}

	meowClient, mailDialer, err := config.InitSender()
	if err != nil {
		log.Errorf("Notification channels unavailable: %v", err)
	}
	emailSender, _ := config.GetEmailSender()
	schoolPhone, _ := config.GetSchoolPhone()

	metrics := config.GetMetrics()

	// Regis repo and Usecase Here
	registrationRepo := repository.NewRegistrationRepository(db)
	settingsRepo := repository.NewSettingsRepository(pool)
	logoCache := repository.NewRedisLogoCache(redisClient)
	draftStore := repository.NewMemoryDraftStore()
	assistant := repository.NewGeminiAssistant(os.Getenv("GEMINI_API_KEY"))
	notifier := repository.NewDecisionNotifier(meowClient, mailDialer, emailSender, schoolPhone)

	registrationUC := usecase.NewRegistrationUseCase(registrationRepo, draftStore, notifier, metrics, log, 30*time.Second)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, logoCache, log, 10*time.Second)
	chatUC := usecase.NewChatUseCase(assistant, metrics, 60*time.Second)

	// delivery here
	delivery.NewUserAuthDelivery(app, db)
	delivery.NewRegistrationDelivery(app, registrationUC, draftStore)
	delivery.NewAdminDelivery(app, registrationUC)
	delivery.NewPublicDelivery(app, registrationUC)
	delivery.NewChatDelivery(app, chatUC)
	delivery.NewSettingsDelivery(app, settingsUC)

	app.Get("/metrics", func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())(c.Context())
		return nil
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("Starting HTTP server for Public on port %s", config.GetFiberHttpPort())
		if err := app.Listen(config.GetFiberListenAddress()); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, os.Kill)

	<-signalChan

	log.Info("Shutting down the server...")

	if err := app.Shutdown(); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}
	draftStore.Close()

	wg.Wait()
	log.Info("Server shut down gracefully")
}
