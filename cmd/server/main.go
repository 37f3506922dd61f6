package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/expohall/backend/internal/application/payments"
	"github.com/expohall/backend/internal/application/vendors"
	"github.com/expohall/backend/internal/domain/shared"
	"github.com/expohall/backend/internal/infrastructure/auth"
	"github.com/expohall/backend/internal/infrastructure/billing"
	"github.com/expohall/backend/internal/infrastructure/cache"
	"github.com/expohall/backend/internal/infrastructure/config"
	"github.com/expohall/backend/internal/infrastructure/event"
	"github.com/expohall/backend/internal/infrastructure/logger"
	"github.com/expohall/backend/internal/infrastructure/persistence"
	"github.com/expohall/backend/internal/interfaces/http/handler"
	"github.com/expohall/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Expo Hall backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected")

	// Webhook event-id ledger. Redis when configured, in-memory otherwise;
	// reconciliation stays correct either way because its transitions are
	// idempotent.
	var idempotency shared.IdempotencyStore
	if cfg.Redis.Host != "" {
		store, err := cache.NewRedisIdempotencyStore(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory event ledger", zap.Error(err))
			idempotency = cache.NewInMemoryIdempotencyStore()
		} else {
			idempotency = store
		}
	} else {
		idempotency = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := idempotency.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	stripeConfig := &billing.StripeConfig{
		SecretKey:      cfg.Stripe.SecretKey,
		WebhookSecret:  cfg.Stripe.WebhookSecret,
		IsTestMode:     cfg.App.Env != "production",
		Currency:       cfg.Stripe.Currency,
		DaysUntilDue:   cfg.Stripe.DaysUntilDue,
		RequestTimeout: cfg.Stripe.RequestTimeout,
	}
	processor, err := billing.NewStripeAdapter(stripeConfig, log)
	if err != nil {
		log.Fatal("Failed to initialize payment processor", zap.Error(err))
	}

	// Repositories
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	boothRepo := persistence.NewGormBoothRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	allowlist := persistence.NewGormAdminAllowlist(db.DB)

	// Domain event bus with the notification projection attached
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewNotificationHandler(notificationRepo, log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	registrationService := vendors.NewRegistrationService(vendorRepo, boothRepo, log)
	issuanceService := payments.NewIssuanceService(vendorRepo, processor, log)
	cancellationService := payments.NewCancellationService(vendorRepo, processor, log)
	webhookService := payments.NewWebhookService(payments.WebhookServiceConfig{
		Vendors:     vendorRepo,
		Booths:      boothRepo,
		Processor:   processor,
		Idempotency: idempotency,
		EventBus:    eventBus,
		Logger:      log,
	})

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	router.Setup(engine, router.Config{
		JWTService: jwtService,
		Allowlist:  allowlist,
		Invoices:   handler.NewInvoiceHandler(issuanceService, cancellationService),
		Webhooks:   handler.NewWebhookHandler(webhookService, log),
		Vendors:    handler.NewVendorHandler(registrationService),
		Booths:     handler.NewBoothHandler(registrationService),
		System:     handler.NewSystemHandler(),
		Logger:     log,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
