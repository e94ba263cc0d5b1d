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

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/broker"
	"storefront-service/internal/catalog"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/internal/util"
	"storefront-service/internal/validation"
	"storefront-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer(util.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	products, err := loadCatalog(cfg.Catalog.File)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	logger.Info("Catalog loaded", zap.Int("products", products.Len()))

	validator, err := validation.NewCheckoutValidator(time.Now)
	if err != nil {
		logger.Fatal("Failed to build checkout validator", zap.Error(err))
	}

	checks := map[string]api.Pinger{}

	var orders store.OrderStore = store.NewMemoryOrderStore()
	if cfg.Database.URL != "" {
		db, err := store.NewStore(cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		orders = db
		checks["postgres"] = db
		logger.Info("Database connected")
	} else {
		logger.Info("DATABASE_URL not set, keeping orders in memory")
	}

	newsletter := service.NewNewsletterService()
	opts := []service.CheckoutOption{}

	if cfg.Redis.Addr != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.IdempotencyTTL)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		opts = append(opts, service.WithIdempotency(redisClient))
		checks["redis"] = redisClient
		logger.Info("Redis connected")
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var newsletterWorker *worker.NewsletterWorker
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		defer producer.Close()
		opts = append(opts, service.WithEventPublisher(broker.NewEventPublisher(producer)))
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
		newsletterWorker = worker.NewNewsletterWorker(consumer, newsletter)
		go func() {
			if err := newsletterWorker.Start(workerCtx); err != nil && workerCtx.Err() == nil {
				logger.Error("Newsletter worker error", zap.Error(err))
			}
		}()
	} else {
		opts = append(opts, service.WithEventPublisher(service.NewInProcessPublisher(newsletter.HandleOrderPlaced)))
	}

	paymentService := service.NewPaymentService(cfg.Checkout.ProcessingDelay)
	checkoutService := service.NewCheckoutService(validator, orders, paymentService, opts...)
	catalogService := service.NewCatalogService(products, cfg.Server.PublicBaseURL)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(catalogService, checkoutService)
	for name, p := range checks {
		handler.AddReadinessCheck(name, p)
	}
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if newsletterWorker != nil {
		if err := newsletterWorker.Stop(); err != nil {
			logger.Warn("Failed to stop newsletter worker", zap.Error(err))
		}
	}

	logger.Info("Server exited", zap.Int("newsletter_subscribers", newsletter.Count()))
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
