package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/faras-store/backend/config"
	"github.com/faras-store/backend/controllers"
	"github.com/faras-store/backend/database"
	"github.com/faras-store/backend/events"
	"github.com/faras-store/backend/logger"
	"github.com/faras-store/backend/middleware"
	"github.com/faras-store/backend/models"
	"github.com/faras-store/backend/pricing"
	"github.com/faras-store/backend/repository"
	"github.com/faras-store/backend/routes"
	"github.com/faras-store/backend/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Postgres holds orders and users.
	db, err := database.ConnectPostgres(cfg.PostgresDSN(), logger.Log,
		&models.User{}, &models.Order{}, &models.OrderItem{})
	if err != nil {
		logger.Log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}

	// Mongo holds the catalog and blog.
	mongoClient, mongoDB, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDB, logger.Log)
	if err != nil {
		logger.Log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer database.DisconnectMongo(mongoClient)

	// Redis holds per-user carts.
	redisClient, err := database.NewRedisClient(cfg.RedisURL, logger.Log)
	if err != nil {
		logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	orderRepo := repository.NewGormOrderRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	productRepo := repository.NewMongoProductRepository(mongoDB)
	blogRepo := repository.NewMongoBlogRepository(mongoDB)
	cartRepo := repository.NewRedisCartRepository(redisClient, cfg.CartTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := productRepo.EnsureIndexes(ctx); err != nil {
		logger.Log.Warn("Failed to ensure product indexes", zap.Error(err))
	}
	cancel()

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer
	} else {
		logger.Log.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	rules := pricing.Rules{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
		TaxRate:               cfg.TaxRate,
	}

	productService := services.NewProductService(productRepo, logger.Log)
	blogService := services.NewBlogService(blogRepo, logger.Log)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry, logger.Log)
	cartService := services.NewCartService(cartRepo, productService, rules, logger.Log)
	orderService := services.NewOrderService(orderRepo, productService, rules, publisher, cfg.Currency, logger.Log)
	processor := services.NewStripeProcessor(cfg.StripeSecretKey)
	paymentService := services.NewPaymentService(orderRepo, processor, publisher, cfg.Currency, logger.Log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RateLimit())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(router, routes.Controllers{
		Auth:    controllers.NewAuthController(authService, userRepo),
		Product: controllers.NewProductController(productService),
		Blog:    controllers.NewBlogController(blogService),
		Cart:    controllers.NewCartController(cartService),
		Order:   controllers.NewOrderController(orderService),
		Payment: controllers.NewPaymentController(paymentService),
		Admin:   controllers.NewAdminController(orderRepo, productRepo, userRepo, logger.Log),
	}, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Storefront backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down gracefully")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Shutdown error", zap.Error(err))
	}
}
