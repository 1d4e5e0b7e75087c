package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "catalogbooking/api/swagger" // swagger docs
	"catalogbooking/internal/config"
	"catalogbooking/internal/database"
	"catalogbooking/internal/events"
	"catalogbooking/internal/handler"
	"catalogbooking/internal/lock"
	"catalogbooking/internal/middleware"
	"catalogbooking/internal/repository"
	"catalogbooking/internal/service"
	"catalogbooking/internal/websocket"
	"catalogbooking/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// @title           Catalog & Booking API
// @version         1.0
// @description     Prices catalog items and admits non-overlapping bookings.
// @host            localhost:8080
// @BasePath        /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(cfg.DB, log)
	if err != nil {
		return err
	}
	log.Info("connected to postgres", zap.String("host", cfg.DB.Host), zap.String("database", cfg.DB.Name))

	// Booking event fan-out: websocket feed always, broker when configured
	wsHub := websocket.NewHub(log.Named("ws"))
	go wsHub.Run(ctx)

	publishers := events.Fanout{wsHub}
	if cfg.Broker.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			return err
		}
		defer func() { _ = amqpPublisher.Close() }()
		publishers = append(publishers, amqpPublisher)
		log.Info("publishing booking events", zap.String("exchange", cfg.Broker.Exchange))
	}
	publisher := events.LogErrors(log.Named("events"), publishers)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	catalogRepo := repository.NewCatalogRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	pricingService := service.NewPricingService(catalogRepo)
	catalogService := service.NewCatalogService(catalogRepo, auditRepo, txManager)
	bookingService := service.NewBookingService(catalogRepo, bookingRepo, auditRepo, txManager, pricingService, lock.NewKeyedMutex(), publisher)
	auditService := service.NewAuditService(auditRepo)

	categoryHandler := handler.NewCategoryHandler(catalogService)
	itemHandler := handler.NewItemHandler(catalogService, pricingService, bookingService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	auditHandler := handler.NewAuditHandler(auditService)

	gin.SetMode(cfg.GinMode)
	handler.RegisterValidators()
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log.Named("http")))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c)
	})

	api := router.Group("", middleware.Timeout(cfg.RequestTimeout))
	categoryHandler.RegisterRoutes(api)
	itemHandler.RegisterRoutes(api)
	bookingHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
