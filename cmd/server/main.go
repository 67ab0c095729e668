package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/erp/ledger/internal/application/billing"
	countingapp "github.com/erp/ledger/internal/application/counting"
	fulfillmentapp "github.com/erp/ledger/internal/application/fulfillment"
	procurementapp "github.com/erp/ledger/internal/application/procurement"
	stockapp "github.com/erp/ledger/internal/application/stock"
	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/erp/ledger/internal/infrastructure/event"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"github.com/erp/ledger/internal/infrastructure/scheduler"
	"github.com/erp/ledger/internal/interfaces/http/handler"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/erp/ledger/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	receiptRepo := persistence.NewGormGoodsReceiptRepository(db.DB)
	supplierInvoiceRepo := persistence.NewGormSupplierInvoiceRepository(db.DB)
	salesInvoiceRepo := persistence.NewGormSalesInvoiceRepository(db.DB)

	// Initialize application services with transactional scopes
	stockService := stockapp.NewStockService(
		productRepo, movementRepo,
		persistence.NewStockTransactionScope(db.DB),
	)
	countingService := countingapp.NewCountingService(
		sessionRepo, productRepo,
		persistence.NewCountingTransactionScope(db.DB),
	)
	fulfillmentScope := persistence.NewFulfillmentTransactionScope(db.DB)
	orderService := fulfillmentapp.NewOrderService(orderRepo, productRepo, fulfillmentScope)
	shipmentService := fulfillmentapp.NewShipmentService(shipmentRepo, fulfillmentScope)
	returnService := fulfillmentapp.NewReturnService(returnRepo, orderRepo, fulfillmentScope)
	procurementService := procurementapp.NewProcurementService(
		purchaseOrderRepo, receiptRepo, supplierInvoiceRepo,
		persistence.NewProcurementTransactionScope(db.DB),
	)
	billingService := billingapp.NewBillingService(salesInvoiceRepo)

	// Initialize event bus and wire it into the services
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingHandler(log))

	stockService.SetEventPublisher(eventBus)
	countingService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	shipmentService.SetEventPublisher(eventBus)
	returnService.SetEventPublisher(eventBus)
	procurementService.SetEventPublisher(eventBus)
	billingService.SetEventPublisher(eventBus)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Start the periodic overdue invoice sweep
	schedulerConfig := scheduler.DefaultOverdueSchedulerConfig()
	schedulerConfig.Enabled = cfg.Scheduler.OverdueSweepEnabled
	schedulerConfig.Interval = cfg.Scheduler.OverdueSweepInterval
	overdueScheduler := scheduler.NewOverdueScheduler(schedulerConfig, billingService, log)
	if err := overdueScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start overdue scheduler", zap.Error(err))
	}
	defer overdueScheduler.Stop()

	// Set gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create gin engine with middleware
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	middleware.SetupValidator()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.CORSWithConfig(corsConfig),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	// Health probe for load balancers and orchestration
	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Register domain routes under /api/v1
	r := router.NewRouter(engine)
	r.Register(handler.NewStockHandler(stockService)).
		Register(handler.NewCountingHandler(countingService)).
		Register(handler.NewFulfillmentHandler(orderService, shipmentService, returnService)).
		Register(handler.NewProcurementHandler(procurementService)).
		Register(handler.NewBillingHandler(billingService)).
		Register(handler.NewSystemHandler())
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in a goroutine so shutdown signals can be handled
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
