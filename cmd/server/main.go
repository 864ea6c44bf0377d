package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	importapp "github.com/sellerops/backend/internal/application/import"
	appsales "github.com/sellerops/backend/internal/application/sales"
	"github.com/sellerops/backend/internal/domain/catalog"
	"github.com/sellerops/backend/internal/infrastructure/auth"
	"github.com/sellerops/backend/internal/infrastructure/config"
	"github.com/sellerops/backend/internal/infrastructure/exchange"
	"github.com/sellerops/backend/internal/infrastructure/logger"
	"github.com/sellerops/backend/internal/infrastructure/persistence"
	"github.com/sellerops/backend/internal/interfaces/http/handler"
	"github.com/sellerops/backend/internal/interfaces/http/middleware"
	"github.com/sellerops/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SellerOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

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
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	mappingRepo := persistence.NewGormListingMappingRepository(db.DB)
	batchRepo := persistence.NewGormImportBatchRepository(db.DB)
	recordRepo := persistence.NewGormSalesRecordRepository(db.DB)

	// Exchange rates (CNY based, cached in process)
	rateProvider, err := exchange.NewRateProvider(&exchange.Config{
		BaseURL:        cfg.Exchange.BaseURL,
		APIKey:         cfg.Exchange.APIKey,
		TimeoutSeconds: cfg.Exchange.TimeoutSeconds,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize exchange rate provider", zap.Error(err))
	}

	// JWT validation and token revocation. Redis keeps revocations
	// across restarts; without it the blacklist is per-process.
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis for token blacklist", zap.Error(err))
		}
		blacklist = redisBlacklist
		log.Info("Token blacklist backed by Redis",
			zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, token revocations will not survive restarts")
	}

	// Initialize application services
	matcher := catalog.NewMatcher(listingRepo, mappingRepo)
	importService := importapp.NewSalesImportService(batchRepo, recordRepo, storeRepo, matcher, log)
	queryService := appsales.NewQueryService(recordRepo, storeRepo, rateProvider, log)

	// Initialize handlers
	systemHandler := handler.NewSystemHandler()
	authHandler := handler.NewAuthHandler(blacklist, log)
	importHandler := handler.NewSalesImportHandler(importService, cfg.Upload, log)
	salesHandler := handler.NewSalesHandler(queryService)
	catalogHandler := handler.NewCatalogHandler(productRepo)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit covers spreadsheet uploads too
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth: token introspection and revocation
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.POST("/logout", authHandler.Logout)

	// Imports: spreadsheet preview/confirm. Uploads get their own
	// rate limit on top of the global middleware stack.
	uploadLimiter := middleware.NewRateLimiter(10, time.Minute)
	importRoutes := router.NewDomainGroup("imports", "/imports")
	importRoutes.Use(middleware.RateLimit(uploadLimiter))
	importRoutes.POST("/preview", importHandler.Preview)
	importRoutes.POST("/confirm", importHandler.Confirm)

	// Batches: listing and rollback
	batchRoutes := router.NewDomainGroup("batches", "/batches")
	batchRoutes.GET("", importHandler.ListBatches)
	batchRoutes.POST("/:id/rollback", importHandler.Rollback)

	// Sales: scoped record queries and stats
	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.GET("/records", salesHandler.ListRecords)
	salesRoutes.GET("/stats", salesHandler.Stats)

	// Stores the caller may import into
	storeRoutes := router.NewDomainGroup("stores", "/stores")
	storeRoutes.GET("", salesHandler.ListStores)

	// Catalog reference data
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/products", catalogHandler.ListProducts)
	catalogRoutes.GET("/products/:id", catalogHandler.GetProduct)

	// System utilities
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(authRoutes).
		Register(importRoutes).
		Register(batchRoutes).
		Register(salesRoutes).
		Register(storeRoutes).
		Register(catalogRoutes).
		Register(systemRoutes)

	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
