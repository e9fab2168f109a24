package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"campuscanteen/internal/analytics"
	"campuscanteen/internal/caching"
	"campuscanteen/internal/config"
	"campuscanteen/internal/handlers"
	"campuscanteen/internal/jobs/background"
	"campuscanteen/internal/middleware"
	"campuscanteen/internal/repositories"
	"campuscanteen/internal/services"
	"campuscanteen/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.SetLevel(parseLogLevel(cfg.Server.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
	}

	var cacheSvc caching.CacheService
	if cfg.Redis.Addr != "" {
		cacheSvc = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer cacheSvc.Close()
	} else {
		log.Warn("REDIS_ADDR not set, caching disabled")
	}

	var images services.ImageStore
	if cfg.Minio.Endpoint != "" {
		store, err := services.NewImageStore(cfg.Minio)
		if err != nil {
			log.Fatalf("Failed to initialize image store: %v", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Warnf("Image bucket %s unavailable: %v", cfg.Minio.Bucket, err)
		}
		images = store
	}

	// Repositories
	orderRepo := repositories.NewOrderRepo(pool)
	canteenRepo := repositories.NewCanteenRepo(pool)
	menuRepo := repositories.NewMenuItemRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	policy := services.NewAccessPolicy()

	// Services
	orderSvc := services.NewOrderService(orderRepo, canteenRepo, menuRepo, policy, cacheSvc)
	menuSvc := services.NewMenuService(menuRepo, canteenRepo, policy, cacheSvc, images, cfg.Redis.MenuCacheTTL)
	canteenSvc := services.NewCanteenService(canteenRepo, policy, cacheSvc, cfg.Redis.MenuCacheTTL)
	authSvc := services.NewAuthService(userRepo, canteenRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	paymentSvc := services.NewPaymentService(cfg.Cashfree, policy)
	// Stats entries outlive one refresh cycle.
	statsTTL := 2 * cfg.Jobs.StatsRefreshInterval
	if statsTTL <= 0 {
		statsTTL = cfg.Redis.MenuCacheTTL
	}
	statsSvc := analytics.NewStatsService(orderRepo, cacheSvc, policy, statsTTL)

	scheduler, err := background.NewJobScheduler(statsSvc, canteenSvc, cfg.Jobs.StatsRefreshInterval)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()

	// Handlers
	orderHandlers := handlers.NewOrderHandlers(orderSvc, statsSvc)
	menuHandlers := handlers.NewMenuHandlers(menuSvc)
	canteenHandlers := handlers.NewCanteenHandlers(canteenSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, images, scheduler.GetJobStatus)

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.VersionHeader())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	api := e.Group("/api")
	api.GET("/health", healthHandlers.HealthCheck)

	auth := api.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)

	rbac := middleware.NewRBACMiddleware(policy)

	protected := api.Group("")
	protected.Use(middleware.JWTMiddleware(authSvc))
	protected.Use(middleware.ResolveCaller(authSvc))

	protected.GET("/auth/me", authHandlers.Me)

	protected.GET("/canteens", canteenHandlers.ListCanteens)
	protected.GET("/canteens/:id", canteenHandlers.GetCanteen)
	protected.POST("/canteens", canteenHandlers.CreateCanteen, rbac.RequirePermission(services.PermCanteenWrite))

	protected.GET("/menu", menuHandlers.ListMenu)
	menuWrite := rbac.RequirePermission(services.PermMenuWrite)
	protected.POST("/menu", menuHandlers.CreateItem, menuWrite)
	protected.PUT("/menu/:id", menuHandlers.UpdateItem, menuWrite)
	protected.DELETE("/menu/:id", menuHandlers.DeleteItem, menuWrite)
	protected.POST("/menu/:id/image", menuHandlers.UploadImage, menuWrite)

	adminOnly := rbac.RequirePermission(services.PermOrderAdmin)
	protected.POST("/orders", orderHandlers.CreateOrder)
	protected.GET("/orders/my", orderHandlers.ListMyOrders)
	protected.GET("/orders/kitchen/queue", orderHandlers.KitchenQueue)
	protected.GET("/orders/kitchen/history", orderHandlers.KitchenHistory)
	protected.PATCH("/orders/:id/status", orderHandlers.UpdateStatus)
	protected.GET("/orders/admin/today", orderHandlers.TodayOrders, adminOnly)
	protected.GET("/orders/admin/stats", orderHandlers.DailyStats, adminOnly)

	protected.POST("/payments/create-order", paymentHandlers.CreatePaymentOrder)

	go func() {
		log.Infof("Campus canteen server v%s (API %s) starting on port %s",
			version, versionMiddleware.Current().Version, cfg.Server.Port)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
	if err := scheduler.Stop(); err != nil {
		log.Errorf("Job scheduler shutdown failed: %v", err)
	}
}

func parseLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
