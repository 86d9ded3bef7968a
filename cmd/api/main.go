package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/miftal/academy-api/api/swagger"
	"github.com/miftal/academy-api/internal/handler"
	"github.com/miftal/academy-api/internal/middleware"
	"github.com/miftal/academy-api/internal/models"
	"github.com/miftal/academy-api/internal/repository"
	"github.com/miftal/academy-api/internal/service"
	"github.com/miftal/academy-api/pkg/cache"
	"github.com/miftal/academy-api/pkg/config"
	"github.com/miftal/academy-api/pkg/database"
	"github.com/miftal/academy-api/pkg/logger"
	corsmiddleware "github.com/miftal/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/miftal/academy-api/pkg/middleware/requestid"
	"github.com/miftal/academy-api/pkg/storage"
)

// @title Miftal Academy API
// @version 1.0.0
// @description Course catalog, registrations and contact back office
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		redisRepo := repository.NewCacheRepository(redisClient, logr)
		defer redisRepo.Close() //nolint:errcheck
		cacheRepo = redisRepo
	}

	catalogCache := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled)
	dashboardCache := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)
	adminCache := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled || cfg.Dashboard.CacheEnabled)

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	exportSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	courseRepo := repository.NewCourseRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	contactRepo := repository.NewContactRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	catalogSvc := service.NewCatalogService(courseRepo, catalogCache, logr, service.CatalogServiceConfig{
		FeaturedLimit: cfg.Catalog.FeaturedLimit,
		CacheTTL:      cfg.Catalog.CacheTTL,
	})
	registrationSvc := service.NewRegistrationService(registrationRepo, dashboardCache, nil, logr)
	contactSvc := service.NewContactService(contactRepo, dashboardCache, nil, logr)
	courseAdminSvc := service.NewCourseAdminService(courseRepo, uploadStore, adminCache, nil, logr, service.CourseAdminServiceConfig{
		PublicBaseURL:  cfg.Uploads.PublicBaseURL,
		PlaceholderURL: cfg.Uploads.PlaceholderURL,
	})
	dashboardSvc := service.NewDashboardService(courseRepo, registrationRepo, contactRepo, dashboardCache, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})
	exportSvc := service.NewExportService(courseRepo, registrationRepo, contactRepo, exportStore, exportSigner, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
	}, logr, nil, nil)

	courseHandler := handler.NewCourseHandler(catalogSvc)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc)
	contactHandler := handler.NewContactHandler(contactSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	courseAdminHandler := handler.NewCourseAdminHandler(courseAdminSvc, cfg.Uploads.MaxFileSizeBytes)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Static("/uploads", cfg.Uploads.StorageDir)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/courses", courseHandler.List)
		api.GET("/courses/featured", courseHandler.Featured)
		api.GET("/courses/:id", courseHandler.Get)
		api.POST("/registrations", middleware.OptionalJWT(authSvc), registrationHandler.Submit)
		api.POST("/contact", contactHandler.Submit)
		api.GET("/exports/download", exportHandler.Download)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
			auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		}

		admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/dashboard", dashboardHandler.Stats)
			admin.GET("/metrics", metricsHandler.Snapshot)

			admin.POST("/courses", courseAdminHandler.Create)
			admin.PUT("/courses/:id", courseAdminHandler.Update)
			admin.PATCH("/courses/:id/enrolled", courseAdminHandler.SetEnrolled)
			admin.DELETE("/courses/:id", courseAdminHandler.Delete)

			admin.GET("/registrations", registrationHandler.List)
			admin.GET("/registrations/:id", registrationHandler.Get)
			admin.PATCH("/registrations/:id/status", registrationHandler.UpdateStatus)

			admin.GET("/contacts", contactHandler.List)
			admin.POST("/contacts/:id/view", contactHandler.View)
			admin.PATCH("/contacts/:id/status", contactHandler.UpdateStatus)
			admin.DELETE("/contacts/:id", contactHandler.Delete)

			admin.POST("/exports", exportHandler.Generate)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
