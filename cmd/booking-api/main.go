package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/floatlab/booking-api/api/swagger"
	"github.com/floatlab/booking-api/internal/handler"
	"github.com/floatlab/booking-api/internal/middleware"
	"github.com/floatlab/booking-api/internal/models"
	"github.com/floatlab/booking-api/internal/repository"
	"github.com/floatlab/booking-api/internal/service"
	"github.com/floatlab/booking-api/pkg/cache"
	"github.com/floatlab/booking-api/pkg/config"
	"github.com/floatlab/booking-api/pkg/database"
	"github.com/floatlab/booking-api/pkg/logger"
	corsmiddleware "github.com/floatlab/booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/floatlab/booking-api/pkg/middleware/requestid"
)

// @title Float Booking API
// @version 1.0.0
// @description Booking backend for float tank sessions: schedule expansion, day overrides and slot reservations.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	tankRepo := repository.NewTankRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	auditSvc := service.NewAuditService(userRepo, logr, service.AuditServiceConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
	})
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, auditSvc, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "float-booking-api",
	})

	scheduleSvc := service.NewScheduleService(scheduleRepo, settingsRepo, cacheRepo, auditSvc, validate, logr, service.ScheduleServiceConfig{
		CacheEnabled: cfg.Schedule.CacheEnabled,
		CacheTTL:     cfg.Schedule.CacheTTL,
		MaxRangeDays: cfg.Schedule.MaxRangeDays,
	}).WithMetrics(metricsSvc)
	settingsSvc := service.NewSettingsService(settingsRepo, scheduleSvc, auditSvc, validate, logr)
	facilityLoc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		logr.Sugar().Warnw("invalid booking timezone, falling back to UTC", "timezone", cfg.Booking.Timezone, "error", err)
		facilityLoc = time.UTC
	}
	appointmentSvc := service.NewAppointmentService(appointmentRepo, packageRepo, scheduleRepo, settingsRepo, scheduleSvc, auditSvc, validate, logr, service.AppointmentServiceConfig{
		MinNoticeMinutes:   cfg.Booking.MinNoticeMinutes,
		AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
		Location:           facilityLoc,
	}).WithMetrics(metricsSvc)
	dashboardSvc := service.NewDashboardService(scheduleSvc, appointmentRepo, tankRepo, logr)
	tankSvc := service.NewTankService(tankRepo, validate, logr)
	packageSvc := service.NewPackageService(packageRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, cfg.Exports.Enabled)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	appointmentHandler := handler.NewAppointmentHandler(appointmentSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	tankHandler := handler.NewTankHandler(tankSvc)
	packageHandler := handler.NewPackageHandler(packageSvc)
	userHandler := handler.NewUserHandler(userSvc)
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

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.PUT("/password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	schedule := api.Group("/schedule")
	{
		schedule.GET("/month", scheduleHandler.Month)
		schedule.GET("/range", scheduleHandler.Range)
		schedule.GET("/days/:date", scheduleHandler.Day)
		schedule.PUT("/days/:date", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), scheduleHandler.UpsertOverride)
		schedule.DELETE("/days/:date", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), scheduleHandler.DeleteOverride)
		schedule.GET("/export", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), scheduleHandler.Export)
	}

	appointments := api.Group("/appointments", middleware.JWT(authSvc))
	{
		appointments.POST("", appointmentHandler.Create)
		appointments.GET("", appointmentHandler.List)
		appointments.GET("/:id", appointmentHandler.Get)
		appointments.DELETE("/:id", appointmentHandler.Cancel)
		appointments.PUT("/:id/status", middleware.RequireRoles(models.RoleAdmin), appointmentHandler.UpdateStatus)
	}

	tanks := api.Group("/tanks")
	{
		tanks.GET("", tankHandler.List)
		tanks.GET("/:id", tankHandler.Get)
		tanks.POST("", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), tankHandler.Create)
		tanks.PUT("/:id", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), tankHandler.Update)
		tanks.DELETE("/:id", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), tankHandler.Delete)
	}

	packages := api.Group("/packages")
	{
		packages.GET("", packageHandler.List)
		packages.GET("/:id", packageHandler.Get)
		packages.POST("", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), packageHandler.Create)
		packages.PUT("/:id", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), packageHandler.Update)
		packages.DELETE("/:id", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), packageHandler.Delete)
	}

	settings := api.Group("/settings", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		settings.GET("", settingsHandler.Get)
		settings.PUT("", settingsHandler.Update)
		settings.POST("/preview", settingsHandler.Preview)
	}

	users := api.Group("/users", middleware.JWT(authSvc))
	{
		users.GET("", middleware.RequireRoles(models.RoleAdmin), userHandler.List)
		users.GET("/:id", middleware.SelfOrRoles(models.RoleAdmin), userHandler.Get)
	}

	api.GET("/dashboard", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin), dashboardHandler.Summary)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
