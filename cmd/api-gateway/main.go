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

	_ "github.com/smart-presensee/auto-alpha-api/api/swagger"
	"github.com/smart-presensee/auto-alpha-api/internal/handler"
	"github.com/smart-presensee/auto-alpha-api/internal/middleware"
	"github.com/smart-presensee/auto-alpha-api/internal/repository"
	"github.com/smart-presensee/auto-alpha-api/internal/scheduler"
	"github.com/smart-presensee/auto-alpha-api/internal/service"
	"github.com/smart-presensee/auto-alpha-api/pkg/cache"
	"github.com/smart-presensee/auto-alpha-api/pkg/config"
	"github.com/smart-presensee/auto-alpha-api/pkg/database"
	"github.com/smart-presensee/auto-alpha-api/pkg/logger"
	corsmiddleware "github.com/smart-presensee/auto-alpha-api/pkg/middleware/cors"
	reqidmiddleware "github.com/smart-presensee/auto-alpha-api/pkg/middleware/requestid"
)

// @title Smart Presensee Auto-Alpha API
// @version 0.1.0
// @description Daily attendance reconciliation service
// @BasePath /
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

	loc, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		logr.Sugar().Warnw("invalid attendance timezone, falling back to UTC", "timezone", cfg.Attendance.Timezone, "error", err)
		loc = time.UTC
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var cacheRepo service.CacheRepository
	if cfg.Status.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, status cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Status.CacheTTL, logr, cacheRepo != nil)

	attendanceRepo := repository.NewAttendanceRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	validate := validator.New()
	settingsSvc := service.NewSettingsService(settingsRepo, cfg.Attendance, validate, logr)
	statusSvc := service.NewStatusService(attendanceRepo, cacheSvc, cfg.Status.CacheTTL, loc, logr)
	autoAlphaSvc := service.NewAutoAlphaService(settingsSvc, studentRepo, attendanceRepo, statusSvc, metricsSvc, loc, logr)

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
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/metrics", metricsHandler.Handle)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	autoAlphaHandler := handler.NewAutoAlphaHandler(autoAlphaSvc, statusSvc, validate)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)

	api := r.Group(cfg.APIPrefix)
	alpha := api.Group("/auto-alpha")
	alpha.POST("/run", autoAlphaHandler.Run)
	alpha.GET("/status", autoAlphaHandler.Status)
	alpha.GET("/settings", settingsHandler.Get)
	alpha.PUT("/settings", settingsHandler.Update)
	if cfg.Export.Enabled {
		alpha.GET("/export", autoAlphaHandler.Export)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(cfg.Scheduler, loc, autoAlphaSvc, logr)
		if err != nil {
			logr.Sugar().Fatalw("failed to init scheduler", "error", err)
		}
		sched.Start(ctx)
		defer sched.Stop()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
