package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/config"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/middleware"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/handler"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting weekly report service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Office{},
		&entity.Department{},
		&entity.Position{},
		&entity.JobPosition{},
		&entity.User{},
		&entity.Report{},
		&entity.ReportTask{},
		&entity.TaskEvaluation{},
		&entity.TaskEvidence{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, cfg, zapLogger)

	scheduler := service.NewLockScheduler(repos.Report, cfg.Scheduler.CheckInterval, zapLogger)
	handlers := handler.NewHandlers(services, scheduler)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	if cfg.Scheduler.Enabled {
		scheduler.Start(schedulerCtx)
		zapLogger.Info("Report lock scheduler started",
			zap.Duration("interval", cfg.Scheduler.CheckInterval))
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		authed := v1.Group("")
		authed.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authed.GET("/auth/me", h.Auth.Me)

			// Own weekly reports
			reports := authed.Group("/reports")
			{
				reports.POST("", h.Report.Create)
				reports.GET("", h.Report.ListMine)
				reports.GET("/me", h.Report.GetMine)
				reports.GET("/:id", h.Report.Get)
				reports.PATCH("/:id/completed", h.Report.SetCompleted)
				reports.DELETE("/:id", h.Report.Delete)
				reports.POST("/:id/tasks", h.Report.AddTask)
			}

			tasks := authed.Group("/tasks")
			{
				tasks.PUT("/:taskId", h.Report.UpdateTask)
				tasks.DELETE("/:taskId", h.Report.DeleteTask)
				tasks.POST("/:taskId/evaluations", h.Evaluation.Evaluate)
				tasks.GET("/:taskId/evaluations", h.Evaluation.ListForTask)
				tasks.POST("/:taskId/evidences", h.Evidence.Upload)
				tasks.GET("/:taskId/evidences", h.Evidence.List)
			}

			evaluations := authed.Group("/evaluations")
			{
				evaluations.PUT("/:id", h.Evaluation.Update)
			}

			evidences := authed.Group("/evidences")
			{
				evidences.GET("/:id/url", h.Evidence.DownloadURL)
				evidences.DELETE("/:id", h.Evidence.Delete)
			}

			// Scoped statistics
			hierarchy := authed.Group("/hierarchy")
			{
				hierarchy.GET("/stats", h.Hierarchy.ScopedStats)
				hierarchy.GET("/manager-reports", h.Hierarchy.ManagerReports)
				hierarchy.GET("/view", h.Hierarchy.HierarchyView)
				hierarchy.GET("/offices/:officeId/stats",
					middleware.RequireRole(entity.RoleAdmin, entity.RoleOfficeManager, entity.RoleOfficeAdmin),
					h.Hierarchy.OfficeStats)
				hierarchy.POST("/lock-reports",
					middleware.RequireRole(entity.RoleAdmin),
					h.Hierarchy.TriggerLock)
			}

			// User management, admin only
			users := authed.Group("/users")
			users.Use(middleware.RequireRole(entity.RoleAdmin))
			{
				users.POST("", h.User.Create)
				users.GET("", h.User.List)
				users.GET("/:id", h.User.Get)
				users.PUT("/:id", h.User.Update)
				users.DELETE("/:id", h.User.Deactivate)
				users.PUT("/:id/password", h.User.ChangePassword)
				users.POST("/import", h.User.Import)
			}

			// Organization reference data, admin only
			org := authed.Group("/org")
			org.Use(middleware.RequireRole(entity.RoleAdmin))
			{
				org.POST("/offices", h.Org.CreateOffice)
				org.GET("/offices", h.Org.ListOffices)
				org.GET("/offices/:id", h.Org.GetOffice)
				org.PUT("/offices/:id", h.Org.UpdateOffice)
				org.DELETE("/offices/:id", h.Org.DeleteOffice)

				org.POST("/departments", h.Org.CreateDepartment)
				org.GET("/departments", h.Org.ListDepartments)
				org.GET("/departments/:id", h.Org.GetDepartment)
				org.PUT("/departments/:id", h.Org.UpdateDepartment)
				org.DELETE("/departments/:id", h.Org.DeleteDepartment)

				org.POST("/positions", h.Org.CreatePosition)
				org.GET("/positions", h.Org.ListPositions)
				org.GET("/positions/:id", h.Org.GetPosition)
				org.PUT("/positions/:id", h.Org.UpdatePosition)
				org.DELETE("/positions/:id", h.Org.DeletePosition)

				org.POST("/job-positions", h.Org.CreateJobPosition)
				org.GET("/job-positions", h.Org.ListJobPositions)
				org.GET("/job-positions/:id", h.Org.GetJobPosition)
				org.PUT("/job-positions/:id", h.Org.UpdateJobPosition)
				org.DELETE("/job-positions/:id", h.Org.DeleteJobPosition)
			}
		}
	}
}
