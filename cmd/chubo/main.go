package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	accountentity "github.com/chuboware/chubo/internal/account/entity"
	accounthandler "github.com/chuboware/chubo/internal/account/handler"
	accountrepo "github.com/chuboware/chubo/internal/account/repository"
	accountsvc "github.com/chuboware/chubo/internal/account/service"
	catalogentity "github.com/chuboware/chubo/internal/catalog/entity"
	cataloghandler "github.com/chuboware/chubo/internal/catalog/handler"
	catalogrepo "github.com/chuboware/chubo/internal/catalog/repository"
	catalogsvc "github.com/chuboware/chubo/internal/catalog/service"
	"github.com/chuboware/chubo/internal/config"
	"github.com/chuboware/chubo/internal/middleware"
	planningentity "github.com/chuboware/chubo/internal/planning/entity"
	planninghandler "github.com/chuboware/chubo/internal/planning/handler"
	planningrepo "github.com/chuboware/chubo/internal/planning/repository"
	planningsvc "github.com/chuboware/chubo/internal/planning/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting chubo service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&accountentity.Company{},
		&accountentity.Store{},
		&accountentity.User{},
		&catalogentity.OrderGroup{},
		&catalogentity.Material{},
		&catalogentity.Product{},
		&catalogentity.ProductMaterialLine{},
		&planningentity.Plan{},
		&planningentity.PlanProductLine{},
		&planningentity.PlanSchedule{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 仓库与服务
	accountRepos := accountrepo.NewRepositories(db)
	catalogRepos := catalogrepo.NewRepositories(db)
	planningRepos := planningrepo.NewRepositories(db)

	accountServices := accountsvc.NewServices(accountRepos, rdb, cfg)
	catalogServices := catalogsvc.NewServices(catalogRepos, rdb, cfg)
	planningServices := planningsvc.NewServices(planningRepos, catalogRepos)

	accountHandlers := accounthandler.NewHandlers(accountServices)
	catalogHandlers := cataloghandler.NewHandlers(catalogServices)
	planningHandlers := planninghandler.NewHandlers(planningServices)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, cfg, accountHandlers, catalogHandlers, planningHandlers)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func registerRoutes(r *gin.Engine, cfg *config.Config, accountH *accounthandler.Handlers, catalogH *cataloghandler.Handlers, planningH *planninghandler.Handlers) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		// 认证（无需登录）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", accountH.Auth.Login)
			auth.POST("/refresh", accountH.Auth.Refresh)
			auth.POST("/logout", accountH.Auth.Logout)
		}

		// 以下都在JWT保护内
		authed := v1.Group("")
		authed.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authed.GET("/me", accountH.Auth.Me)

			// 门店（管理员）
			stores := authed.Group("/stores")
			{
				stores.GET("", accountH.Store.List)
				stores.GET("/:id", accountH.Store.Get)
				stores.POST("", middleware.RequireRole("admin"), accountH.Store.Create)
				stores.PUT("/:id", middleware.RequireRole("admin"), accountH.Store.Update)
				stores.DELETE("/:id", middleware.RequireRole("admin"), accountH.Store.Delete)
			}

			// 用户（管理员）
			users := authed.Group("/users")
			users.Use(middleware.RequireRole("admin"))
			{
				users.GET("", accountH.User.List)
				users.POST("", accountH.User.Create)
				users.PUT("/:id", accountH.User.Update)
			}

			// 食材
			materials := authed.Group("/materials")
			{
				materials.GET("", catalogH.Material.List)
				materials.POST("", catalogH.Material.Create)
				materials.GET("/:id", catalogH.Material.Get)
				materials.PUT("/:id", catalogH.Material.Update)
				materials.DELETE("/:id", catalogH.Material.Delete)
			}

			// 订购组
			orderGroups := authed.Group("/order-groups")
			{
				orderGroups.GET("", catalogH.OrderGroup.List)
				orderGroups.POST("", catalogH.OrderGroup.Create)
				orderGroups.PUT("/:id", catalogH.OrderGroup.Update)
				orderGroups.DELETE("/:id", catalogH.OrderGroup.Delete)
			}

			// 商品
			products := authed.Group("/products")
			{
				products.GET("", catalogH.Product.List)
				products.POST("", catalogH.Product.Create)
				products.GET("/:id", catalogH.Product.Get)
				products.PUT("/:id", catalogH.Product.Update)
				products.DELETE("/:id", catalogH.Product.Delete)
				products.GET("/:id/material-preview", catalogH.Product.MaterialPreview)
				products.POST("/images", catalogH.Product.UploadImage)
				products.GET("/:id/image-url", catalogH.Product.ImageURL)
			}

			// 生产计划
			plans := authed.Group("/plans")
			{
				plans.GET("", planningH.Plan.List)
				plans.POST("", planningH.Plan.Create)
				plans.GET("/:id", planningH.Plan.Get)
				plans.PUT("/:id", planningH.Plan.Update)
				plans.DELETE("/:id", planningH.Plan.Delete)
				plans.GET("/:id/requirements", planningH.Plan.Requirements)
				plans.POST("/:id/duplicate", planningH.Plan.Duplicate)
			}

			// 排程
			schedules := authed.Group("/schedules")
			{
				schedules.GET("", planningH.Schedule.List)
				schedules.POST("", planningH.Schedule.Create)
				schedules.GET("/daily-requirements", planningH.Schedule.DailyRequirements)
				schedules.GET("/daily-requirements/export", planningH.Schedule.ExportDailyRequirements)
				schedules.GET("/:id", planningH.Schedule.Get)
				schedules.POST("/:id/snapshot", planningH.Schedule.RefreshSnapshot)
				schedules.POST("/:id/actual-revenue", planningH.Schedule.RecordActualRevenue)
				schedules.POST("/:id/cancel", planningH.Schedule.Cancel)
			}

			// 预算
			budgets := authed.Group("/budgets")
			{
				budgets.GET("/monthly", planningH.Budget.Monthly)
			}
		}
	}
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
