package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"vehicle-registry/internal/core/auth"
	"vehicle-registry/internal/core/cache"
	"vehicle-registry/internal/core/config"
	"vehicle-registry/internal/core/database"
	"vehicle-registry/internal/core/logger"
	"vehicle-registry/internal/core/server"
	"vehicle-registry/internal/domain"
	"vehicle-registry/internal/repo"
	"vehicle-registry/internal/service"
	"vehicle-registry/internal/transport/http/handler"
	"vehicle-registry/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg.Log)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 自动迁移
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.Vehicle{},
			&domain.Owner{},
			&domain.VehicleRegistration{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// redis 详情缓存（未配置则直读库）
	var regCache *cache.Cache
	if cfg.Redis.Addr != "" {
		regCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// 依赖
	userRepo := repo.NewUserRepo(db)
	regRepo := repo.NewRegistrationRepo(db)
	userSvc := service.NewUserService(userRepo)
	regSvc := service.NewRegistrationService(regRepo, userRepo, regCache)

	authH := handler.NewAuthHandler(userSvc, jwter)
	userH := handler.NewUserHandler(userSvc)
	regH := handler.NewRegistrationHandler(regSvc)

	// 路由（市民端）
	r := router.NewAPIEngine(log, jwter, cfg.App.CORSOrigin, authH, userH, regH)

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("citizen api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("citizen api start FAILED", zap.Error(err))
		}
	}()
	log.Info("citizen api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("citizen api stopped gracefully")
}

func newLogger(lc config.Log) (*zap.Logger, func()) {
	if lc.File != "" {
		return logger.NewWithRotate(lc.Level, lc.JSON, lc.File, lc.MaxSizeMB, lc.MaxBackups, lc.MaxAgeDays, lc.Compress)
	}
	return logger.New(lc.Level, lc.JSON)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
