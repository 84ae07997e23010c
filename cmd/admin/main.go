package main

import (
	"context"
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

	// DB 连接（失败直接 Fatal）；表迁移由市民端进程负责
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 依赖
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	var regCache *cache.Cache
	if cfg.Redis.Addr != "" {
		// 审核落库后要踢掉详情缓存，两端必须共用同一个 redis
		regCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	userRepo := repo.NewUserRepo(db)
	regRepo := repo.NewRegistrationRepo(db)
	userSvc := service.NewUserService(userRepo)
	regSvc := service.NewRegistrationService(regRepo, userRepo, regCache)

	adminH := handler.NewAdminHandler(userSvc)
	regH := handler.NewRegistrationHandler(regSvc)

	// 路由（后台端）
	r := router.NewAdminEngine(log, jwter, cfg.App.CORSOrigin, adminH, regH)

	// HTTP Server
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	// 启动前打印可点击地址
	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	// 异步启动；失败立即退出
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()
	log.Info("admin api started SUCCESS")

	// 关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
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
