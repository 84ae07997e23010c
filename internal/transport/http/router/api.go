package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vehicle-registry/internal/core/auth"
	"vehicle-registry/internal/transport/http/handler"
	mdw "vehicle-registry/internal/transport/http/middleware"
)

// NewAPIEngine 市民端路由：注册/登录公开，其余要求登录。
func NewAPIEngine(
	l *zap.Logger,
	jwter *auth.JWTer,
	corsOrigin string,
	authH *handler.AuthHandler,
	userH *handler.UserHandler,
	regH *handler.RegistrationHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)
	r.Use(corsWithOrigin(corsOrigin))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// 公开；单独按 IP 限速，防撞库
	pub := api.Group("/auth", mdw.RateLimitPerIP(5, 10))
	pub.POST("/register", authH.Register)
	pub.POST("/login", authH.Login)

	// 登录后（任意角色）
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, ""))
	authed.GET("/me", authH.Me)
	authed.PATCH("/me", authH.UpdateMe)
	authed.GET("/users/:id", userH.Get)
	authed.POST("/registrations", regH.Create)
	authed.GET("/registrations", regH.List)
	authed.GET("/registrations/:id", regH.Get)

	return r
}

// corsWithOrigin 配置了来源就只放行该来源，否则放开（本地开发）。
func corsWithOrigin(origin string) gin.HandlerFunc {
	if origin == "" {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = []string{origin}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
