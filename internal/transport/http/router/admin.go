package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vehicle-registry/internal/core/auth"
	"vehicle-registry/internal/domain"
	"vehicle-registry/internal/transport/http/handler"
	mdw "vehicle-registry/internal/transport/http/middleware"
)

// NewAdminEngine 后台端路由：整组要求 ADMIN 角色。
func NewAdminEngine(
	l *zap.Logger,
	jwter *auth.JWTer,
	corsOrigin string,
	adminH *handler.AdminHandler,
	regH *handler.RegistrationHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)
	r.Use(corsWithOrigin(corsOrigin))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))

	admin.GET("/users", adminH.ListUsers)
	admin.POST("/users/:id/ban", adminH.BanUser)
	admin.GET("/registrations", regH.List)
	admin.GET("/registrations/:id", regH.Get)
	admin.PATCH("/registrations/:id/status", regH.UpdateStatus)

	return r
}
