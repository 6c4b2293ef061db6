package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"work-placement/internal/core/auth"
	"work-placement/internal/core/server"
	"work-placement/internal/service"
	"work-placement/internal/transport/http/handler"
	mdw "work-placement/internal/transport/http/middleware"
)

// Deps 两个引擎共用的依赖
type Deps struct {
	Log  *zap.Logger
	JWT  *auth.JWTer
	Svc  *service.Service
	Prod bool
}

func baseEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Prod)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(d.Log),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	return r
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := baseEngine(d)

	// 前缀
	api := r.Group("/api/v1")
	// 登录/注册按 IP 限速
	public := api.Group("", mdw.RateLimitPerIP(5, 20))
	// 鉴权分组（⚠️ /me 必须挂这里，才能拿到 userId）；角色在各 Action 上限定
	authed := api.Group("", mdw.AuthJWT(d.JWT, ""))

	NewRegistry(
		handler.NewAuthHandler(d.Svc.Users, d.JWT, d.Log),
		handler.NewStudentHandler(d.Svc, d.Log),
	).MountAllAPI(public, authed)

	return r
}
