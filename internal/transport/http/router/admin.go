package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"work-placement/internal/domain"
	"work-placement/internal/transport/http/handler"
	mdw "work-placement/internal/transport/http/middleware"
)

func NewAdminEngine(d Deps) *gin.Engine {
	r := baseEngine(d)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 管理端 v1（除登录外统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	public := admin.Group("", mdw.RateLimitPerIP(5, 20))
	authed := admin.Group("", mdw.AuthJWT(d.JWT, domain.RoleAdmin))

	NewRegistry(
		handler.NewAdminAuthHandler(d.Svc.Users, d.JWT, d.Log),
		handler.NewAdminHandler(d.Svc, d.Log),
	).MountAllAdmin(public, authed)

	return r
}
