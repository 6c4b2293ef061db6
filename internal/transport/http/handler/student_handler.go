package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"work-placement/internal/domain"
	"work-placement/internal/placement"
	"work-placement/internal/service"
	"work-placement/internal/transport/http/ez"
	mdw "work-placement/internal/transport/http/middleware"
)

// StudentHandler 学生端：岗位浏览、申请、撤回、指南
type StudentHandler struct {
	svc *service.Service
	l   *zap.Logger
}

func NewStudentHandler(svc *service.Service, l *zap.Logger) *StudentHandler {
	return &StudentHandler{svc: svc, l: l}
}

type textQ struct {
	Q string `form:"q"`
}

var studentOnly = []domain.Role{domain.RoleStudent}

func (h *StudentHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed, h.l)

	ez.RegisterAction(e, ez.Action[textQ, *placement.JobBoard]{
		Method: http.MethodGet,
		Path:   "/jobs",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  studentOnly,
		Handler: func(c *gin.Context, in *textQ) (*placement.JobBoard, error) {
			return h.svc.Placement.Board(c.Request.Context(), mdw.UserID(c), in.Q)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *service.JobDetail]{
		Method: http.MethodGet,
		Path:   "/jobs/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  studentOnly,
		Handler: func(c *gin.Context, _ *struct{}) (*service.JobDetail, error) {
			return h.svc.Placement.JobDetail(c.Request.Context(), mdw.UserID(c), c.Param("id"))
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *domain.Application]{
		Method: http.MethodPost,
		Path:   "/jobs/:id/apply",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  studentOnly,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Application, error) {
			return h.svc.Placement.Apply(c.Request.Context(), mdw.UserID(c), c.Param("id"))
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, []placement.ApplicationView]{
		Method: http.MethodGet,
		Path:   "/applications",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  studentOnly,
		Handler: func(c *gin.Context, _ *struct{}) ([]placement.ApplicationView, error) {
			return h.svc.Placement.MyApplications(c.Request.Context(), mdw.UserID(c))
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/applications/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  studentOnly,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Placement.Withdraw(c.Request.Context(), mdw.UserID(c), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	e.GET("/guides", func(c *gin.Context) (any, error) {
		return h.svc.Guides.List(c.Request.Context())
	})
	e.GET("/guides/:id", func(c *gin.Context) (any, error) {
		return h.svc.Guides.Get(c.Request.Context(), c.Param("id"))
	})
}
