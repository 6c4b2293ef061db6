package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"work-placement/internal/domain"
	"work-placement/internal/placement"
	"work-placement/internal/service"
	"work-placement/internal/transport/http/ez"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler 管理端：看板、岗位、学生、审核、指南、导出。分组已校验 admin。
type AdminHandler struct {
	svc *service.Service
	l   *zap.Logger
}

func NewAdminHandler(svc *service.Service, l *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, l: l}
}

type studentsQ struct {
	Q           string `form:"q"`
	ProgramYear string `form:"programYear"`
	Match       string `form:"match"`
}

func (q studentsQ) query() placement.StudentQuery {
	return placement.StudentQuery{Text: q.Q, ProgramYear: q.ProgramYear, Match: placement.MatchFilter(q.Match)}
}

type statusIn struct {
	Status domain.Status `json:"status" binding:"required"`
}

func (h *AdminHandler) MountAdmin(_, authed *gin.RouterGroup) {
	e := ez.New(authed, h.l)

	e.GET("/dashboard", func(c *gin.Context) (any, error) {
		return h.svc.Placement.Dashboard(c.Request.Context())
	})

	// --- 岗位 ---
	ez.RegisterAction(e, ez.Action[textQ, []placement.JobCard]{
		Method: http.MethodGet,
		Path:   "/jobs",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *textQ) ([]placement.JobCard, error) {
			return h.svc.Jobs.List(c.Request.Context(), in.Q)
		},
	})
	ez.RegisterAction(e, ez.Action[service.JobInput, *domain.Job]{
		Method: http.MethodPost,
		Path:   "/jobs",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.JobInput) (*domain.Job, error) {
			return h.svc.Jobs.Create(c.Request.Context(), *in)
		},
	})
	e.GET("/jobs/:id", func(c *gin.Context) (any, error) {
		return h.svc.Jobs.Get(c.Request.Context(), c.Param("id"))
	})
	ez.RegisterAction(e, ez.Action[service.JobInput, *domain.Job]{
		Method: http.MethodPut,
		Path:   "/jobs/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.JobInput) (*domain.Job, error) {
			return h.svc.Jobs.Update(c.Request.Context(), c.Param("id"), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/jobs/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Jobs.Delete(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
	e.GET("/jobs/:id/applications", func(c *gin.Context) (any, error) {
		return h.svc.Placement.JobApplications(c.Request.Context(), c.Param("id"))
	})

	// --- 学生 ---
	ez.RegisterAction(e, ez.Action[studentsQ, []placement.StudentRow]{
		Method: http.MethodGet,
		Path:   "/students",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *studentsQ) ([]placement.StudentRow, error) {
			return h.svc.Users.ListStudents(c.Request.Context(), in.query())
		},
	})
	authed.GET("/students/export", h.exportStudents)
	e.GET("/students/:id", func(c *gin.Context) (any, error) {
		return h.svc.Users.GetStudent(c.Request.Context(), c.Param("id"))
	})
	ez.RegisterAction(e, ez.Action[service.StudentUpdate, *domain.User]{
		Method: http.MethodPut,
		Path:   "/students/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.StudentUpdate) (*domain.User, error) {
			return h.svc.Users.UpdateStudent(c.Request.Context(), c.Param("id"), *in)
		},
	})

	// --- 审核 ---
	ez.RegisterAction(e, ez.Action[statusIn, *domain.Application]{
		Method: http.MethodPost,
		Path:   "/applications/:id/status",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *statusIn) (*domain.Application, error) {
			return h.svc.Placement.SetStatus(c.Request.Context(), c.Param("id"), in.Status)
		},
	})

	// --- 指南 ---
	e.GET("/guides", func(c *gin.Context) (any, error) {
		return h.svc.Guides.List(c.Request.Context())
	})
	ez.RegisterAction(e, ez.Action[service.GuideInput, *domain.Guide]{
		Method: http.MethodPost,
		Path:   "/guides",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.GuideInput) (*domain.Guide, error) {
			return h.svc.Guides.Create(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[service.GuideInput, *domain.Guide]{
		Method: http.MethodPut,
		Path:   "/guides/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.GuideInput) (*domain.Guide, error) {
			return h.svc.Guides.Update(c.Request.Context(), c.Param("id"), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/guides/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Guides.Delete(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}

// exportStudents 直接回写 xlsx，出错时仍走统一信封
func (h *AdminHandler) exportStudents(c *gin.Context) {
	var in studentsQ
	if err := c.ShouldBindQuery(&in); err != nil {
		ez.Fail(c, h.l, ez.BadRequest(err.Error()))
		return
	}
	buf, name, err := h.svc.Export.ExportStudents(c.Request.Context(), in.query())
	if err != nil {
		ez.Fail(c, h.l, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}
