package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"work-placement/internal/core/auth"
	"work-placement/internal/domain"
	"work-placement/internal/nav"
	"work-placement/internal/service"
	"work-placement/internal/transport/http/ez"
	mdw "work-placement/internal/transport/http/middleware"
)

// Session 登录/注册成功后的返回：token + 前端首页与底部 tab
type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
	Home  string       `json:"home"`
	Tabs  []string     `json:"tabs"`
}

// AuthHandler 账号选择、登录、注册、个人资料。
// only 非空时只允许该角色登录（管理端）。
type AuthHandler struct {
	users service.UserService
	jwt   *auth.JWTer
	l     *zap.Logger
	only  domain.Role
}

func NewAuthHandler(users service.UserService, jwt *auth.JWTer, l *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, l: l}
}

func NewAdminAuthHandler(users service.UserService, jwt *auth.JWTer, l *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, l: l, only: domain.RoleAdmin}
}

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) session(u *domain.User) (*Session, error) {
	tok, err := h.jwt.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	tabs := nav.Tabs(u.Role)
	names := make([]string, 0, len(tabs))
	for _, v := range tabs {
		names = append(names, v.String())
	}
	return &Session{Token: tok, User: u, Home: nav.Home(u.Role).String(), Tabs: names}, nil
}

type loginIn struct {
	UserID string `json:"userId" binding:"required"`
}

type meIn struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func (h *AuthHandler) login(c *gin.Context, in *loginIn) (*Session, error) {
	u, err := h.users.Login(c.Request.Context(), in.UserID)
	if err != nil {
		return nil, err
	}
	if h.only != "" && u.Role != h.only {
		return nil, ez.Forbidden("forbidden")
	}
	return h.session(u)
}

func (h *AuthHandler) me(c *gin.Context, _ *struct{}) (*domain.User, error) {
	return h.users.Get(c.Request.Context(), mdw.UserID(c))
}

func (h *AuthHandler) MountAPI(public, authed *gin.RouterGroup) {
	pub := ez.New(public, h.l)
	pub.GET("/auth/accounts", func(c *gin.Context) (any, error) {
		return h.users.Accounts(c.Request.Context())
	})
	ez.RegisterAction(pub, ez.Action[loginIn, *Session]{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Binder:  ez.BindJSON,
		Handler: h.login,
	})
	ez.RegisterAction(pub, ez.Action[service.RegisterInput, *Session]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.RegisterInput) (*Session, error) {
			u, err := h.users.Register(c.Request.Context(), *in)
			if err != nil {
				return nil, err
			}
			return h.session(u)
		},
	})

	me := ez.New(authed, h.l)
	ez.RegisterAction(me, ez.Action[struct{}, *domain.User]{
		Method:  http.MethodGet,
		Path:    "/me",
		Binder:  ez.BindNone,
		Auth:    true,
		Handler: h.me,
	})
	// 学生本人只能改姓名和电话
	ez.RegisterAction(me, ez.Action[meIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []domain.Role{domain.RoleStudent},
		Handler: func(c *gin.Context, in *meIn) (*domain.User, error) {
			return h.users.UpdateSelf(c.Request.Context(), mdw.UserID(c), service.SelfUpdate{Name: in.Name, Phone: in.Phone})
		},
	})
}

func (h *AuthHandler) MountAdmin(public, authed *gin.RouterGroup) {
	ez.RegisterAction(ez.New(public, h.l), ez.Action[loginIn, *Session]{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Binder:  ez.BindJSON,
		Handler: h.login,
	})
	ez.RegisterAction(ez.New(authed, h.l), ez.Action[struct{}, *domain.User]{
		Method:  http.MethodGet,
		Path:    "/me",
		Binder:  ez.BindNone,
		Auth:    true,
		Handler: h.me,
	})
}
