package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"work-placement/internal/core/auth"
	"work-placement/internal/domain"
	"work-placement/internal/placement"
	"work-placement/internal/seed"
	"work-placement/internal/service"
	"work-placement/internal/store/memory"
	resp "work-placement/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type testApp struct {
	api, admin *gin.Engine
}

func setup(t *testing.T) testApp {
	t.Helper()
	st := memory.New()
	if err := seed.Load(context.Background(), st, zap.NewNop()); err != nil {
		t.Fatalf("加载种子数据失败: %v", err)
	}
	svc := service.New(st, nil, service.Options{
		Policy: placement.Policy{EnforceCapacityOnApproval: true},
	}, zap.NewNop())
	d := Deps{Log: zap.NewNop(), JWT: auth.NewJWTer("test-secret", "work-placement", time.Hour), Svc: svc}
	return testApp{api: NewAPIEngine(d), admin: NewAdminEngine(d)}
}

func call(t *testing.T, r http.Handler, method, path, token, body string) (envelope, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s 响应解析失败: %v", method, path, err)
		}
	}
	return env, w
}

func login(t *testing.T, r http.Handler, prefix, userID string) (string, envelope) {
	t.Helper()
	env, _ := call(t, r, http.MethodPost, prefix+"/auth/login", "", `{"userId":"`+userID+`"}`)
	var s struct {
		Token string   `json:"token"`
		Home  string   `json:"home"`
		Tabs  []string `json:"tabs"`
	}
	_ = json.Unmarshal(env.Data, &s)
	return s.Token, env
}

func TestHealthAndAuthGuards(t *testing.T) {
	a := setup(t)
	if _, w := call(t, a.api, http.MethodGet, "/health", "", ""); w.Code != http.StatusOK {
		t.Errorf("health 期望 200，实际 %d", w.Code)
	}
	if env, _ := call(t, a.api, http.MethodGet, "/api/v1/me", "", ""); env.Code != resp.CodeUnauthorized {
		t.Errorf("未登录 /me 期望 401，实际 %d", env.Code)
	}
	if env, _ := call(t, a.api, http.MethodPost, "/api/v1/auth/login", "", `{"userId":"nobody"}`); env.Code != resp.CodeNotFound {
		t.Errorf("不存在的账号期望 404，实际 %d", env.Code)
	}

	stu, _ := login(t, a.api, "/api/v1", "u1")
	if env, _ := call(t, a.admin, http.MethodGet, "/admin/v1/dashboard", stu, ""); env.Code != resp.CodeForbidden {
		t.Errorf("学生访问管理端期望 403，实际 %d", env.Code)
	}
	if _, env := login(t, a.admin, "/admin/v1", "u1"); env.Code != resp.CodeForbidden {
		t.Errorf("学生登录管理端期望 403，实际 %d", env.Code)
	}

	adm, _ := login(t, a.admin, "/admin/v1", "u2")
	if env, _ := call(t, a.api, http.MethodGet, "/api/v1/jobs", adm, ""); env.Code != resp.CodeForbidden {
		t.Errorf("管理员访问学生岗位列表期望 403，实际 %d", env.Code)
	}
}

func TestLogin_SessionCarriesNavigation(t *testing.T) {
	a := setup(t)
	_, env := login(t, a.api, "/api/v1", "u1")
	var s struct {
		Home string   `json:"home"`
		Tabs []string `json:"tabs"`
	}
	_ = json.Unmarshal(env.Data, &s)
	if s.Home != "student-jobs" || len(s.Tabs) != 4 {
		t.Errorf("学生首页/tab 不符: %+v", s)
	}

	_, env = login(t, a.api, "/api/v1", "u2")
	_ = json.Unmarshal(env.Data, &s)
	if s.Home != "admin-dash" {
		t.Errorf("管理员首页期望 admin-dash，实际 %s", s.Home)
	}
}

func TestStudentApplyAndAdminReview(t *testing.T) {
	a := setup(t)
	stu, _ := login(t, a.api, "/api/v1", "u1")
	adm, _ := login(t, a.admin, "/admin/v1", "u2")

	env, _ := call(t, a.api, http.MethodGet, "/api/v1/jobs", stu, "")
	var board placement.JobBoard
	_ = json.Unmarshal(env.Data, &board)
	if env.Code != resp.CodeOK || len(board.Open) != 8 {
		t.Fatalf("期望 8 个开放岗位，实际 code=%d open=%d", env.Code, len(board.Open))
	}

	env, _ = call(t, a.api, http.MethodPost, "/api/v1/jobs/j6/apply", stu, "")
	var app domain.Application
	_ = json.Unmarshal(env.Data, &app)
	if env.Code != resp.CodeOK || app.Status != domain.StatusPending {
		t.Fatalf("申请期望成功且 pending，实际 code=%d %+v", env.Code, app)
	}

	env, _ = call(t, a.api, http.MethodPost, "/api/v1/jobs/j1/apply", stu, "")
	var rej map[string]any
	_ = json.Unmarshal(env.Data, &rej)
	if env.Code != resp.CodeUnprocessable || rej["reason"] != "already_active" || rej["activeApplicationId"] != app.ID {
		t.Errorf("第二次申请期望 422 already_active，实际 code=%d data=%v", env.Code, rej)
	}

	env, _ = call(t, a.admin, http.MethodPost, "/admin/v1/applications/"+app.ID+"/status", adm, `{"status":"approved"}`)
	if env.Code != resp.CodeOK {
		t.Fatalf("审核通过期望成功，实际 %d %s", env.Code, env.Msg)
	}
	env, _ = call(t, a.admin, http.MethodPost, "/admin/v1/applications/"+app.ID+"/status", adm, `{"status":"rejected"}`)
	if env.Code != resp.CodeConflict {
		t.Errorf("approved -> rejected 期望 409，实际 %d", env.Code)
	}

	env, _ = call(t, a.api, http.MethodDelete, "/api/v1/applications/"+app.ID, stu, "")
	if env.Code != resp.CodeConflict {
		t.Errorf("已录用撤回期望 409，实际 %d", env.Code)
	}

	env, _ = call(t, a.api, http.MethodGet, "/api/v1/applications", stu, "")
	var mine []placement.ApplicationView
	_ = json.Unmarshal(env.Data, &mine)
	if len(mine) != 1 || mine[0].Job.ID != "j6" {
		t.Errorf("我的申请期望 1 条 j6，实际 %+v", mine)
	}

	env, _ = call(t, a.admin, http.MethodGet, "/admin/v1/dashboard", adm, "")
	var dash service.Dashboard
	_ = json.Unmarshal(env.Data, &dash)
	if dash.Approved != 1 || dash.Students != 1 || dash.Jobs != 8 {
		t.Errorf("看板数据不符: %+v", dash)
	}
}

func TestAdminJobAndGuideCRUD(t *testing.T) {
	a := setup(t)
	adm, _ := login(t, a.admin, "/admin/v1", "u2")

	env, _ := call(t, a.admin, http.MethodPost, "/admin/v1/jobs", adm, `{"title":"","companyName":"X","capacity":1}`)
	if env.Code != resp.CodeBadRequest {
		t.Errorf("缺少标题期望 400，实际 %d", env.Code)
	}
	env, _ = call(t, a.admin, http.MethodPost, "/admin/v1/jobs", adm,
		`{"title":"Barista","companyName":"Beach Cafe","programYear":"2025","capacity":2,"minScore":6}`)
	var job domain.Job
	_ = json.Unmarshal(env.Data, &job)
	if env.Code != resp.CodeOK || job.SequenceNumber != 9 {
		t.Fatalf("创建岗位期望序号 9，实际 code=%d seq=%d", env.Code, job.SequenceNumber)
	}
	if env, _ = call(t, a.admin, http.MethodDelete, "/admin/v1/jobs/"+job.ID, adm, ""); env.Code != resp.CodeOK {
		t.Errorf("删除岗位失败: %d", env.Code)
	}
	if env, _ = call(t, a.admin, http.MethodDelete, "/admin/v1/jobs/"+job.ID, adm, ""); env.Code != resp.CodeNotFound {
		t.Errorf("重复删除期望 404，实际 %d", env.Code)
	}

	env, _ = call(t, a.admin, http.MethodPost, "/admin/v1/guides", adm, `{"title":"Tax Return","content":"File by April."}`)
	if env.Code != resp.CodeOK {
		t.Fatalf("创建指南失败: %d %s", env.Code, env.Msg)
	}
	stu, _ := login(t, a.api, "/api/v1", "u1")
	env, _ = call(t, a.api, http.MethodGet, "/api/v1/guides", stu, "")
	var guides []domain.Guide
	_ = json.Unmarshal(env.Data, &guides)
	if len(guides) != 4 {
		t.Errorf("期望 4 篇指南，实际 %d", len(guides))
	}
}

func TestAdminStudentsAndExport(t *testing.T) {
	a := setup(t)
	adm, _ := login(t, a.admin, "/admin/v1", "u2")

	env, _ := call(t, a.admin, http.MethodGet, "/admin/v1/students?match=bogus", adm, "")
	if env.Code != resp.CodeBadRequest {
		t.Errorf("非法 match 期望 400，实际 %d", env.Code)
	}
	env, _ = call(t, a.admin, http.MethodGet, "/admin/v1/students?programYear=2025", adm, "")
	var rows []placement.StudentRow
	_ = json.Unmarshal(env.Data, &rows)
	if len(rows) != 1 || rows[0].ID != "u1" {
		t.Errorf("期望 1 名学生 u1，实际 %+v", rows)
	}
	if env, _ = call(t, a.admin, http.MethodPut, "/admin/v1/students/u1", adm, `{"score":9}`); env.Code != resp.CodeOK {
		t.Errorf("修改学生分数失败: %d %s", env.Code, env.Msg)
	}

	_, w := call(t, a.admin, http.MethodGet, "/admin/v1/students/export?programYear=2025", adm, "")
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/vnd.openxmlformats") {
		t.Errorf("期望 xlsx，实际 Content-Type=%s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "students_2025.xlsx") {
		t.Errorf("文件名不符: %s", cd)
	}
	if w.Body.Len() == 0 {
		t.Error("导出文件为空")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	a := setup(t)
	call(t, a.admin, http.MethodGet, "/health", "", "")
	_, w := call(t, a.admin, http.MethodGet, "/metrics", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Errorf("metrics 输出不符: code=%d", w.Code)
	}
}
