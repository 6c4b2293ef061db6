// Package nav 前端可到达的页面集合与导航栈。
//
// 页面是封闭枚举，带参数的页面（岗位详情、学生详情）用 Route 携带 id；
// Stack 为值类型，Push/Pop 返回新栈，不共享可变状态。
package nav

import (
	"errors"
	"fmt"
	"strings"

	"work-placement/internal/domain"
)

type View uint8

const (
	ViewUnknown View = iota
	ViewLogin
	ViewRegister

	ViewStudentJobs
	ViewJobDetail
	ViewStudentInternship
	ViewStudentServices
	ViewStudentEmergency
	ViewStudentProfile

	ViewAdminDashboard
	ViewAdminJobs
	ViewAdminPostJob
	ViewAdminStudents
	ViewAdminStudentDetail
)

var viewIDs = map[View]string{
	ViewLogin:              "login",
	ViewRegister:           "register",
	ViewStudentJobs:        "student-jobs",
	ViewJobDetail:          "job",
	ViewStudentInternship:  "student-internship",
	ViewStudentServices:    "student-services",
	ViewStudentEmergency:   "student-emergency",
	ViewStudentProfile:     "student-profile",
	ViewAdminDashboard:     "admin-dash",
	ViewAdminJobs:          "admin-jobs",
	ViewAdminPostJob:       "admin-post-job",
	ViewAdminStudents:      "admin-students",
	ViewAdminStudentDetail: "admin-student-detail",
}

var idViews = func() map[string]View {
	m := make(map[string]View, len(viewIDs))
	for v, id := range viewIDs {
		m[id] = v
	}
	return m
}()

func (v View) String() string {
	if id, ok := viewIDs[v]; ok {
		return id
	}
	return "unknown"
}

// Public 未登录可见
func (v View) Public() bool { return v == ViewLogin || v == ViewRegister }

// Role 页面所属角色；公共页面返回空
func (v View) Role() domain.Role {
	switch {
	case v >= ViewStudentJobs && v <= ViewStudentProfile:
		return domain.RoleStudent
	case v >= ViewAdminDashboard && v <= ViewAdminStudentDetail:
		return domain.RoleAdmin
	}
	return ""
}

var (
	studentTabs = []View{ViewStudentJobs, ViewStudentInternship, ViewStudentServices, ViewStudentProfile}
	adminTabs   = []View{ViewAdminDashboard, ViewAdminStudents, ViewAdminPostJob, ViewAdminJobs}
)

// Tabs 底部导航栏，按显示顺序
func Tabs(role domain.Role) []View {
	switch role {
	case domain.RoleStudent:
		return append([]View(nil), studentTabs...)
	case domain.RoleAdmin:
		return append([]View(nil), adminTabs...)
	}
	return nil
}

// Route 页面 + 参数
type Route struct {
	View      View
	JobID     string // ViewJobDetail / ViewAdminPostJob（编辑）
	StudentID string // ViewAdminStudentDetail
}

var (
	ErrUnknownView  = errors.New("nav: unknown view")
	ErrMissingParam = errors.New("nav: missing route parameter")
)

func To(v View) Route { return Route{View: v} }

func JobDetail(jobID string) Route { return Route{View: ViewJobDetail, JobID: jobID} }

func EditJob(jobID string) Route { return Route{View: ViewAdminPostJob, JobID: jobID} }

func StudentDetail(studentID string) Route {
	return Route{View: ViewAdminStudentDetail, StudentID: studentID}
}

// Home 登录后的首页
func Home(role domain.Role) Route {
	switch role {
	case domain.RoleStudent:
		return To(ViewStudentJobs)
	case domain.RoleAdmin:
		return To(ViewAdminDashboard)
	}
	return To(ViewLogin)
}

func (r Route) Validate() error {
	if _, ok := viewIDs[r.View]; !ok {
		return ErrUnknownView
	}
	switch r.View {
	case ViewJobDetail:
		if r.JobID == "" {
			return fmt.Errorf("%w: job id", ErrMissingParam)
		}
	case ViewAdminStudentDetail:
		if r.StudentID == "" {
			return fmt.Errorf("%w: student id", ErrMissingParam)
		}
	}
	return nil
}

// Allowed 角色能否进入该页面
func (r Route) Allowed(role domain.Role) bool {
	return r.View.Public() || r.View.Role() == role
}

// Tab 当前页面高亮的底部 tab：详情页归属列表页，紧急联系人归属服务页
func (r Route) Tab() View {
	switch r.View {
	case ViewJobDetail:
		return ViewStudentJobs
	case ViewStudentEmergency:
		return ViewStudentServices
	case ViewAdminStudentDetail:
		return ViewAdminStudents
	}
	return r.View
}

// String 旧版字符串 id，例如 "job-j1"
func (r Route) String() string {
	if r.View == ViewJobDetail {
		return "job-" + r.JobID
	}
	return r.View.String()
}

// Parse 解析旧版字符串 id；"job-<id>" 取第一个连字符之后的全部内容
func Parse(s string) (Route, error) {
	s = strings.TrimSpace(s)
	if v, ok := idViews[s]; ok && v != ViewJobDetail {
		return To(v), nil
	}
	if id, ok := strings.CutPrefix(s, "job-"); ok {
		if id == "" {
			return Route{}, fmt.Errorf("%w: job id", ErrMissingParam)
		}
		return JobDetail(id), nil
	}
	return Route{}, fmt.Errorf("%w: %q", ErrUnknownView, s)
}
