package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"work-placement/internal/domain"
	"work-placement/internal/placement"
	"work-placement/internal/store/memory"
	"work-placement/pkg/utils"
)

func ptr[T any](v T) *T { return &v }

func TestUserService_Register_Defaults(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	_ = st.Users().Create(ctx, &domain.User{ID: "admin", Role: domain.RoleAdmin})
	addStudent(t, st, "u1", 8)

	u, err := svc.Users.Register(ctx, RegisterInput{Name: " Carol ", School: "Tech Univ", Phone: "139"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if u.Name != "Carol" || u.Role != domain.RoleStudent {
		t.Errorf("用户信息不符: %+v", u)
	}
	if u.Score != 6.0 {
		t.Errorf("期望默认分数 6.0，实际 %v", u.Score)
	}
	if u.ProgramYear != "2025" {
		t.Errorf("期望默认届别为当前年份 2025，实际 %q", u.ProgramYear)
	}
	if u.SequenceNumber != 2 {
		t.Errorf("期望序号为学生数 + 1 = 2，实际 %d", u.SequenceNumber)
	}

	u2, err := svc.Users.Register(ctx, RegisterInput{Name: "Dan", School: "S", Phone: "1", ProgramYear: "2026", Score: ptr(9.0)})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if u2.Score != 9.0 || u2.ProgramYear != "2026" {
		t.Errorf("显式字段未生效: %+v", u2)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	svc, _ := setupTestService(t, strictPolicy())
	ctx := context.Background()
	cases := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"缺姓名", RegisterInput{School: "S", Phone: "1"}, "name"},
		{"缺学校", RegisterInput{Name: "N", Phone: "1"}, "school"},
		{"缺电话", RegisterInput{Name: "N", School: "S", Phone: "  "}, "phone"},
		{"负分", RegisterInput{Name: "N", School: "S", Phone: "1", Score: ptr(-1.0)}, "score"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Users.Register(ctx, tc.in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Errorf("期望 %s 字段校验错误，实际: %v", tc.field, err)
			}
		})
	}
}

func TestUserService_Register_Code(t *testing.T) {
	hash, err := utils.HashPassword("blueprint")
	if err != nil {
		t.Fatalf("hash 失败: %v", err)
	}
	svc := NewUserService(memory.New(), Options{RegistrationCodeHash: hash, Now: func() time.Time { return testNow }}, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "N", School: "S", Phone: "1", Code: "wrong"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("错误邀请码期望 ErrForbidden，实际: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Name: "N", School: "S", Phone: "1", Code: "blueprint"}); err != nil {
		t.Errorf("正确邀请码应注册成功: %v", err)
	}
}

func TestUserService_LoginAndAccounts(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	_ = st.Users().Create(ctx, &domain.User{ID: "admin", Role: domain.RoleAdmin, SequenceNumber: 0})
	_ = st.Users().Create(ctx, &domain.User{ID: "s2", Role: domain.RoleStudent, SequenceNumber: 2})
	_ = st.Users().Create(ctx, &domain.User{ID: "s1", Role: domain.RoleStudent, SequenceNumber: 1})

	accts, err := svc.Users.Accounts(ctx)
	if err != nil {
		t.Fatalf("Accounts 失败: %v", err)
	}
	if len(accts) != 3 || accts[0].ID != "s1" || accts[2].ID != "admin" {
		t.Errorf("期望按序号排序且缺失序号在最后，实际 %v", accts)
	}
	if _, err := svc.Users.Login(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
	if _, err := svc.Users.Login(ctx, ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("期望 ErrValidation，实际: %v", err)
	}
	u, err := svc.Users.Login(ctx, "admin")
	if err != nil || u.Role != domain.RoleAdmin {
		t.Errorf("管理员登录失败: %v", err)
	}
}

func TestUserService_UpdateSelf_OnlyNameAndPhone(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "u1", 8.5)

	u, err := svc.Users.UpdateSelf(ctx, "u1", SelfUpdate{Name: ptr("Alice"), Phone: ptr("138")})
	if err != nil {
		t.Fatalf("UpdateSelf 失败: %v", err)
	}
	if u.Name != "Alice" || u.Phone != "138" || u.Score != 8.5 {
		t.Errorf("更新结果不符: %+v", u)
	}
	if _, err := svc.Users.UpdateSelf(ctx, "u1", SelfUpdate{Name: ptr(" ")}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("空姓名期望 ErrValidation，实际: %v", err)
	}
}

func TestUserService_UpdateStudent(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "u1", 6)
	_ = st.Users().Create(ctx, &domain.User{ID: "admin", Role: domain.RoleAdmin})

	contacts := []domain.EmergencyContact{{Name: "Mom", Phone: "1", Relationship: "Family"}}
	u, err := svc.Users.UpdateStudent(ctx, "u1", StudentUpdate{Score: ptr(9.5), SequenceNumber: ptr(7), EmergencyContacts: &contacts})
	if err != nil {
		t.Fatalf("UpdateStudent 失败: %v", err)
	}
	if u.Score != 9.5 || u.SequenceNumber != 7 || len(u.EmergencyContacts) != 1 {
		t.Errorf("更新结果不符: %+v", u)
	}
	if _, err := svc.Users.UpdateStudent(ctx, "admin", StudentUpdate{Score: ptr(1.0)}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("管理员账号期望 ErrNotFound，实际: %v", err)
	}
}

func TestUserService_ListAndGetStudent(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "u1", 8)
	addStudent(t, st, "u2", 8)
	addJob(t, st, "j1", 3, 6)
	addApp(t, st, "a1", "u1", "j1", domain.StatusApproved)

	rows, err := svc.Users.ListStudents(ctx, placement.StudentQuery{Match: placement.MatchMatched})
	if err != nil {
		t.Fatalf("ListStudents 失败: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "u1" || !rows[0].Matched {
		t.Errorf("期望仅 u1 已匹配，实际 %+v", rows)
	}
	if _, err := svc.Users.ListStudents(ctx, placement.StudentQuery{Match: "maybe"}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("期望 ErrValidation，实际: %v", err)
	}

	d, err := svc.Users.GetStudent(ctx, "u1")
	if err != nil {
		t.Fatalf("GetStudent 失败: %v", err)
	}
	if len(d.Applications) != 1 || d.Applications[0].Job.ID != "j1" {
		t.Errorf("期望带上 j1 的申请，实际 %+v", d.Applications)
	}
}
