package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"work-placement/internal/domain"
	"work-placement/internal/placement"
)

// ── Apply ──

func TestPlacementService_Apply_SingleActive(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "u1", 8.5)
	addJob(t, st, "jA", 10, 6.0)
	addJob(t, st, "jB", 10, 6.0)

	a, err := svc.Placement.Apply(ctx, "u1", "jA")
	if err != nil {
		t.Fatalf("首次申请应成功: %v", err)
	}
	if a.Status != domain.StatusPending || !a.Date.Equal(testNow) {
		t.Errorf("期望 pending 且日期为当前时间，实际 %+v", a)
	}

	_, err = svc.Placement.Apply(ctx, "u1", "jB")
	if !errors.Is(err, domain.ReasonAlreadyActive) {
		t.Fatalf("期望 AlreadyActive，实际: %v", err)
	}
	var rej *domain.Rejection
	if !errors.As(err, &rej) || rej.ActiveApplicationID != a.ID {
		t.Errorf("期望拒绝信息带上当前申请 id，实际 %+v", rej)
	}
	forB, _ := st.Applications().ListByJob(ctx, "jB")
	if len(forB) != 0 {
		t.Errorf("被拒时不应创建申请，实际 %d 条", len(forB))
	}
}

func TestPlacementService_Apply_ScoreGate(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "low", 5.5)
	addStudent(t, st, "edge", 6.0)
	addJob(t, st, "j1", 10, 6.0)

	if _, err := svc.Placement.Apply(ctx, "low", "j1"); !errors.Is(err, domain.ReasonScoreTooLow) {
		t.Errorf("期望 ScoreTooLow，实际: %v", err)
	}
	if _, err := svc.Placement.Apply(ctx, "edge", "j1"); err != nil {
		t.Errorf("分数等于门槛应可申请: %v", err)
	}
}

func TestPlacementService_Apply_CapacityGate(t *testing.T) {
	svc, st := setupTestService(t, placement.Policy{AllowRevoke: true, EnforceCapacityOnApproval: true})
	ctx := context.Background()
	addJob(t, st, "j1", 2, 6.0)
	for _, id := range []string{"s1", "s2", "s3"} {
		addStudent(t, st, id, 8)
	}
	addApp(t, st, "a1", "s1", "j1", domain.StatusApproved)
	addApp(t, st, "a2", "s2", "j1", domain.StatusApproved)

	if _, err := svc.Placement.Apply(ctx, "s3", "j1"); !errors.Is(err, domain.ReasonJobFull) {
		t.Fatalf("期望 JobFull，实际: %v", err)
	}
	// approved -> pending -> rejected
	if _, err := svc.Placement.SetStatus(ctx, "a1", domain.StatusPending); err != nil {
		t.Fatalf("撤销录用失败: %v", err)
	}
	if _, err := svc.Placement.SetStatus(ctx, "a1", domain.StatusRejected); err != nil {
		t.Fatalf("拒绝失败: %v", err)
	}
	apps, _ := st.Applications().ListByJob(ctx, "j1")
	if n := placement.ComputeApprovedCount("j1", apps); n != 1 {
		t.Fatalf("期望已录用 1 人，实际 %d", n)
	}
	if _, err := svc.Placement.Apply(ctx, "s3", "j1"); err != nil {
		t.Errorf("名额释放后应可申请: %v", err)
	}
}

func TestPlacementService_Apply_CheckOrder(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "u1", 5.0)
	addStudent(t, st, "u2", 9.0)
	addJob(t, st, "full", 1, 8.0)
	addJob(t, st, "other", 5, 1.0)
	addApp(t, st, "a0", "u2", "full", domain.StatusApproved)
	addApp(t, st, "a1", "u1", "other", domain.StatusPending)

	// 三个条件同时不满足时只报 AlreadyActive
	if _, err := svc.Placement.Apply(ctx, "u1", "full"); !errors.Is(err, domain.ReasonAlreadyActive) {
		t.Errorf("期望 AlreadyActive，实际: %v", err)
	}
	_ = st.Applications().Delete(ctx, "a1")
	if _, err := svc.Placement.Apply(ctx, "u1", "full"); !errors.Is(err, domain.ReasonScoreTooLow) {
		t.Errorf("期望 ScoreTooLow，实际: %v", err)
	}
}

func TestPlacementService_Apply_Errors(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "u1", 8)
	addJob(t, st, "j1", 1, 1)
	_ = st.Users().Create(ctx, &domain.User{ID: "admin", Role: domain.RoleAdmin})

	if _, err := svc.Placement.Apply(ctx, "u1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
	if _, err := svc.Placement.Apply(ctx, "ghost", "j1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
	if _, err := svc.Placement.Apply(ctx, "admin", "j1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("管理员申请期望 ErrForbidden，实际: %v", err)
	}
}

// ── Withdraw ──

func TestPlacementService_Withdraw_FreesSlot(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "u1", 8)
	addJob(t, st, "jA", 5, 6)
	addJob(t, st, "jB", 5, 6)

	a, err := svc.Placement.Apply(ctx, "u1", "jA")
	if err != nil {
		t.Fatalf("申请失败: %v", err)
	}
	if err := svc.Placement.Withdraw(ctx, "u1", a.ID); err != nil {
		t.Fatalf("撤回失败: %v", err)
	}
	if _, err := st.Applications().FindByID(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("撤回应硬删除申请，实际: %v", err)
	}
	if _, err := svc.Placement.Apply(ctx, "u1", "jB"); err != nil {
		t.Errorf("撤回后应可申请其他岗位: %v", err)
	}
}

func TestPlacementService_Withdraw_Rules(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		policy  placement.Policy
		status  domain.Status
		caller  string
		wantErr error
	}{
		{"pending 可撤回", strictPolicy(), domain.StatusPending, "u1", nil},
		{"严格模式 approved 不可撤回", strictPolicy(), domain.StatusApproved, "u1", domain.ErrIllegalState},
		{"宽松模式 approved 可撤回", placement.Policy{AllowWithdrawAfterApproval: true}, domain.StatusApproved, "u1", nil},
		{"rejected 不可撤回", placement.Policy{AllowWithdrawAfterApproval: true}, domain.StatusRejected, "u1", domain.ErrIllegalState},
		{"不能撤回他人申请", strictPolicy(), domain.StatusPending, "u2", domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, st := setupTestService(t, tc.policy)
			addStudent(t, st, "u1", 8)
			addStudent(t, st, "u2", 8)
			addJob(t, st, "j1", 5, 6)
			addApp(t, st, "a1", "u1", "j1", tc.status)

			err := svc.Placement.Withdraw(ctx, tc.caller, "a1")
			if tc.wantErr == nil && err != nil {
				t.Fatalf("期望成功，实际: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("期望 %v，实际: %v", tc.wantErr, err)
			}
			_, findErr := st.Applications().FindByID(ctx, "a1")
			if deleted := errors.Is(findErr, domain.ErrNotFound); deleted != (tc.wantErr == nil) {
				t.Errorf("删除结果不符: deleted=%v", deleted)
			}
		})
	}

	svc, st := setupTestService(t, strictPolicy())
	addStudent(t, st, "u1", 8)
	if err := svc.Placement.Withdraw(ctx, "u1", "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}

// ── SetStatus ──

func TestPlacementService_SetStatus_Transitions(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "u1", 8)
	addJob(t, st, "j1", 5, 6)
	addApp(t, st, "a1", "u1", "j1", domain.StatusPending)

	a, err := svc.Placement.SetStatus(ctx, "a1", domain.StatusApproved)
	if err != nil || a.Status != domain.StatusApproved {
		t.Fatalf("pending -> approved 应成功: %v", err)
	}
	if _, err := svc.Placement.SetStatus(ctx, "a1", domain.StatusApproved); !errors.Is(err, domain.ErrIllegalTransition) {
		t.Errorf("相同状态期望 IllegalTransition，实际: %v", err)
	}
	if _, err := svc.Placement.SetStatus(ctx, "a1", domain.StatusPending); !errors.Is(err, domain.ErrIllegalTransition) {
		t.Errorf("未开启 AllowRevoke 期望 IllegalTransition，实际: %v", err)
	}
	if _, err := svc.Placement.SetStatus(ctx, "a1", "archived"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("非法状态期望 ErrValidation，实际: %v", err)
	}
	if _, err := svc.Placement.SetStatus(ctx, "zzz", domain.StatusRejected); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}

func TestPlacementService_SetStatus_RejectedIsTerminal(t *testing.T) {
	svc, st := setupTestService(t, placement.Policy{AllowRevoke: true, AllowWithdrawAfterApproval: true})
	ctx := context.Background()
	addStudent(t, st, "u1", 8)
	addJob(t, st, "j1", 5, 6)
	addApp(t, st, "a1", "u1", "j1", domain.StatusPending)

	if _, err := svc.Placement.SetStatus(ctx, "a1", domain.StatusRejected); err != nil {
		t.Fatalf("pending -> rejected 应成功: %v", err)
	}
	for _, to := range []domain.Status{domain.StatusPending, domain.StatusApproved, domain.StatusRejected} {
		if _, err := svc.Placement.SetStatus(ctx, "a1", to); !errors.Is(err, domain.ErrIllegalTransition) {
			t.Errorf("rejected -> %s 期望 IllegalTransition，实际: %v", to, err)
		}
	}
	if err := svc.Placement.Withdraw(ctx, "u1", "a1"); !errors.Is(err, domain.ErrIllegalState) {
		t.Errorf("rejected 撤回期望 IllegalState，实际: %v", err)
	}
}

func TestPlacementService_SetStatus_Revoke(t *testing.T) {
	svc, st := setupTestService(t, placement.Policy{AllowRevoke: true, EnforceCapacityOnApproval: true})
	ctx := context.Background()
	addStudent(t, st, "u1", 8)
	addJob(t, st, "j1", 5, 6)
	addApp(t, st, "a1", "u1", "j1", domain.StatusApproved)

	a, err := svc.Placement.SetStatus(ctx, "a1", domain.StatusPending)
	if err != nil || a.Status != domain.StatusPending {
		t.Fatalf("开启 AllowRevoke 后 approved -> pending 应成功: %v", err)
	}
}

func TestPlacementService_SetStatus_CapacityOnApproval(t *testing.T) {
	ctx := context.Background()
	setup := func(t *testing.T, p placement.Policy) *Service {
		svc, st := setupTestService(t, p)
		addJob(t, st, "j1", 1, 6)
		addStudent(t, st, "u1", 8)
		addStudent(t, st, "u2", 8)
		addApp(t, st, "a1", "u1", "j1", domain.StatusApproved)
		addApp(t, st, "a2", "u2", "j1", domain.StatusPending)
		return svc
	}

	svc := setup(t, strictPolicy())
	if _, err := svc.Placement.SetStatus(ctx, "a2", domain.StatusApproved); !errors.Is(err, domain.ReasonJobFull) {
		t.Errorf("满员时录用期望 JobFull，实际: %v", err)
	}
	if _, err := svc.Placement.SetStatus(ctx, "a2", domain.StatusRejected); err != nil {
		t.Errorf("满员时拒绝应成功: %v", err)
	}

	svc = setup(t, placement.Policy{})
	if _, err := svc.Placement.SetStatus(ctx, "a2", domain.StatusApproved); err != nil {
		t.Errorf("关闭名额校验后录用应成功: %v", err)
	}
}

// ── 并发 ──

func TestPlacementService_ConcurrentApprovals_RespectCapacity(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addJob(t, st, "j1", 2, 6)
	for i := 0; i < 5; i++ {
		uid := fmt.Sprintf("u%d", i)
		addStudent(t, st, uid, 8)
		addApp(t, st, "a"+uid, uid, "j1", domain.StatusPending)
	}

	var (
		wg             sync.WaitGroup
		mu             sync.Mutex
		ok, full, othr int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Placement.SetStatus(ctx, fmt.Sprintf("au%d", i), domain.StatusApproved)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ReasonJobFull):
				full++
			default:
				othr++
			}
		}(i)
	}
	wg.Wait()

	if ok != 2 || full != 3 || othr != 0 {
		t.Errorf("期望 2 个录用、3 个满员，实际 ok=%d full=%d other=%d", ok, full, othr)
	}
	apps, _ := st.Applications().ListByJob(ctx, "j1")
	if n := placement.ComputeApprovedCount("j1", apps); n != 2 {
		t.Errorf("期望已录用 2 人，实际 %d", n)
	}
}

func TestPlacementService_ConcurrentApply_SameStudent(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "u1", 9)
	for i := 0; i < 8; i++ {
		addJob(t, st, fmt.Sprintf("j%d", i), 10, 6)
	}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Placement.Apply(ctx, "u1", fmt.Sprintf("j%d", i))
		}(i)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case !errors.Is(err, domain.ReasonAlreadyActive):
			t.Errorf("期望 AlreadyActive，实际: %v", err)
		}
	}
	if success != 1 {
		t.Errorf("期望恰好 1 次成功，实际 %d", success)
	}
	if n := countActive(t, st, "u1"); n != 1 {
		t.Errorf("期望 1 条有效申请，实际 %d", n)
	}
}

// ── 读视图 ──

func TestPlacementService_BoardAndDetail(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "u1", 7)
	addStudent(t, st, "u2", 9)
	addJob(t, st, "open", 3, 6)
	addJob(t, st, "full", 1, 6)
	addJob(t, st, "hard", 3, 8)
	_ = st.Jobs().Create(ctx, &domain.Job{ID: "other-year", Title: "Old", CompanyName: "Co", ProgramYear: "2024", Capacity: 1})
	addApp(t, st, "a1", "u2", "full", domain.StatusApproved)

	board, err := svc.Placement.Board(ctx, "u1", "")
	if err != nil {
		t.Fatalf("Board 失败: %v", err)
	}
	if len(board.Open) != 2 || len(board.Closed) != 1 || board.Closed[0].ID != "full" {
		t.Errorf("分组不符: open=%d closed=%d", len(board.Open), len(board.Closed))
	}
	for _, c := range board.Open {
		if c.ID == "hard" && c.Eligible {
			t.Error("分数不足的岗位应标记为不合格")
		}
	}

	d, err := svc.Placement.JobDetail(ctx, "u1", "hard")
	if err != nil {
		t.Fatalf("JobDetail 失败: %v", err)
	}
	if d.Verdict.CanApply || d.Verdict.Reason != domain.ReasonScoreTooLow {
		t.Errorf("期望 ScoreTooLow 提示，实际 %+v", d.Verdict)
	}
	d, _ = svc.Placement.JobDetail(ctx, "u1", "open")
	if !d.Verdict.CanApply || d.Application != nil {
		t.Errorf("期望可申请且无申请记录，实际 %+v", d)
	}
	d, _ = svc.Placement.JobDetail(ctx, "u2", "full")
	if d.Application == nil || d.Application.ID != "a1" || d.ApprovedCount != 1 || !d.Full {
		t.Errorf("期望带上自己的申请并显示满员，实际 %+v", d)
	}
}

func TestPlacementService_DanglingApplicationsFiltered(t *testing.T) {
	svc, st := setupTestService(t, strictPolicy())
	ctx := context.Background()
	addStudent(t, st, "u1", 8)
	addJob(t, st, "j1", 3, 6)
	addJob(t, st, "j2", 3, 6)
	addApp(t, st, "a1", "u1", "j1", domain.StatusRejected)
	addApp(t, st, "a2", "u1", "j2", domain.StatusPending)
	addApp(t, st, "a3", "ghost", "j2", domain.StatusPending)

	if err := svc.Jobs.Delete(ctx, "j1"); err != nil {
		t.Fatalf("删除岗位失败: %v", err)
	}
	mine, err := svc.Placement.MyApplications(ctx, "u1")
	if err != nil {
		t.Fatalf("MyApplications 失败: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "a2" || mine[0].Job.ID != "j2" {
		t.Errorf("期望只剩 a2，实际 %+v", mine)
	}
	forJob, _ := svc.Placement.JobApplications(ctx, "j2")
	if len(forJob) != 1 || forJob[0].Student.ID != "u1" {
		t.Errorf("期望过滤掉 ghost 的申请，实际 %+v", forJob)
	}

	dash, err := svc.Placement.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard 失败: %v", err)
	}
	if dash.Students != 1 || dash.Jobs != 1 || dash.Pending != 1 || dash.Rejected != 0 || dash.OpenSeats != 3 {
		t.Errorf("统计不符: %+v", dash)
	}
}
