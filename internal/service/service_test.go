package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"work-placement/internal/domain"
	"work-placement/internal/placement"
	"work-placement/internal/store/memory"
)

// ── 测试辅助 ──

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func setupTestService(t *testing.T, policy placement.Policy) (*Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	svc := New(st, nil, Options{
		Policy: policy,
		Now:    func() time.Time { return testNow },
	}, zap.NewNop())
	return svc, st
}

func strictPolicy() placement.Policy {
	return placement.Policy{EnforceCapacityOnApproval: true}
}

func addStudent(t *testing.T, st domain.Store, id string, score float64) {
	t.Helper()
	u := &domain.User{ID: id, Name: "Student " + id, Role: domain.RoleStudent, ProgramYear: "2025", Score: score}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("创建学生失败: %v", err)
	}
}

func addJob(t *testing.T, st domain.Store, id string, capacity int, minScore float64) {
	t.Helper()
	j := &domain.Job{ID: id, Title: "Job " + id, CompanyName: "Co", ProgramYear: "2025", Capacity: capacity, MinScore: minScore}
	if err := st.Jobs().Create(context.Background(), j); err != nil {
		t.Fatalf("创建岗位失败: %v", err)
	}
}

func addApp(t *testing.T, st domain.Store, id, userID, jobID string, status domain.Status) {
	t.Helper()
	a := &domain.Application{ID: id, UserID: userID, JobID: jobID, Status: status, Date: testNow}
	if err := st.Applications().Create(context.Background(), a); err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
}

func countActive(t *testing.T, st domain.Store, userID string) int {
	t.Helper()
	apps, _ := st.Applications().ListByUser(context.Background(), userID)
	return len(placement.ActiveApplications(userID, apps))
}
