package seed

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"work-placement/internal/store/memory"
)

func TestLoad_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	for i := 0; i < 2; i++ {
		if err := Load(ctx, s, zap.NewNop()); err != nil {
			t.Fatalf("第 %d 次 Load 失败: %v", i+1, err)
		}
	}
	users, _ := s.Users().List(ctx)
	jobs, _ := s.Jobs().List(ctx)
	guides, _ := s.Guides().List(ctx)
	if len(users) != 2 || len(jobs) != 8 || len(guides) != 3 {
		t.Errorf("期望 2/8/3，实际 %d/%d/%d", len(users), len(jobs), len(guides))
	}
	apps, _ := s.Applications().List(ctx)
	if len(apps) != 0 {
		t.Errorf("期望无申请，实际 %d", len(apps))
	}
}

func TestJobs_AllCohort2025(t *testing.T) {
	for _, j := range Jobs() {
		if j.ProgramYear != "2025" || j.Capacity <= 0 || j.SequenceNumber <= 0 {
			t.Errorf("岗位 %s 数据不完整: %+v", j.ID, j)
		}
	}
}
