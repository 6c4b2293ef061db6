// Package placement 岗位申请规则引擎。
//
// 全部为纯函数：输入实体快照，输出判定结果，不做任何写入。
// 已录用人数每次从申请集合现算，不维护计数器，避免计数与集合漂移。
package placement

import "work-placement/internal/domain"

// Policy 各版本原型之间有分歧的开关
type Policy struct {
	AllowWithdrawAfterApproval bool // 已录用是否仍可撤回
	AllowRevoke                bool // approved -> pending
	EnforceCapacityOnApproval  bool // 录用时校验名额
}

// ComputeApprovedCount 指定岗位的已录用申请数
func ComputeApprovedCount(jobID string, apps []domain.Application) int {
	n := 0
	for _, a := range apps {
		if a.JobID == jobID && a.Status == domain.StatusApproved {
			n++
		}
	}
	return n
}

func IsJobFull(job domain.Job, apps []domain.Application) bool {
	return ComputeApprovedCount(job.ID, apps) >= job.Capacity
}

func IsEligible(student domain.User, job domain.Job) bool {
	return student.Score >= job.MinScore
}

// ActiveApplications 学生所有 pending/approved 申请，正常情况下至多一条
func ActiveApplications(userID string, apps []domain.Application) []domain.Application {
	var out []domain.Application
	for _, a := range apps {
		if a.UserID == userID && a.Status.Active() {
			out = append(out, a)
		}
	}
	return out
}

// HasActiveApplication 按列表顺序返回第一条有效申请，没有则 nil
func HasActiveApplication(userID string, apps []domain.Application) *domain.Application {
	for i := range apps {
		if apps[i].UserID == userID && apps[i].Status.Active() {
			a := apps[i]
			return &a
		}
	}
	return nil
}

// CanApply 按固定顺序校验：已有申请 -> 分数 -> 名额，只返回第一个失败原因。
func CanApply(student domain.User, job domain.Job, apps []domain.Application) error {
	if active := HasActiveApplication(student.ID, apps); active != nil {
		return &domain.Rejection{Reason: domain.ReasonAlreadyActive, ActiveApplicationID: active.ID}
	}
	if !IsEligible(student, job) {
		return &domain.Rejection{Reason: domain.ReasonScoreTooLow, Score: student.Score, MinScore: job.MinScore}
	}
	if approved := ComputeApprovedCount(job.ID, apps); approved >= job.Capacity {
		return &domain.Rejection{Reason: domain.ReasonJobFull, Approved: approved, Capacity: job.Capacity}
	}
	return nil
}

// CheckTransition 管理员变更状态的合法性：
//
//	pending  -> approved | rejected
//	approved -> pending   仅 AllowRevoke
//	rejected 终态
func (p Policy) CheckTransition(from, to domain.Status) error {
	if !to.Valid() {
		return domain.Invalid("status", "must be pending, approved or rejected")
	}
	switch {
	case from == domain.StatusPending && (to == domain.StatusApproved || to == domain.StatusRejected):
		return nil
	case from == domain.StatusApproved && to == domain.StatusPending && p.AllowRevoke:
		return nil
	}
	return &domain.TransitionError{From: from, To: to}
}

// CheckApproval 录用前的名额校验；apps 需包含该岗位全部申请
func (p Policy) CheckApproval(job domain.Job, apps []domain.Application) error {
	if !p.EnforceCapacityOnApproval {
		return nil
	}
	if approved := ComputeApprovedCount(job.ID, apps); approved >= job.Capacity {
		return &domain.Rejection{Reason: domain.ReasonJobFull, Approved: approved, Capacity: job.Capacity}
	}
	return nil
}

// CanWithdraw 撤回即硬删除；默认只允许 pending
func (p Policy) CanWithdraw(app domain.Application) error {
	switch app.Status {
	case domain.StatusPending:
		return nil
	case domain.StatusApproved:
		if p.AllowWithdrawAfterApproval {
			return nil
		}
	}
	return &domain.StateError{Op: "withdraw", Status: app.Status}
}
