package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"work-placement/internal/domain"
	"work-placement/internal/placement"
	"work-placement/pkg/utils"
)

// Verdict 学生端岗位详情里的“能否申请”提示
type Verdict struct {
	CanApply bool          `json:"canApply"`
	Reason   domain.Reason `json:"reason,omitempty"`
	Message  string        `json:"message,omitempty"`
}

type JobDetail struct {
	placement.JobCard
	Application *domain.Application `json:"application,omitempty"`
	Verdict     Verdict             `json:"verdict"`
}

type Dashboard struct {
	Students  int `json:"students"`
	Jobs      int `json:"jobs"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	OpenSeats int `json:"openSeats"`
}

// PlacementService 申请、撤回、审核。
// 写操作都在 Atomically 内完成读-判-写，先锁学生再锁岗位。
type PlacementService interface {
	Apply(ctx context.Context, studentID, jobID string) (*domain.Application, error)
	Withdraw(ctx context.Context, studentID, applicationID string) error
	SetStatus(ctx context.Context, applicationID string, status domain.Status) (*domain.Application, error)

	Board(ctx context.Context, studentID, text string) (*placement.JobBoard, error)
	JobDetail(ctx context.Context, studentID, jobID string) (*JobDetail, error)
	MyApplications(ctx context.Context, studentID string) ([]placement.ApplicationView, error)
	JobApplications(ctx context.Context, jobID string) ([]placement.ApplicationView, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type placementService struct {
	store  domain.Store
	opt    Options
	logger *zap.Logger
}

func NewPlacementService(store domain.Store, opt Options, logger *zap.Logger) PlacementService {
	return &placementService{store: store, opt: opt.withDefaults(), logger: logger}
}

func (s *placementService) student(ctx context.Context, st domain.Store, id string) (*domain.User, error) {
	u, err := st.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsStudent() {
		return nil, domain.ErrForbidden
	}
	return u, nil
}

// ────────────────────── Apply ──────────────────────

func (s *placementService) Apply(ctx context.Context, studentID, jobID string) (*domain.Application, error) {
	var created *domain.Application
	err := s.store.Atomically(ctx, func(tx domain.Store) error {
		u, err := s.student(ctx, tx, studentID)
		if err != nil {
			return err
		}
		j, err := tx.Jobs().FindByID(ctx, jobID)
		if err != nil {
			return err
		}
		mine, err := tx.Applications().ListByUser(ctx, studentID)
		if err != nil {
			return err
		}
		forJob, err := tx.Applications().ListByJob(ctx, jobID)
		if err != nil {
			return err
		}
		if active := placement.ActiveApplications(studentID, mine); len(active) > 1 {
			s.logger.Warn("student holds more than one active application",
				zap.String("user_id", studentID), zap.Int("active", len(active)))
		}
		if err := placement.CanApply(*u, *j, mergeApps(mine, forJob)); err != nil {
			return err
		}
		a := &domain.Application{
			ID:     utils.NewID(),
			UserID: studentID,
			JobID:  jobID,
			Status: domain.StatusPending,
			Date:   s.opt.Now().UTC(),
		}
		if err := tx.Applications().Create(ctx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	applyTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		var rej *domain.Rejection
		if errors.As(err, &rej) {
			s.logger.Info("apply rejected",
				zap.String("user_id", studentID), zap.String("job_id", jobID), zap.String("reason", string(rej.Reason)))
		}
		return nil, err
	}
	s.logger.Info("application created",
		zap.String("application_id", created.ID), zap.String("user_id", studentID), zap.String("job_id", jobID))
	return created, nil
}

// mergeApps 学生的申请 + 岗位的申请，去重，保持原顺序
func mergeApps(a, b []domain.Application) []domain.Application {
	seen := make(map[string]bool, len(a))
	out := make([]domain.Application, 0, len(a)+len(b))
	for _, x := range a {
		seen[x.ID] = true
		out = append(out, x)
	}
	for _, x := range b {
		if !seen[x.ID] {
			out = append(out, x)
		}
	}
	return out
}

// ────────────────────── Withdraw ──────────────────────

func (s *placementService) Withdraw(ctx context.Context, studentID, applicationID string) error {
	err := s.store.Atomically(ctx, func(tx domain.Store) error {
		if _, err := tx.Users().FindByID(ctx, studentID); err != nil {
			return err
		}
		a, err := tx.Applications().FindByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if a.UserID != studentID {
			return domain.ErrForbidden
		}
		if err := s.opt.Policy.CanWithdraw(*a); err != nil {
			return err
		}
		return tx.Applications().Delete(ctx, applicationID)
	})
	withdrawTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return err
	}
	s.logger.Info("application withdrawn", zap.String("application_id", applicationID), zap.String("user_id", studentID))
	return nil
}

// ────────────────────── SetStatus ──────────────────────

func (s *placementService) SetStatus(ctx context.Context, applicationID string, status domain.Status) (*domain.Application, error) {
	var out *domain.Application
	err := s.store.Atomically(ctx, func(tx domain.Store) error {
		a, err := tx.Applications().FindByID(ctx, applicationID)
		if err != nil {
			return err
		}
		// 加锁顺序与 Apply 一致；学生缺失不阻止审核
		if _, err := tx.Users().FindByID(ctx, a.UserID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		j, err := tx.Jobs().FindByID(ctx, a.JobID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		// 加锁后重读，避免并发审核同一申请
		if a, err = tx.Applications().FindByID(ctx, applicationID); err != nil {
			return err
		}
		if err := s.opt.Policy.CheckTransition(a.Status, status); err != nil {
			return err
		}
		if status == domain.StatusApproved {
			if j == nil {
				return domain.NotFound("job", a.JobID)
			}
			forJob, err := tx.Applications().ListByJob(ctx, j.ID)
			if err != nil {
				return err
			}
			if err := s.opt.Policy.CheckApproval(*j, forJob); err != nil {
				return err
			}
		}
		if err := tx.Applications().UpdateStatus(ctx, applicationID, status); err != nil {
			return err
		}
		from := a.Status
		a.Status = status
		out = a
		s.logger.Info("application status changed",
			zap.String("application_id", applicationID),
			zap.String("from", string(from)), zap.String("to", string(status)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	statusChangeTotal.WithLabelValues(string(status)).Inc()
	return out, nil
}

// ────────────────────── Read views ──────────────────────

func (s *placementService) Board(ctx context.Context, studentID, text string) (*placement.JobBoard, error) {
	u, err := s.student(ctx, s.store, studentID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.store.Jobs().List(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.Applications().List(ctx)
	if err != nil {
		return nil, err
	}
	board := placement.StudentJobBoard(*u, jobs, apps, text)
	return &board, nil
}

func (s *placementService) JobDetail(ctx context.Context, studentID, jobID string) (*JobDetail, error) {
	u, err := s.student(ctx, s.store, studentID)
	if err != nil {
		return nil, err
	}
	j, err := s.store.Jobs().FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	mine, err := s.store.Applications().ListByUser(ctx, studentID)
	if err != nil {
		return nil, err
	}
	forJob, err := s.store.Applications().ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	n := placement.ComputeApprovedCount(j.ID, forJob)
	d := &JobDetail{
		JobCard: placement.JobCard{Job: *j, ApprovedCount: n, Full: n >= j.Capacity, Eligible: placement.IsEligible(*u, *j)},
		Verdict: Verdict{CanApply: true},
	}
	for i := len(mine) - 1; i >= 0; i-- {
		if mine[i].JobID == jobID {
			a := mine[i]
			d.Application = &a
			break
		}
	}
	if err := placement.CanApply(*u, *j, mergeApps(mine, forJob)); err != nil {
		var rej *domain.Rejection
		if !errors.As(err, &rej) {
			return nil, err
		}
		d.Verdict = Verdict{Reason: rej.Reason, Message: rej.Error()}
	}
	return d, nil
}

func (s *placementService) MyApplications(ctx context.Context, studentID string) ([]placement.ApplicationView, error) {
	u, err := s.store.Users().FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.Applications().ListByUser(ctx, studentID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.store.Jobs().List(ctx)
	if err != nil {
		return nil, err
	}
	views, warns := placement.JoinApplications(apps, []domain.User{*u}, jobs)
	logWarnings(s.logger, warns)
	return views, nil
}

func (s *placementService) JobApplications(ctx context.Context, jobID string) ([]placement.ApplicationView, error) {
	j, err := s.store.Jobs().FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.Applications().ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	views, warns := placement.JoinApplications(apps, users, []domain.Job{*j})
	logWarnings(s.logger, warns)
	return views, nil
}

func (s *placementService) Dashboard(ctx context.Context) (*Dashboard, error) {
	users, jobs, apps, err := loadAll(ctx, s.store)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Jobs: len(jobs)}
	for _, u := range users {
		if u.IsStudent() {
			d.Students++
		}
	}
	// 只统计引用完整的申请
	views, warns := placement.JoinApplications(apps, users, jobs)
	logWarnings(s.logger, warns)
	for _, v := range views {
		switch v.Status {
		case domain.StatusPending:
			d.Pending++
		case domain.StatusApproved:
			d.Approved++
		case domain.StatusRejected:
			d.Rejected++
		}
	}
	for _, j := range jobs {
		if free := j.Capacity - placement.ComputeApprovedCount(j.ID, apps); free > 0 {
			d.OpenSeats += free
		}
	}
	return d, nil
}
