package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"work-placement/internal/domain"
	"work-placement/internal/placement"
	"work-placement/pkg/utils"
)

// JobInput 创建/更新共用；更新为整体替换，SequenceNumber 为 nil 时保留原值
type JobInput struct {
	SequenceNumber *int     `json:"sequenceNumber"`
	Title          string   `json:"title"`
	Location       string   `json:"location"`
	CompanyName    string   `json:"companyName"`
	Description    string   `json:"description"`
	ProgramYear    string   `json:"programYear"`
	HousingType    string   `json:"housingType"`
	HousingCost    string   `json:"housingCost"`
	Salary         string   `json:"salary"`
	StartDateRange string   `json:"startDateRange"`
	EndDate        string   `json:"endDate"`
	Capacity       int      `json:"capacity"`
	MinScore       float64  `json:"minScore"`
	ImageURLs      []string `json:"imageUrls"`
	Tags           []string `json:"tags"`
}

type JobService interface {
	List(ctx context.Context, text string) ([]placement.JobCard, error)
	Get(ctx context.Context, jobID string) (*placement.JobCard, error)
	Create(ctx context.Context, in JobInput) (*domain.Job, error)
	Update(ctx context.Context, jobID string, in JobInput) (*domain.Job, error)
	Delete(ctx context.Context, jobID string) error
}

type jobService struct {
	store  domain.Store
	opt    Options
	logger *zap.Logger
}

func NewJobService(store domain.Store, opt Options, logger *zap.Logger) JobService {
	return &jobService{store: store, opt: opt.withDefaults(), logger: logger}
}

func (s *jobService) List(ctx context.Context, text string) ([]placement.JobCard, error) {
	jobs, err := s.store.Jobs().List(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.Applications().List(ctx)
	if err != nil {
		return nil, err
	}
	return placement.AdminJobList(jobs, apps, text), nil
}

func (s *jobService) Get(ctx context.Context, jobID string) (*placement.JobCard, error) {
	j, err := s.store.Jobs().FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.Applications().ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	n := placement.ComputeApprovedCount(j.ID, apps)
	return &placement.JobCard{Job: *j, ApprovedCount: n, Full: n >= j.Capacity}, nil
}

func (s *jobService) validate(in *JobInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	switch {
	case in.Title == "":
		return domain.Invalid("title", "required")
	case in.CompanyName == "":
		return domain.Invalid("companyName", "required")
	case in.Capacity <= 0:
		return domain.Invalid("capacity", "must be greater than 0")
	case in.MinScore < 0:
		return domain.Invalid("minScore", "must not be negative")
	case len(in.ImageURLs) > s.opt.MaxImages:
		return domain.Invalid("imageUrls", fmt.Sprintf("at most %d images", s.opt.MaxImages))
	}
	return nil
}

func (in JobInput) apply(j *domain.Job) {
	if in.SequenceNumber != nil {
		j.SequenceNumber = *in.SequenceNumber
	}
	j.Title = in.Title
	j.Location = strings.TrimSpace(in.Location)
	j.CompanyName = in.CompanyName
	j.Description = in.Description
	j.ProgramYear = strings.TrimSpace(in.ProgramYear)
	j.HousingType = in.HousingType
	j.HousingCost = in.HousingCost
	j.Salary = in.Salary
	j.StartDateRange = in.StartDateRange
	j.EndDate = in.EndDate
	j.Capacity = in.Capacity
	j.MinScore = in.MinScore
	j.ImageURLs = append([]string(nil), in.ImageURLs...)
	j.Tags = append([]string(nil), in.Tags...)
}

func (s *jobService) Create(ctx context.Context, in JobInput) (*domain.Job, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	j := &domain.Job{ID: utils.NewID()}
	in.apply(j)
	err := s.store.Atomically(ctx, func(tx domain.Store) error {
		if in.SequenceNumber == nil {
			jobs, err := tx.Jobs().List(ctx)
			if err != nil {
				return err
			}
			j.SequenceNumber = len(jobs) + 1
		}
		return tx.Jobs().Create(ctx, j)
	})
	if err != nil {
		s.logger.Error("创建岗位失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("job posted", zap.String("job_id", j.ID), zap.String("title", j.Title), zap.Int("capacity", j.Capacity))
	return j, nil
}

// Update 调小 capacity 不影响已录用的申请，只让岗位显示为满员
func (s *jobService) Update(ctx context.Context, jobID string, in JobInput) (*domain.Job, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}
	var out *domain.Job
	err := s.store.Atomically(ctx, func(tx domain.Store) error {
		j, err := tx.Jobs().FindByID(ctx, jobID)
		if err != nil {
			return err
		}
		in.apply(j)
		if err := tx.Jobs().Update(ctx, j); err != nil {
			return err
		}
		out = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("job updated", zap.String("job_id", jobID))
	return out, nil
}

// Delete 不级联删除申请，悬空申请由读路径过滤
func (s *jobService) Delete(ctx context.Context, jobID string) error {
	if err := s.store.Jobs().Delete(ctx, jobID); err != nil {
		return err
	}
	s.logger.Info("job deleted", zap.String("job_id", jobID))
	return nil
}
