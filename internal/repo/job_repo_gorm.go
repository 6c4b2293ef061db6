package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"work-placement/internal/domain"
	"work-placement/internal/feature/job"
)

type JobRepo struct {
	db   *gorm.DB
	lock bool
}

func (r *JobRepo) Create(ctx context.Context, j *domain.Job) error {
	m := job.FromDomain(*j)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return createErr("job", j.ID, err)
	}
	j.CreatedAt, j.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *JobRepo) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	m, err := findByID[job.JobModel](ctx, r.db, r.lock, "job", id)
	if err != nil {
		return nil, err
	}
	j := m.ToDomain()
	return &j, nil
}

func (r *JobRepo) List(ctx context.Context) ([]domain.Job, error) {
	var ms []job.JobModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	out := make([]domain.Job, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

func (r *JobRepo) Update(ctx context.Context, j *domain.Job) error {
	old, err := findByID[job.JobModel](ctx, r.db, false, "job", j.ID)
	if err != nil {
		return err
	}
	m := job.FromDomain(*j)
	m.CreatedAt = old.CreatedAt
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	j.CreatedAt, j.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *JobRepo) Delete(ctx context.Context, id string) error {
	return deleteByID[job.JobModel](ctx, r.db, "job", id)
}
