package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"work-placement/internal/domain"
	"work-placement/internal/feature/application"
)

type ApplicationRepo struct{ db *gorm.DB }

func (r *ApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	if !a.Status.Valid() {
		return domain.Invalid("status", "must be pending, approved or rejected")
	}
	m := application.FromDomain(*a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return createErr("application", a.ID, err)
	}
	return nil
}

func (r *ApplicationRepo) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	m, err := findByID[application.ApplicationModel](ctx, r.db, false, "application", id)
	if err != nil {
		return nil, err
	}
	a := m.ToDomain()
	return &a, nil
}

func (r *ApplicationRepo) List(ctx context.Context) ([]domain.Application, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *ApplicationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	return r.list(r.db.WithContext(ctx).Where("job_id = ?", jobID))
}

func (r *ApplicationRepo) list(q *gorm.DB) ([]domain.Application, error) {
	var ms []application.ApplicationModel
	if err := q.Order("applied_at ASC, id ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	out := make([]domain.Application, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	if !status.Valid() {
		return domain.Invalid("status", "must be pending, approved or rejected")
	}
	if _, err := findByID[application.ApplicationModel](ctx, r.db, false, "application", id); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&application.ApplicationModel{}).
		Where("id = ?", id).Update("status", string(status)).Error
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return nil
}

func (r *ApplicationRepo) Delete(ctx context.Context, id string) error {
	return deleteByID[application.ApplicationModel](ctx, r.db, "application", id)
}
