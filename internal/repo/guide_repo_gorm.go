package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"work-placement/internal/domain"
	"work-placement/internal/feature/guide"
)

type GuideRepo struct{ db *gorm.DB }

func (r *GuideRepo) Create(ctx context.Context, g *domain.Guide) error {
	m := guide.FromDomain(*g)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return createErr("guide", g.ID, err)
	}
	g.CreatedAt, g.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *GuideRepo) FindByID(ctx context.Context, id string) (*domain.Guide, error) {
	m, err := findByID[guide.GuideModel](ctx, r.db, false, "guide", id)
	if err != nil {
		return nil, err
	}
	g := m.ToDomain()
	return &g, nil
}

func (r *GuideRepo) List(ctx context.Context) ([]domain.Guide, error) {
	var ms []guide.GuideModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list guides: %w", err)
	}
	out := make([]domain.Guide, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

func (r *GuideRepo) Update(ctx context.Context, g *domain.Guide) error {
	old, err := findByID[guide.GuideModel](ctx, r.db, false, "guide", g.ID)
	if err != nil {
		return err
	}
	m := guide.FromDomain(*g)
	m.CreatedAt = old.CreatedAt
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return fmt.Errorf("update guide: %w", err)
	}
	g.CreatedAt, g.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *GuideRepo) Delete(ctx context.Context, id string) error {
	return deleteByID[guide.GuideModel](ctx, r.db, "guide", id)
}
