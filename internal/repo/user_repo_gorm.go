package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"work-placement/internal/domain"
	"work-placement/internal/feature/user"
)

type UserRepo struct {
	db   *gorm.DB
	lock bool
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if !u.Role.Valid() {
		return domain.Invalid("role", "must be student or admin")
	}
	m := user.FromDomain(*u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return createErr("user", u.ID, err)
	}
	u.CreatedAt, u.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	m, err := findByID[user.UserModel](ctx, r.db, r.lock, "user", id)
	if err != nil {
		return nil, err
	}
	u := m.ToDomain()
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var ms []user.UserModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ToDomain())
	}
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	if !u.Role.Valid() {
		return domain.Invalid("role", "must be student or admin")
	}
	old, err := findByID[user.UserModel](ctx, r.db, false, "user", u.ID)
	if err != nil {
		return err
	}
	m := user.FromDomain(*u)
	m.CreatedAt = old.CreatedAt
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	u.CreatedAt, u.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}
