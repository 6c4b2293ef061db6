package memory

import (
	"context"
	"sync"
	"time"

	"work-placement/internal/domain"
)

type userRepo struct {
	l sync.Locker
	s *Store
}

func userKey(u domain.User) string { return u.ID }

func (r userRepo) Create(_ context.Context, u *domain.User) error {
	if u.ID == "" {
		return domain.Invalid("id", "required")
	}
	if !u.Role.Valid() {
		return domain.Invalid("role", "must be student or admin")
	}
	r.l.Lock()
	defer r.l.Unlock()
	if indexOf(r.s.st.users, u.ID, userKey) >= 0 {
		return domain.Invalid("id", "duplicate user id "+u.ID)
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	r.s.st.users = append(r.s.st.users, u.Clone())
	return nil
}

func (r userRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.l.Lock()
	defer r.l.Unlock()
	i := indexOf(r.s.st.users, id, userKey)
	if i < 0 {
		return nil, domain.NotFound("user", id)
	}
	u := r.s.st.users[i].Clone()
	return &u, nil
}

func (r userRepo) List(_ context.Context) ([]domain.User, error) {
	r.l.Lock()
	defer r.l.Unlock()
	out := make([]domain.User, len(r.s.st.users))
	for i, u := range r.s.st.users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (r userRepo) Update(_ context.Context, u *domain.User) error {
	if !u.Role.Valid() {
		return domain.Invalid("role", "must be student or admin")
	}
	r.l.Lock()
	defer r.l.Unlock()
	i := indexOf(r.s.st.users, u.ID, userKey)
	if i < 0 {
		return domain.NotFound("user", u.ID)
	}
	u.CreatedAt = r.s.st.users[i].CreatedAt
	u.UpdatedAt = time.Now()
	r.s.st.users[i] = u.Clone()
	return nil
}
