package memory

import (
	"context"
	"sync"

	"work-placement/internal/domain"
)

type appRepo struct {
	l sync.Locker
	s *Store
}

func appKey(a domain.Application) string { return a.ID }

func (r appRepo) Create(_ context.Context, a *domain.Application) error {
	if a.ID == "" {
		return domain.Invalid("id", "required")
	}
	if !a.Status.Valid() {
		return domain.Invalid("status", "must be pending, approved or rejected")
	}
	r.l.Lock()
	defer r.l.Unlock()
	if indexOf(r.s.st.apps, a.ID, appKey) >= 0 {
		return domain.Invalid("id", "duplicate application id "+a.ID)
	}
	r.s.st.apps = append(r.s.st.apps, *a)
	return nil
}

func (r appRepo) FindByID(_ context.Context, id string) (*domain.Application, error) {
	r.l.Lock()
	defer r.l.Unlock()
	i := indexOf(r.s.st.apps, id, appKey)
	if i < 0 {
		return nil, domain.NotFound("application", id)
	}
	a := r.s.st.apps[i]
	return &a, nil
}

func (r appRepo) List(_ context.Context) ([]domain.Application, error) {
	return r.filter(func(domain.Application) bool { return true }), nil
}

func (r appRepo) ListByUser(_ context.Context, userID string) ([]domain.Application, error) {
	return r.filter(func(a domain.Application) bool { return a.UserID == userID }), nil
}

func (r appRepo) ListByJob(_ context.Context, jobID string) ([]domain.Application, error) {
	return r.filter(func(a domain.Application) bool { return a.JobID == jobID }), nil
}

func (r appRepo) filter(keep func(domain.Application) bool) []domain.Application {
	r.l.Lock()
	defer r.l.Unlock()
	out := []domain.Application{}
	for _, a := range r.s.st.apps {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (r appRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	if !status.Valid() {
		return domain.Invalid("status", "must be pending, approved or rejected")
	}
	r.l.Lock()
	defer r.l.Unlock()
	i := indexOf(r.s.st.apps, id, appKey)
	if i < 0 {
		return domain.NotFound("application", id)
	}
	r.s.st.apps[i].Status = status
	return nil
}

func (r appRepo) Delete(_ context.Context, id string) error {
	r.l.Lock()
	defer r.l.Unlock()
	i := indexOf(r.s.st.apps, id, appKey)
	if i < 0 {
		return domain.NotFound("application", id)
	}
	r.s.st.apps = append(r.s.st.apps[:i:i], r.s.st.apps[i+1:]...)
	return nil
}
