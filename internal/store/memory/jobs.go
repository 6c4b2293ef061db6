package memory

import (
	"context"
	"sync"
	"time"

	"work-placement/internal/domain"
)

type jobRepo struct {
	l sync.Locker
	s *Store
}

func jobKey(j domain.Job) string { return j.ID }

func (r jobRepo) Create(_ context.Context, j *domain.Job) error {
	if j.ID == "" {
		return domain.Invalid("id", "required")
	}
	r.l.Lock()
	defer r.l.Unlock()
	if indexOf(r.s.st.jobs, j.ID, jobKey) >= 0 {
		return domain.Invalid("id", "duplicate job id "+j.ID)
	}
	now := time.Now()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now
	r.s.st.jobs = append(r.s.st.jobs, j.Clone())
	return nil
}

func (r jobRepo) FindByID(_ context.Context, id string) (*domain.Job, error) {
	r.l.Lock()
	defer r.l.Unlock()
	i := indexOf(r.s.st.jobs, id, jobKey)
	if i < 0 {
		return nil, domain.NotFound("job", id)
	}
	j := r.s.st.jobs[i].Clone()
	return &j, nil
}

func (r jobRepo) List(_ context.Context) ([]domain.Job, error) {
	r.l.Lock()
	defer r.l.Unlock()
	out := make([]domain.Job, len(r.s.st.jobs))
	for i, j := range r.s.st.jobs {
		out[i] = j.Clone()
	}
	return out, nil
}

func (r jobRepo) Update(_ context.Context, j *domain.Job) error {
	r.l.Lock()
	defer r.l.Unlock()
	i := indexOf(r.s.st.jobs, j.ID, jobKey)
	if i < 0 {
		return domain.NotFound("job", j.ID)
	}
	j.CreatedAt = r.s.st.jobs[i].CreatedAt
	j.UpdatedAt = time.Now()
	r.s.st.jobs[i] = j.Clone()
	return nil
}

func (r jobRepo) Delete(_ context.Context, id string) error {
	r.l.Lock()
	defer r.l.Unlock()
	i := indexOf(r.s.st.jobs, id, jobKey)
	if i < 0 {
		return domain.NotFound("job", id)
	}
	r.s.st.jobs = append(r.s.st.jobs[:i:i], r.s.st.jobs[i+1:]...)
	return nil
}
