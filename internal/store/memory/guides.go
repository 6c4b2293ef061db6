package memory

import (
	"context"
	"sync"
	"time"

	"work-placement/internal/domain"
)

type guideRepo struct {
	l sync.Locker
	s *Store
}

func guideKey(g domain.Guide) string { return g.ID }

func (r guideRepo) Create(_ context.Context, g *domain.Guide) error {
	if g.ID == "" {
		return domain.Invalid("id", "required")
	}
	r.l.Lock()
	defer r.l.Unlock()
	if indexOf(r.s.st.guides, g.ID, guideKey) >= 0 {
		return domain.Invalid("id", "duplicate guide id "+g.ID)
	}
	now := time.Now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	r.s.st.guides = append(r.s.st.guides, *g)
	return nil
}

func (r guideRepo) FindByID(_ context.Context, id string) (*domain.Guide, error) {
	r.l.Lock()
	defer r.l.Unlock()
	i := indexOf(r.s.st.guides, id, guideKey)
	if i < 0 {
		return nil, domain.NotFound("guide", id)
	}
	g := r.s.st.guides[i]
	return &g, nil
}

func (r guideRepo) List(_ context.Context) ([]domain.Guide, error) {
	r.l.Lock()
	defer r.l.Unlock()
	return append([]domain.Guide{}, r.s.st.guides...), nil
}

func (r guideRepo) Update(_ context.Context, g *domain.Guide) error {
	r.l.Lock()
	defer r.l.Unlock()
	i := indexOf(r.s.st.guides, g.ID, guideKey)
	if i < 0 {
		return domain.NotFound("guide", g.ID)
	}
	g.CreatedAt = r.s.st.guides[i].CreatedAt
	g.UpdatedAt = time.Now()
	r.s.st.guides[i] = *g
	return nil
}

func (r guideRepo) Delete(_ context.Context, id string) error {
	r.l.Lock()
	defer r.l.Unlock()
	i := indexOf(r.s.st.guides, id, guideKey)
	if i < 0 {
		return domain.NotFound("guide", id)
	}
	r.s.st.guides = append(r.s.st.guides[:i:i], r.s.st.guides[i+1:]...)
	return nil
}
