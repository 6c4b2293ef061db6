package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"work-placement/internal/core/cache"
	"work-placement/internal/domain"
	"work-placement/pkg/utils"
)

const guidesKey = "placement:guides"

func guideKey(id string) string { return guidesKey + ":" + id }

type GuideInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl"`
}

// GuideService 指南读多写少，读走 redis，写后失效
type GuideService interface {
	List(ctx context.Context) ([]domain.Guide, error)
	Get(ctx context.Context, id string) (*domain.Guide, error)
	Create(ctx context.Context, in GuideInput) (*domain.Guide, error)
	Update(ctx context.Context, id string, in GuideInput) (*domain.Guide, error)
	Delete(ctx context.Context, id string) error
}

type guideService struct {
	store  domain.Store
	cache  *cache.Cache
	opt    Options
	logger *zap.Logger
}

func NewGuideService(store domain.Store, c *cache.Cache, opt Options, logger *zap.Logger) GuideService {
	return &guideService{store: store, cache: c, opt: opt.withDefaults(), logger: logger}
}

func (s *guideService) List(ctx context.Context) ([]domain.Guide, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, guidesKey, s.opt.GuideTTL, func(ctx context.Context) ([]domain.Guide, error) {
		return s.store.Guides().List(ctx)
	})
}

func (s *guideService) Get(ctx context.Context, id string) (*domain.Guide, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, guideKey(id), s.opt.GuideTTL, func(ctx context.Context) (*domain.Guide, error) {
		return s.store.Guides().FindByID(ctx, id)
	})
}

func validateGuide(in *GuideInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return domain.Invalid("title", "required")
	}
	return nil
}

func (s *guideService) Create(ctx context.Context, in GuideInput) (*domain.Guide, error) {
	if err := validateGuide(&in); err != nil {
		return nil, err
	}
	g := &domain.Guide{ID: utils.NewID(), Title: in.Title, Content: in.Content, Category: in.Category, ImageURL: in.ImageURL}
	if err := s.store.Guides().Create(ctx, g); err != nil {
		s.logger.Error("创建指南失败", zap.Error(err))
		return nil, err
	}
	s.cache.Invalidate(ctx, guidesKey)
	s.logger.Info("guide posted", zap.String("guide_id", g.ID))
	return g, nil
}

func (s *guideService) Update(ctx context.Context, id string, in GuideInput) (*domain.Guide, error) {
	if err := validateGuide(&in); err != nil {
		return nil, err
	}
	var out *domain.Guide
	err := s.store.Atomically(ctx, func(tx domain.Store) error {
		g, err := tx.Guides().FindByID(ctx, id)
		if err != nil {
			return err
		}
		g.Title, g.Content, g.Category, g.ImageURL = in.Title, in.Content, in.Category, in.ImageURL
		if err := tx.Guides().Update(ctx, g); err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, guidesKey, guideKey(id))
	return out, nil
}

func (s *guideService) Delete(ctx context.Context, id string) error {
	if err := s.store.Guides().Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, guidesKey, guideKey(id))
	s.logger.Info("guide deleted", zap.String("guide_id", id))
	return nil
}
