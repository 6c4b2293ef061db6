package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"work-placement/internal/core/cache"
	"work-placement/internal/domain"
	"work-placement/internal/placement"
)

// Options 业务开关，来自 config.Placement / config.Redis
type Options struct {
	Policy               placement.Policy
	DefaultScore         float64
	RegistrationCodeHash string // 为空时注册不需要邀请码
	MaxImages            int
	GuideTTL             time.Duration
	Now                  func() time.Time
}

func (o Options) withDefaults() Options {
	if o.DefaultScore == 0 {
		o.DefaultScore = 6.0
	}
	if o.MaxImages <= 0 {
		o.MaxImages = 9
	}
	if o.GuideTTL <= 0 {
		o.GuideTTL = 5 * time.Minute
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Service 所有 Service 的聚合入口
type Service struct {
	Users     UserService
	Jobs      JobService
	Placement PlacementService
	Guides    GuideService
	Export    ExportService
}

func New(store domain.Store, c *cache.Cache, opt Options, logger *zap.Logger) *Service {
	opt = opt.withDefaults()
	return &Service{
		Users:     NewUserService(store, opt, logger),
		Jobs:      NewJobService(store, opt, logger),
		Placement: NewPlacementService(store, opt, logger),
		Guides:    NewGuideService(store, c, opt, logger),
		Export:    NewExportService(store, logger),
	}
}

// loadAll 一次性读取三大集合，派生视图都从这里算
func loadAll(ctx context.Context, s domain.Store) ([]domain.User, []domain.Job, []domain.Application, error) {
	users, err := s.Users().List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	jobs, err := s.Jobs().List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	apps, err := s.Applications().List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return users, jobs, apps, nil
}

func logWarnings(l *zap.Logger, warns []placement.IntegrityWarning) {
	for _, w := range warns {
		l.Warn("application references missing record",
			zap.String("application_id", w.ApplicationID),
			zap.String("missing", w.Missing),
			zap.String("ref_id", w.RefID),
		)
	}
}
