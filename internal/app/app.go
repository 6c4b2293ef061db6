// Package app 两个进程共用的装配：存储、种子数据、缓存、JWT、service。
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"work-placement/internal/core/auth"
	"work-placement/internal/core/cache"
	"work-placement/internal/core/config"
	"work-placement/internal/core/database"
	"work-placement/internal/domain"
	"work-placement/internal/placement"
	"work-placement/internal/repo"
	"work-placement/internal/seed"
	"work-placement/internal/service"
	"work-placement/internal/store/memory"
	"work-placement/internal/transport/http/router"
)

type App struct {
	Deps  router.Deps
	Store domain.Store

	closers []func() error
}

// New 失败时已打开的资源会被关闭
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{}
	if err := a.init(ctx, cfg, l); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context, cfg *config.Config, l *zap.Logger) error {
	var err error
	if a.Store, err = a.openStore(cfg, l); err != nil {
		return err
	}
	if cfg.Store.Seed {
		if err := seed.Load(ctx, a.Store, l); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if c != nil {
		a.closers = append(a.closers, c.Close)
		if perr := c.Ping(ctx); perr != nil {
			// redis 不可用时退化为直读存储
			l.Warn("redis unreachable, guide cache degraded", zap.String("addr", cfg.Redis.Addr), zap.Error(perr))
		}
	}

	svc := service.New(a.Store, c, Options(cfg), l)
	a.Deps = router.Deps{
		Log:  l,
		JWT:  auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenTTLMin)*time.Minute),
		Svc:  svc,
		Prod: cfg.IsProd(),
	}
	return nil
}

// Options config.Placement -> service.Options
func Options(cfg *config.Config) service.Options {
	p := cfg.Placement
	return service.Options{
		Policy: placement.Policy{
			AllowWithdrawAfterApproval: p.AllowWithdrawAfterApproval,
			AllowRevoke:                p.AllowRevoke,
			EnforceCapacityOnApproval:  p.EnforceCapacityOnApproval,
		},
		DefaultScore:         p.DefaultScore,
		RegistrationCodeHash: p.RegistrationCodeHash,
		MaxImages:            p.MaxImages,
		GuideTTL:             time.Duration(cfg.Redis.GuideTTLSec) * time.Second,
	}
}

func (a *App) openStore(cfg *config.Config, l *zap.Logger) (domain.Store, error) {
	if cfg.Store.Driver == "memory" {
		l.Info("store: memory")
		return memory.New(), nil
	}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	a.closers = append(a.closers, sqlDB.Close)
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}
	return repo.NewStore(db), nil
}

// Close 逆序关闭
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
