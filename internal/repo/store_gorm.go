package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"work-placement/internal/domain"
	"work-placement/internal/feature/application"
	"work-placement/internal/feature/guide"
	"work-placement/internal/feature/job"
	"work-placement/internal/feature/user"
)

// Store gorm 实现。事务内 FindByID 对 users/jobs 加行锁（SELECT ... FOR UPDATE），
// 调用方按“先学生后岗位”的顺序加锁，避免死锁。
type Store struct {
	db   *gorm.DB
	inTx bool
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.UserModel{},
		&job.JobModel{},
		&application.ApplicationModel{},
		&guide.GuideModel{},
	)
}

func (s *Store) Users() domain.UserRepository { return &UserRepo{db: s.db, lock: s.inTx} }
func (s *Store) Jobs() domain.JobRepository   { return &JobRepo{db: s.db, lock: s.inTx} }
func (s *Store) Applications() domain.ApplicationRepository {
	return &ApplicationRepo{db: s.db}
}
func (s *Store) Guides() domain.GuideRepository { return &GuideRepo{db: s.db} }

func (s *Store) Atomically(ctx context.Context, fn func(tx domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, inTx: true})
	})
}

func findByID[M any](ctx context.Context, db *gorm.DB, lock bool, entity, id string) (*M, error) {
	var m M
	q := db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound(entity, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", entity, err)
	}
	return &m, nil
}

func deleteByID[M any](ctx context.Context, db *gorm.DB, entity, id string) error {
	var m M
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&m)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(entity, id)
	}
	return nil
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func createErr(entity, id string, err error) error {
	if isDupKey(err) {
		return domain.Invalid("id", "duplicate "+entity+" id "+id)
	}
	return fmt.Errorf("create %s: %w", entity, err)
}
