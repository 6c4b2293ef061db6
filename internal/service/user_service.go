package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"work-placement/internal/domain"
	"work-placement/internal/placement"
	"work-placement/pkg/utils"
)

// ── 用户模块业务错误 ──

var ErrBadRegistrationCode = fmt.Errorf("%w: invalid registration code", domain.ErrForbidden)

type RegisterInput struct {
	Name        string   `json:"name"`
	School      string   `json:"school"`
	Phone       string   `json:"phone"`
	ProgramYear string   `json:"programYear"`
	Score       *float64 `json:"score"`
	Code        string   `json:"code"`
}

// SelfUpdate 学生本人只能改姓名和电话
type SelfUpdate struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// StudentUpdate 管理员可改任意字段，nil 表示不改
type StudentUpdate struct {
	SequenceNumber    *int                       `json:"sequenceNumber"`
	Name              *string                    `json:"name"`
	School            *string                    `json:"school"`
	Phone             *string                    `json:"phone"`
	ProgramYear       *string                    `json:"programYear"`
	Score             *float64                   `json:"score"`
	EmergencyContacts *[]domain.EmergencyContact `json:"emergencyContacts"`
}

type StudentDetail struct {
	domain.User
	Applications []placement.ApplicationView `json:"applications"`
}

// UserService 账号、注册与学生资料
type UserService interface {
	Accounts(ctx context.Context) ([]domain.User, error)
	Login(ctx context.Context, userID string) (*domain.User, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateSelf(ctx context.Context, userID string, in SelfUpdate) (*domain.User, error)

	ListStudents(ctx context.Context, q placement.StudentQuery) ([]placement.StudentRow, error)
	GetStudent(ctx context.Context, userID string) (*StudentDetail, error)
	UpdateStudent(ctx context.Context, userID string, in StudentUpdate) (*domain.User, error)
}

type userService struct {
	store  domain.Store
	opt    Options
	logger *zap.Logger
}

func NewUserService(store domain.Store, opt Options, logger *zap.Logger) UserService {
	return &userService{store: store, opt: opt.withDefaults(), logger: logger}
}

func (s *userService) Accounts(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	return placement.SortUsers(users), nil
}

func (s *userService) Login(ctx context.Context, userID string) (*domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.Invalid("userId", "required")
	}
	u, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user login", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// ────────────────────── Register ──────────────────────

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name, school, phone := strings.TrimSpace(in.Name), strings.TrimSpace(in.School), strings.TrimSpace(in.Phone)
	switch {
	case name == "":
		return nil, domain.Invalid("name", "required")
	case school == "":
		return nil, domain.Invalid("school", "required")
	case phone == "":
		return nil, domain.Invalid("phone", "required")
	}
	if s.opt.RegistrationCodeHash != "" && !utils.CheckPassword(in.Code, s.opt.RegistrationCodeHash) {
		return nil, ErrBadRegistrationCode
	}
	score := s.opt.DefaultScore
	if in.Score != nil {
		if *in.Score < 0 {
			return nil, domain.Invalid("score", "must not be negative")
		}
		score = *in.Score
	}
	year := strings.TrimSpace(in.ProgramYear)
	if year == "" {
		year = strconv.Itoa(s.opt.Now().Year())
	}

	u := &domain.User{
		ID:          utils.NewID(),
		Name:        name,
		Role:        domain.RoleStudent,
		School:      school,
		Phone:       phone,
		ProgramYear: year,
		Score:       score,
	}
	err := s.store.Atomically(ctx, func(tx domain.Store) error {
		users, err := tx.Users().List(ctx)
		if err != nil {
			return err
		}
		n := 0
		for _, x := range users {
			if x.IsStudent() {
				n++
			}
		}
		u.SequenceNumber = n + 1
		return tx.Users().Create(ctx, u)
	})
	if err != nil {
		s.logger.Error("注册失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("student registered", zap.String("user_id", u.ID), zap.Int("seq", u.SequenceNumber))
	return u, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.Users().FindByID(ctx, userID)
}

func (s *userService) UpdateSelf(ctx context.Context, userID string, in SelfUpdate) (*domain.User, error) {
	var out *domain.User
	err := s.store.Atomically(ctx, func(tx domain.Store) error {
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.Invalid("name", "must not be empty")
			}
			u.Name = name
		}
		if in.Phone != nil {
			u.Phone = strings.TrimSpace(*in.Phone)
		}
		if err := tx.Users().Update(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ────────────────────── Admin ──────────────────────

func (s *userService) ListStudents(ctx context.Context, q placement.StudentQuery) ([]placement.StudentRow, error) {
	if !q.Match.Valid() {
		return nil, domain.Invalid("match", "must be matched or unmatched")
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.Applications().List(ctx)
	if err != nil {
		return nil, err
	}
	return placement.FilterStudents(users, apps, q), nil
}

func (s *userService) GetStudent(ctx context.Context, userID string) (*StudentDetail, error) {
	u, err := s.findStudent(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.Applications().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.store.Jobs().List(ctx)
	if err != nil {
		return nil, err
	}
	views, warns := placement.JoinApplications(apps, []domain.User{*u}, jobs)
	logWarnings(s.logger, warns)
	return &StudentDetail{User: *u, Applications: views}, nil
}

func (s *userService) UpdateStudent(ctx context.Context, userID string, in StudentUpdate) (*domain.User, error) {
	var out *domain.User
	err := s.store.Atomically(ctx, func(tx domain.Store) error {
		u, err := s.findStudent(ctx, tx, userID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.Invalid("name", "must not be empty")
			}
			u.Name = name
		}
		if in.SequenceNumber != nil {
			u.SequenceNumber = *in.SequenceNumber
		}
		if in.School != nil {
			u.School = strings.TrimSpace(*in.School)
		}
		if in.Phone != nil {
			u.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.ProgramYear != nil {
			u.ProgramYear = strings.TrimSpace(*in.ProgramYear)
		}
		if in.Score != nil {
			if *in.Score < 0 {
				return domain.Invalid("score", "must not be negative")
			}
			u.Score = *in.Score
		}
		if in.EmergencyContacts != nil {
			u.EmergencyContacts = append([]domain.EmergencyContact(nil), (*in.EmergencyContacts)...)
		}
		if err := tx.Users().Update(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("student updated", zap.String("user_id", userID))
	return out, nil
}

// findStudent 管理员的学生接口不暴露管理员账号
func (s *userService) findStudent(ctx context.Context, st domain.Store, userID string) (*domain.User, error) {
	u, err := st.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsStudent() {
		return nil, domain.NotFound("student", userID)
	}
	return u, nil
}
