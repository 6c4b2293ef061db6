package domain

import (
	"context"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Active pending/approved 计入“一人一岗”限制
func (s Status) Active() bool { return s == StatusPending || s == StatusApproved }

type Application struct {
	ID     string    `json:"id"`
	UserID string    `json:"userId"`
	JobID  string    `json:"jobId"`
	Status Status    `json:"status"`
	Date   time.Time `json:"date"`
}

// ApplicationRepository 列表均按创建顺序返回
type ApplicationRepository interface {
	Create(ctx context.Context, a *Application) error
	FindByID(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context) ([]Application, error)
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}
