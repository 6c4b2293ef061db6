package application

import (
	"time"

	"work-placement/internal/domain"
)

// ApplicationModel 不建外键：岗位/学生删除后申请仍可能存在，读路径负责过滤
type ApplicationModel struct {
	ID     string    `gorm:"primaryKey;type:varchar(36)"`
	UserID string    `gorm:"type:varchar(36);not null;index"`
	JobID  string    `gorm:"type:varchar(36);not null;index"`
	Status string    `gorm:"size:16;not null;default:pending;index"`
	Date   time.Time `gorm:"column:applied_at;not null;index"`
}

func (ApplicationModel) TableName() string { return "applications" }

func FromDomain(a domain.Application) ApplicationModel {
	return ApplicationModel{ID: a.ID, UserID: a.UserID, JobID: a.JobID, Status: string(a.Status), Date: a.Date}
}

func (m ApplicationModel) ToDomain() domain.Application {
	return domain.Application{ID: m.ID, UserID: m.UserID, JobID: m.JobID, Status: domain.Status(m.Status), Date: m.Date}
}
