package user

import (
	"time"

	"work-placement/internal/domain"
)

type UserModel struct {
	ID                string                    `gorm:"primaryKey;type:varchar(36)"`
	SequenceNumber    int                       `gorm:"not null;default:0"`
	Name              string                    `gorm:"size:64;not null"`
	Role              string                    `gorm:"size:16;not null;default:student;index"`
	School            string                    `gorm:"size:128"`
	Phone             string                    `gorm:"size:32"`
	ProgramYear       string                    `gorm:"size:16;index"`
	Score             float64                   `gorm:"not null;default:6"`
	EmergencyContacts []domain.EmergencyContact `gorm:"serializer:json;type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

func FromDomain(u domain.User) UserModel {
	u = u.Clone()
	return UserModel{
		ID:                u.ID,
		SequenceNumber:    u.SequenceNumber,
		Name:              u.Name,
		Role:              string(u.Role),
		School:            u.School,
		Phone:             u.Phone,
		ProgramYear:       u.ProgramYear,
		Score:             u.Score,
		EmergencyContacts: u.EmergencyContacts,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (m UserModel) ToDomain() domain.User {
	return domain.User{
		ID:                m.ID,
		SequenceNumber:    m.SequenceNumber,
		Name:              m.Name,
		Role:              domain.Role(m.Role),
		School:            m.School,
		Phone:             m.Phone,
		ProgramYear:       m.ProgramYear,
		Score:             m.Score,
		EmergencyContacts: m.EmergencyContacts,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}.Clone()
}
