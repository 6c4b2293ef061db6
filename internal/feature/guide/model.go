package guide

import (
	"time"

	"work-placement/internal/domain"
)

type GuideModel struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	Title    string `gorm:"size:128;not null"`
	Content  string `gorm:"type:text"`
	Category string `gorm:"size:64"`
	ImageURL string `gorm:"size:512"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (GuideModel) TableName() string { return "guides" }

func FromDomain(g domain.Guide) GuideModel {
	return GuideModel{
		ID: g.ID, Title: g.Title, Content: g.Content, Category: g.Category, ImageURL: g.ImageURL,
		CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt,
	}
}

func (m GuideModel) ToDomain() domain.Guide {
	return domain.Guide{
		ID: m.ID, Title: m.Title, Content: m.Content, Category: m.Category, ImageURL: m.ImageURL,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}
