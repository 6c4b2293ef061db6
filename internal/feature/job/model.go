package job

import (
	"time"

	"work-placement/internal/domain"
)

type JobModel struct {
	ID             string   `gorm:"primaryKey;type:varchar(36)"`
	SequenceNumber int      `gorm:"not null;default:0;index"`
	Title          string   `gorm:"size:128;not null"`
	Location       string   `gorm:"size:128"`
	CompanyName    string   `gorm:"size:128"`
	Description    string   `gorm:"type:text"`
	ProgramYear    string   `gorm:"size:16;index"`
	HousingType    string   `gorm:"size:64"`
	HousingCost    string   `gorm:"size:64"`
	Salary         string   `gorm:"size:64"`
	StartDateRange string   `gorm:"size:64"`
	EndDate        string   `gorm:"size:64"`
	Capacity       int      `gorm:"not null;default:0"`
	MinScore       float64  `gorm:"not null;default:0"`
	ImageURLs      []string `gorm:"column:image_urls;serializer:json;type:text"`
	Tags           []string `gorm:"serializer:json;type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (JobModel) TableName() string { return "jobs" }

func FromDomain(j domain.Job) JobModel {
	j = j.Clone()
	return JobModel{
		ID:             j.ID,
		SequenceNumber: j.SequenceNumber,
		Title:          j.Title,
		Location:       j.Location,
		CompanyName:    j.CompanyName,
		Description:    j.Description,
		ProgramYear:    j.ProgramYear,
		HousingType:    j.HousingType,
		HousingCost:    j.HousingCost,
		Salary:         j.Salary,
		StartDateRange: j.StartDateRange,
		EndDate:        j.EndDate,
		Capacity:       j.Capacity,
		MinScore:       j.MinScore,
		ImageURLs:      j.ImageURLs,
		Tags:           j.Tags,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

func (m JobModel) ToDomain() domain.Job {
	return domain.Job{
		ID:             m.ID,
		SequenceNumber: m.SequenceNumber,
		Title:          m.Title,
		Location:       m.Location,
		CompanyName:    m.CompanyName,
		Description:    m.Description,
		ProgramYear:    m.ProgramYear,
		HousingType:    m.HousingType,
		HousingCost:    m.HousingCost,
		Salary:         m.Salary,
		StartDateRange: m.StartDateRange,
		EndDate:        m.EndDate,
		Capacity:       m.Capacity,
		MinScore:       m.MinScore,
		ImageURLs:      m.ImageURLs,
		Tags:           m.Tags,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}.Clone()
}
