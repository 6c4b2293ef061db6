package domain

import (
	"context"
	"time"
)

type Job struct {
	ID             string    `json:"id"`
	SequenceNumber int       `json:"sequenceNumber"`
	Title          string    `json:"title"`
	Location       string    `json:"location"`
	CompanyName    string    `json:"companyName"`
	Description    string    `json:"description"`
	ProgramYear    string    `json:"programYear"`
	HousingType    string    `json:"housingType"`
	HousingCost    string    `json:"housingCost"`
	Salary         string    `json:"salary"`
	StartDateRange string    `json:"startDateRange"`
	EndDate        string    `json:"endDate"`
	Capacity       int       `json:"capacity"`
	MinScore       float64   `json:"minScore"`
	ImageURLs      []string  `json:"imageUrls"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (j Job) Clone() Job {
	if j.ImageURLs != nil {
		j.ImageURLs = append([]string(nil), j.ImageURLs...)
	}
	if j.Tags != nil {
		j.Tags = append([]string(nil), j.Tags...)
	}
	return j
}

type JobRepository interface {
	Create(ctx context.Context, j *Job) error
	FindByID(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context) ([]Job, error)
	Update(ctx context.Context, j *Job) error
	Delete(ctx context.Context, id string) error
}
