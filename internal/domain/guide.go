package domain

import (
	"context"
	"time"
)

type Guide struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"` // markdown
	Category  string    `json:"category,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type GuideRepository interface {
	Create(ctx context.Context, g *Guide) error
	FindByID(ctx context.Context, id string) (*Guide, error)
	List(ctx context.Context) ([]Guide, error)
	Update(ctx context.Context, g *Guide) error
	Delete(ctx context.Context, id string) error
}
