package domain

import (
	"context"
	"time"
)

// Prelegent is a speaker profile owned by exactly one user.
// swagger:model Prelegent
type Prelegent struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPrelegent returns a new Prelegent. ID is set by the repository on create.
func NewPrelegent(userID int64, name, description string, createdAt, updatedAt time.Time) *Prelegent {
	return &Prelegent{
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// PrelegentRepository defines storage for prelegents.
type PrelegentRepository interface {
	Create(ctx context.Context, p *Prelegent) error
	GetByID(ctx context.Context, id int64) (*Prelegent, error)
	GetByUserID(ctx context.Context, userID int64) (*Prelegent, error)
	List(ctx context.Context, params PaginationParams) ([]*Prelegent, int, error)
	Delete(ctx context.Context, id int64) error
	NameTaken(ctx context.Context, name string) (bool, error)
	DescriptionTaken(ctx context.Context, description string) (bool, error)
}

// PrelegentService manages speaker profiles.
type PrelegentService interface {
	Create(ctx context.Context, p *Prelegent) error
	Get(ctx context.Context, id int64) (*Prelegent, error)
	List(ctx context.Context, params PaginationParams) ([]*Prelegent, int, error)
	Delete(ctx context.Context, id int64) error
}
