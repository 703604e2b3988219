// Package store defines the persistence ports for drawings, music
// generations, and users, plus their postgres implementation. Services
// depend on the interfaces so tests can run against in-memory fakes.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/drawtunes/drawtunes-api/internal/models"
)

// ErrNotFound marks a lookup that matched no record
var ErrNotFound = errors.New("record not found")

// DrawingFilter narrows a drawing listing. Zero values mean "any".
type DrawingFilter struct {
	UserID string
	Status models.DrawingStatus
	Limit  int
	Offset int
}

// GenerationFilter narrows a music generation listing. Zero values mean "any".
type GenerationFilter struct {
	UserID    string
	DrawingID string
	Status    models.MusicStatus
	Limit     int
	Offset    int
}

// DrawingStore persists drawings
type DrawingStore interface {
	Insert(ctx context.Context, drawing *models.Drawing) error
	Get(ctx context.Context, id string) (*models.Drawing, error)
	GetByHash(ctx context.Context, hash string) (*models.Drawing, error)
	Update(ctx context.Context, drawing *models.Drawing) error
	List(ctx context.Context, filter DrawingFilter) ([]models.Drawing, error)

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.DrawingStatus) (int64, error)
	CreatedBetween(ctx context.Context, start, end time.Time) ([]models.Drawing, error)
}

// GenerationStore persists music generations
type GenerationStore interface {
	Insert(ctx context.Context, gen *models.MusicGeneration) error
	Get(ctx context.Context, id string) (*models.MusicGeneration, error)
	Update(ctx context.Context, gen *models.MusicGeneration) error
	List(ctx context.Context, filter GenerationFilter) ([]models.MusicGeneration, error)

	IncrementPlayCount(ctx context.Context, id string) error
	SetRating(ctx context.Context, id string, rating float64) error

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.MusicStatus) (int64, error)
	AverageRating(ctx context.Context) (float64, error)
	TotalPlayCount(ctx context.Context) (int64, error)
	CreatedBetween(ctx context.Context, start, end time.Time) ([]models.MusicGeneration, error)
}

// UserStore persists users
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)

	Count(ctx context.Context) (int64, error)
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
}
