// Package storetest provides in-memory store implementations for tests.
package storetest

import (
	"context"
	"sync"
	"time"

	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/drawtunes/drawtunes-api/internal/store"
)

var (
	_ store.DrawingStore    = (*DrawingStore)(nil)
	_ store.GenerationStore = (*GenerationStore)(nil)
	_ store.UserStore       = (*UserStore)(nil)
)

// DrawingStore is an in-memory store.DrawingStore
type DrawingStore struct {
	mu       sync.Mutex
	drawings map[string]models.Drawing
	failNext error
}

// NewDrawingStore creates an empty in-memory drawing store
func NewDrawingStore() *DrawingStore {
	return &DrawingStore{drawings: make(map[string]models.Drawing)}
}

// FailNext makes the next write operation return err
func (s *DrawingStore) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *DrawingStore) takeErr() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *DrawingStore) Insert(_ context.Context, d *models.Drawing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return err
	}
	d.CreatedAt = time.Now().UTC()
	s.drawings[d.ID] = *d
	return nil
}

func (s *DrawingStore) Get(_ context.Context, id string) (*models.Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drawings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := d
	return &copied, nil
}

func (s *DrawingStore) GetByHash(_ context.Context, hash string) (*models.Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.drawings {
		if d.ImageHash == hash {
			copied := d
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *DrawingStore) Update(_ context.Context, d *models.Drawing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeErr(); err != nil {
		return err
	}
	if _, ok := s.drawings[d.ID]; !ok {
		return store.ErrNotFound
	}
	s.drawings[d.ID] = *d
	return nil
}

func (s *DrawingStore) List(_ context.Context, filter store.DrawingFilter) ([]models.Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Drawing
	for _, d := range s.drawings {
		if filter.UserID != "" && d.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *DrawingStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.drawings)), nil
}

func (s *DrawingStore) CountByStatus(_ context.Context, status models.DrawingStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, d := range s.drawings {
		if d.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *DrawingStore) CreatedBetween(_ context.Context, start, end time.Time) ([]models.Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Drawing
	for _, d := range s.drawings {
		if !d.CreatedAt.Before(start) && !d.CreatedAt.After(end) {
			out = append(out, d)
		}
	}
	return out, nil
}

// GenerationStore is an in-memory store.GenerationStore
type GenerationStore struct {
	mu   sync.Mutex
	gens map[string]models.MusicGeneration
}

// NewGenerationStore creates an empty in-memory generation store
func NewGenerationStore() *GenerationStore {
	return &GenerationStore{gens: make(map[string]models.MusicGeneration)}
}

func (s *GenerationStore) Insert(_ context.Context, g *models.MusicGeneration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.CreatedAt = time.Now().UTC()
	s.gens[g.ID] = *g
	return nil
}

func (s *GenerationStore) Get(_ context.Context, id string) (*models.MusicGeneration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gens[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := g
	return &copied, nil
}

func (s *GenerationStore) Update(_ context.Context, g *models.MusicGeneration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.gens[g.ID]; !ok {
		return store.ErrNotFound
	}
	s.gens[g.ID] = *g
	return nil
}

func (s *GenerationStore) List(_ context.Context, filter store.GenerationFilter) ([]models.MusicGeneration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MusicGeneration
	for _, g := range s.gens {
		if filter.UserID != "" && g.UserID != filter.UserID {
			continue
		}
		if filter.DrawingID != "" && g.DrawingID != filter.DrawingID {
			continue
		}
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *GenerationStore) IncrementPlayCount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gens[id]
	if !ok {
		return store.ErrNotFound
	}
	g.PlayCount++
	s.gens[id] = g
	return nil
}

func (s *GenerationStore) SetRating(_ context.Context, id string, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gens[id]
	if !ok {
		return store.ErrNotFound
	}
	g.Rating = &rating
	s.gens[id] = g
	return nil
}

func (s *GenerationStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.gens)), nil
}

func (s *GenerationStore) CountByStatus(_ context.Context, status models.MusicStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, g := range s.gens {
		if g.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *GenerationStore) AverageRating(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	var n int
	for _, g := range s.gens {
		if g.Rating != nil {
			sum += *g.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (s *GenerationStore) TotalPlayCount(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, g := range s.gens {
		total += int64(g.PlayCount)
	}
	return total, nil
}

func (s *GenerationStore) CreatedBetween(_ context.Context, start, end time.Time) ([]models.MusicGeneration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MusicGeneration
	for _, g := range s.gens {
		if !g.CreatedAt.Before(start) && !g.CreatedAt.After(end) {
			out = append(out, g)
		}
	}
	return out, nil
}

// UserStore is an in-memory store.UserStore
type UserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

// NewUserStore creates an empty in-memory user store
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) Get(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (s *UserStore) List(_ context.Context, limit, offset int) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *UserStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *UserStore) CountActiveSince(_ context.Context, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, u := range s.users {
		if u.LastLogin != nil && !u.LastLogin.Before(since) {
			count++
		}
	}
	return count, nil
}
