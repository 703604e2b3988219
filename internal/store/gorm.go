package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/drawtunes/drawtunes-api/internal/models"
)

const defaultListLimit = 20

// GormDrawingStore implements DrawingStore on a gorm connection
type GormDrawingStore struct {
	db *gorm.DB
}

// NewGormDrawingStore creates a drawing store
func NewGormDrawingStore(db *gorm.DB) *GormDrawingStore {
	return &GormDrawingStore{db: db}
}

func (s *GormDrawingStore) Insert(ctx context.Context, drawing *models.Drawing) error {
	if err := s.db.WithContext(ctx).Create(drawing).Error; err != nil {
		return fmt.Errorf("failed to insert drawing: %w", err)
	}
	return nil
}

func (s *GormDrawingStore) Get(ctx context.Context, id string) (*models.Drawing, error) {
	var drawing models.Drawing
	err := s.db.WithContext(ctx).First(&drawing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drawing: %w", err)
	}
	return &drawing, nil
}

func (s *GormDrawingStore) GetByHash(ctx context.Context, hash string) (*models.Drawing, error) {
	var drawing models.Drawing
	err := s.db.WithContext(ctx).First(&drawing, "image_hash = ?", hash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drawing by hash: %w", err)
	}
	return &drawing, nil
}

func (s *GormDrawingStore) Update(ctx context.Context, drawing *models.Drawing) error {
	if err := s.db.WithContext(ctx).Save(drawing).Error; err != nil {
		return fmt.Errorf("failed to update drawing: %w", err)
	}
	return nil
}

func (s *GormDrawingStore) List(ctx context.Context, filter DrawingFilter) ([]models.Drawing, error) {
	query := s.db.WithContext(ctx).Model(&models.Drawing{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var drawings []models.Drawing
	err := query.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&drawings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list drawings: %w", err)
	}
	return drawings, nil
}

func (s *GormDrawingStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Drawing{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count drawings: %w", err)
	}
	return count, nil
}

func (s *GormDrawingStore) CountByStatus(ctx context.Context, status models.DrawingStatus) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Drawing{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count drawings by status: %w", err)
	}
	return count, nil
}

func (s *GormDrawingStore) CreatedBetween(ctx context.Context, start, end time.Time) ([]models.Drawing, error) {
	var drawings []models.Drawing
	err := s.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Find(&drawings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list drawings in range: %w", err)
	}
	return drawings, nil
}

// GormGenerationStore implements GenerationStore on a gorm connection
type GormGenerationStore struct {
	db *gorm.DB
}

// NewGormGenerationStore creates a generation store
func NewGormGenerationStore(db *gorm.DB) *GormGenerationStore {
	return &GormGenerationStore{db: db}
}

func (s *GormGenerationStore) Insert(ctx context.Context, gen *models.MusicGeneration) error {
	if err := s.db.WithContext(ctx).Create(gen).Error; err != nil {
		return fmt.Errorf("failed to insert music generation: %w", err)
	}
	return nil
}

func (s *GormGenerationStore) Get(ctx context.Context, id string) (*models.MusicGeneration, error) {
	var gen models.MusicGeneration
	err := s.db.WithContext(ctx).First(&gen, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get music generation: %w", err)
	}
	return &gen, nil
}

func (s *GormGenerationStore) Update(ctx context.Context, gen *models.MusicGeneration) error {
	if err := s.db.WithContext(ctx).Save(gen).Error; err != nil {
		return fmt.Errorf("failed to update music generation: %w", err)
	}
	return nil
}

func (s *GormGenerationStore) List(ctx context.Context, filter GenerationFilter) ([]models.MusicGeneration, error) {
	query := s.db.WithContext(ctx).Model(&models.MusicGeneration{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.DrawingID != "" {
		query = query.Where("drawing_id = ?", filter.DrawingID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var gens []models.MusicGeneration
	err := query.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&gens).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list music generations: %w", err)
	}
	return gens, nil
}

func (s *GormGenerationStore) IncrementPlayCount(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Model(&models.MusicGeneration{}).
		Where("id = ?", id).
		UpdateColumn("play_count", gorm.Expr("play_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment play count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormGenerationStore) SetRating(ctx context.Context, id string, rating float64) error {
	result := s.db.WithContext(ctx).Model(&models.MusicGeneration{}).
		Where("id = ?", id).
		UpdateColumn("rating", rating)
	if result.Error != nil {
		return fmt.Errorf("failed to set rating: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormGenerationStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.MusicGeneration{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count music generations: %w", err)
	}
	return count, nil
}

func (s *GormGenerationStore) CountByStatus(ctx context.Context, status models.MusicStatus) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.MusicGeneration{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count music generations by status: %w", err)
	}
	return count, nil
}

func (s *GormGenerationStore) AverageRating(ctx context.Context) (float64, error) {
	var avg *float64
	err := s.db.WithContext(ctx).Model(&models.MusicGeneration{}).
		Where("rating IS NOT NULL").
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute average rating: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (s *GormGenerationStore) TotalPlayCount(ctx context.Context) (int64, error) {
	var total *int64
	err := s.db.WithContext(ctx).Model(&models.MusicGeneration{}).
		Select("SUM(play_count)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum play counts: %w", err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (s *GormGenerationStore) CreatedBetween(ctx context.Context, start, end time.Time) ([]models.MusicGeneration, error) {
	var gens []models.MusicGeneration
	err := s.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Find(&gens).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list music generations in range: %w", err)
	}
	return gens, nil
}

// GormUserStore implements UserStore on a gorm connection
type GormUserStore struct {
	db *gorm.DB
}

// NewGormUserStore creates a user store
func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Insert(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *GormUserStore) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *GormUserStore) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *GormUserStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (s *GormUserStore) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("last_login >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return count, nil
}
