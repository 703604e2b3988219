package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/drawtunes/drawtunes-api/internal/logger"
	"github.com/drawtunes/drawtunes-api/internal/mapping"
	"github.com/drawtunes/drawtunes-api/internal/metrics"
	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/drawtunes/drawtunes-api/internal/music"
	"github.com/drawtunes/drawtunes-api/internal/prompt"
	"github.com/drawtunes/drawtunes-api/internal/store"
)

var (
	// ErrAnalysisNotCompleted marks a generation request for a drawing whose
	// analysis has not finished
	ErrAnalysisNotCompleted = errors.New("drawing analysis not completed")

	// ErrAnalysisMissing marks a completed drawing that has no stored analysis
	ErrAnalysisMissing = errors.New("drawing analysis not available")

	// ErrInvalidRating marks a rating outside [0, 5]
	ErrInvalidRating = errors.New("rating must be between 0.0 and 5.0")
)

// GenerationService orchestrates music generation: it derives parameters
// from a drawing's analysis, composes the prompt, and drives the request
// through its one-shot lifecycle pending -> generating -> completed|failed.
type GenerationService struct {
	drawings    store.DrawingStore
	generations store.GenerationStore
	registry    *music.Registry
	composer    *prompt.Composer
	metrics     *metrics.Client
}

// NewGenerationService creates a generation service
func NewGenerationService(drawings store.DrawingStore, generations store.GenerationStore, registry *music.Registry, composer *prompt.Composer) *GenerationService {
	return &GenerationService{
		drawings:    drawings,
		generations: generations,
		registry:    registry,
		composer:    composer,
	}
}

// WithMetrics attaches a CloudWatch metrics client
func (s *GenerationService) WithMetrics(client *metrics.Client) *GenerationService {
	s.metrics = client
	return s
}

// Start validates the request and creates the pending generation record.
// Parameters and prompt are derived once here and are immutable afterwards.
func (s *GenerationService) Start(ctx context.Context, drawingID, providerID, userID string) (*models.MusicGeneration, error) {
	drawing, err := s.drawings.Get(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	if drawing.Status != models.DrawingStatusCompleted {
		return nil, ErrAnalysisNotCompleted
	}
	if drawing.VisualAnalysis == nil {
		return nil, ErrAnalysisMissing
	}

	if providerID == "" {
		providerID = music.ProviderSuno
	}
	if _, err := s.registry.Get(providerID); err != nil {
		return nil, err
	}

	params := mapping.ParametersFromAnalysis(drawing.VisualAnalysis)
	promptText := s.composer.Compose(drawing.VisualAnalysis, params)

	gen := &models.MusicGeneration{
		ID:         uuid.NewString(),
		DrawingID:  drawingID,
		UserID:     userID,
		Parameters: params,
		Prompt:     promptText,
		Provider:   providerID,
		Status:     models.MusicStatusPending,
	}

	if err := s.generations.Insert(ctx, gen); err != nil {
		return nil, err
	}

	logger.Info("Music generation started", logger.Fields{
		"music_id":   gen.ID,
		"drawing_id": drawingID,
		"provider":   providerID,
	})
	return gen, nil
}

// Generate runs the provider call for a pending record and persists the
// terminal outcome. Records already in a terminal state are left untouched.
func (s *GenerationService) Generate(ctx context.Context, generationID string) {
	gen, err := s.generations.Get(ctx, generationID)
	if err != nil {
		logger.Error("Music generation not found", err, logger.Fields{
			"music_id": generationID,
		})
		return
	}
	if gen.Status.Terminal() {
		return
	}

	gen.Status = models.MusicStatusGenerating
	if err := s.generations.Update(ctx, gen); err != nil {
		logger.Error("Failed to mark generation in progress", err, logger.Fields{
			"music_id": generationID,
		})
		return
	}

	provider, err := s.registry.Get(gen.Provider)
	if err != nil {
		s.finishFailed(ctx, gen, err.Error())
		return
	}

	started := time.Now()
	result, err := provider.Generate(ctx, gen.Prompt, gen.Parameters)
	if s.metrics != nil {
		s.metrics.RecordGenerationDuration(time.Since(started), gen.Provider, err == nil && result != nil && result.Success)
	}
	if err != nil {
		s.finishFailed(ctx, gen, err.Error())
		return
	}
	if !result.Success {
		reason := result.Error
		if reason == "" {
			reason = "unknown error"
		}
		s.finishFailed(ctx, gen, reason)
		return
	}

	now := time.Now().UTC()
	gen.AudioURL = result.AudioURL
	gen.AudioData = result.AudioData
	gen.AudioDuration = result.Duration
	gen.Status = models.MusicStatusCompleted
	gen.GeneratedAt = &now
	gen.GenerationTime = time.Since(started).Seconds()

	if err := s.generations.Update(ctx, gen); err != nil {
		logger.Error("Failed to persist completed generation", err, logger.Fields{
			"music_id": generationID,
		})
		return
	}

	logger.Info("Music generation completed", logger.Fields{
		"music_id":        generationID,
		"provider":        gen.Provider,
		"demo":            result.Demo,
		"fallback_reason": result.FallbackReason,
		"generation_time": gen.GenerationTime,
	})
}

func (s *GenerationService) finishFailed(ctx context.Context, gen *models.MusicGeneration, reason string) {
	gen.Status = models.MusicStatusFailed
	gen.ErrorMessage = reason
	if err := s.generations.Update(ctx, gen); err != nil {
		logger.Error("Failed to record generation failure", err, logger.Fields{
			"music_id": gen.ID,
		})
		return
	}
	logger.Warn("Music generation failed", logger.Fields{
		"music_id": gen.ID,
		"provider": gen.Provider,
		"error":    reason,
	})
}

// Get returns a generation by id
func (s *GenerationService) Get(ctx context.Context, id string) (*models.MusicGeneration, error) {
	return s.generations.Get(ctx, id)
}

// List returns generations matching the filter
func (s *GenerationService) List(ctx context.Context, filter store.GenerationFilter) ([]models.MusicGeneration, error) {
	return s.generations.List(ctx, filter)
}

// RecordPlay increments the play counter for a generation
func (s *GenerationService) RecordPlay(ctx context.Context, id string) error {
	if err := s.generations.IncrementPlayCount(ctx, id); err != nil {
		return err
	}
	if s.metrics != nil {
		if gen, err := s.generations.Get(ctx, id); err == nil {
			s.metrics.RecordPlay(gen.Provider)
		}
	}
	return nil
}

// Rate stores a rating for a generation. Ratings outside [0, 5] are rejected.
func (s *GenerationService) Rate(ctx context.Context, id string, rating float64) error {
	if rating < 0 || rating > 5 {
		return ErrInvalidRating
	}
	return s.generations.SetRating(ctx, id, rating)
}
