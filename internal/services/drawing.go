// Package services holds the application services between the HTTP
// handlers and the stores: drawing intake, analysis and generation
// lifecycles, and analytics aggregation.
package services

import (
	"bytes"
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/drawtunes/drawtunes-api/internal/logger"
	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/drawtunes/drawtunes-api/internal/store"
)

// ErrAnalysisInProgress marks a re-analysis request for a drawing that is
// already being processed
var ErrAnalysisInProgress = errors.New("analysis already in progress")

// UploadRequest carries one drawing upload
type UploadRequest struct {
	Data        []byte
	Filename    string
	Title       string
	Description string
	UserID      string
}

// DrawingService handles drawing intake and listing
type DrawingService struct {
	drawings  store.DrawingStore
	uploadDir string
}

// NewDrawingService creates a drawing service writing uploads under uploadDir
func NewDrawingService(drawings store.DrawingStore, uploadDir string) *DrawingService {
	return &DrawingService{drawings: drawings, uploadDir: uploadDir}
}

// Upload stores a new drawing, deduplicating by content hash. The second
// return value reports whether a new record was created; an existing
// drawing with the same bytes is returned as-is.
func (s *DrawingService) Upload(ctx context.Context, req UploadRequest) (*models.Drawing, bool, error) {
	hash := fmt.Sprintf("%x", md5.Sum(req.Data))

	existing, err := s.drawings.GetByHash(ctx, hash)
	if err == nil {
		logger.Info("Duplicate drawing upload, returning existing record", logger.Fields{
			"drawing_id": existing.ID,
			"image_hash": hash,
		})
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(req.Data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image: %w", err)
	}

	ext := strings.TrimPrefix(filepath.Ext(req.Filename), ".")
	if ext == "" {
		ext = "png"
	}
	imagePath := filepath.Join(s.uploadDir, hash+"."+ext)
	if err := os.WriteFile(imagePath, req.Data, 0o644); err != nil {
		return nil, false, fmt.Errorf("failed to store image: %w", err)
	}

	title := req.Title
	if title == "" {
		title = "Drawing " + time.Now().UTC().Format("2006-01-02 15:04")
	}

	drawing := &models.Drawing{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Title:       title,
		Description: req.Description,
		ImageURL:    imagePath,
		ImageHash:   hash,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Status:      models.DrawingStatusPending,
	}

	if err := s.drawings.Insert(ctx, drawing); err != nil {
		return nil, false, err
	}

	logger.Info("Drawing uploaded", logger.Fields{
		"drawing_id": drawing.ID,
		"image_hash": hash,
	})
	return drawing, true, nil
}

// Get returns a drawing by id
func (s *DrawingService) Get(ctx context.Context, id string) (*models.Drawing, error) {
	return s.drawings.Get(ctx, id)
}

// List returns drawings matching the filter
func (s *DrawingService) List(ctx context.Context, filter store.DrawingFilter) ([]models.Drawing, error) {
	return s.drawings.List(ctx, filter)
}

// RequestReanalysis resets a drawing to pending so analysis can run again.
// A drawing mid-analysis is rejected.
func (s *DrawingService) RequestReanalysis(ctx context.Context, id string) (*models.Drawing, error) {
	drawing, err := s.drawings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if drawing.Status == models.DrawingStatusProcessing {
		return nil, ErrAnalysisInProgress
	}

	drawing.Status = models.DrawingStatusPending
	drawing.ErrorMessage = ""
	if err := s.drawings.Update(ctx, drawing); err != nil {
		return nil, err
	}
	return drawing, nil
}

// ImageBytes loads the stored image for a drawing
func (s *DrawingService) ImageBytes(drawing *models.Drawing) ([]byte, error) {
	data, err := os.ReadFile(drawing.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored image: %w", err)
	}
	return data, nil
}
