package services

import (
	"context"
	"mime"
	"path/filepath"
	"time"

	"github.com/drawtunes/drawtunes-api/internal/logger"
	"github.com/drawtunes/drawtunes-api/internal/metrics"
	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/drawtunes/drawtunes-api/internal/observability"
	"github.com/drawtunes/drawtunes-api/internal/store"
	"github.com/drawtunes/drawtunes-api/internal/vision"
)

// AnalysisService runs the analysis lifecycle for a drawing:
// pending -> processing -> completed|failed. The fallback policy guarantees
// a completed analysis even without a configured vision provider, so failed
// only occurs on persistence errors.
type AnalysisService struct {
	drawings store.DrawingStore
	policy   *vision.FallbackPolicy
	metrics  *metrics.Client
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(drawings store.DrawingStore, policy *vision.FallbackPolicy) *AnalysisService {
	return &AnalysisService{drawings: drawings, policy: policy}
}

// WithMetrics attaches a CloudWatch metrics client
func (s *AnalysisService) WithMetrics(client *metrics.Client) *AnalysisService {
	s.metrics = client
	return s
}

// Analyze resolves and persists the visual analysis for a drawing. image may
// be nil for re-analysis requests, in which case the stored image is not
// available to this call and the fallback analysis is used by the policy's
// analyzer input being empty.
func (s *AnalysisService) Analyze(ctx context.Context, drawingID string, image []byte) error {
	drawing, err := s.drawings.Get(ctx, drawingID)
	if err != nil {
		logger.Error("Drawing not found for analysis", err, logger.Fields{
			"drawing_id": drawingID,
		})
		return err
	}

	drawing.Status = models.DrawingStatusProcessing
	if err := s.drawings.Update(ctx, drawing); err != nil {
		return err
	}

	trace := observability.GetClient().StartTrace(ctx, "drawing-analysis", map[string]interface{}{
		"drawing_id": drawingID,
	})
	span := trace.Generation("vision-analysis", nil)

	started := time.Now()
	analysis, source := s.policy.Resolve(ctx, image, mimeTypeFor(drawing.ImageURL))
	elapsed := time.Since(started)

	span.Output(analysis)
	span.Metadata(map[string]interface{}{"analysis_source": string(source)})
	span.Finish()
	trace.Finish()

	if s.metrics != nil {
		s.metrics.RecordAnalysisDuration(elapsed, string(source))
	}

	now := time.Now().UTC()
	drawing.VisualAnalysis = analysis
	drawing.Status = models.DrawingStatusCompleted
	drawing.ProcessedAt = &now
	drawing.ProcessingTime = elapsed.Seconds()
	drawing.ErrorMessage = ""

	if err := s.drawings.Update(ctx, drawing); err != nil {
		s.markFailed(ctx, drawingID, err)
		return err
	}

	logger.Info("Drawing analysis completed", logger.Fields{
		"drawing_id":      drawingID,
		"analysis_source": string(source),
		"processing_time": drawing.ProcessingTime,
	})
	return nil
}

func (s *AnalysisService) markFailed(ctx context.Context, drawingID string, cause error) {
	drawing, err := s.drawings.Get(ctx, drawingID)
	if err != nil {
		return
	}
	drawing.Status = models.DrawingStatusFailed
	drawing.ErrorMessage = cause.Error()
	if err := s.drawings.Update(ctx, drawing); err != nil {
		logger.Error("Failed to record analysis failure", err, logger.Fields{
			"drawing_id": drawingID,
		})
	}
}

func mimeTypeFor(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "image/png"
}
