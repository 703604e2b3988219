package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/drawtunes/drawtunes-api/internal/store"
	"github.com/drawtunes/drawtunes-api/internal/store/storetest"
	"github.com/drawtunes/drawtunes-api/internal/vision"
)

func pendingDrawing(id string) *models.Drawing {
	return &models.Drawing{
		ID:        id,
		Title:     "Test drawing",
		ImageURL:  "uploads/abc.png",
		ImageHash: "abc",
		Status:    models.DrawingStatusPending,
	}
}

func TestAnalyzeCompletesWithDemoAnalysisWhenUnconfigured(t *testing.T) {
	drawings := storetest.NewDrawingStore()
	svc := NewAnalysisService(drawings, vision.NewFallbackPolicy(nil))

	ctx := context.Background()
	require.NoError(t, drawings.Insert(ctx, pendingDrawing("d1")))

	require.NoError(t, svc.Analyze(ctx, "d1", nil))

	stored, err := drawings.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.DrawingStatusCompleted, stored.Status)
	require.NotNil(t, stored.VisualAnalysis)
	assert.True(t, stored.VisualAnalysis.Valid())
	assert.NotNil(t, stored.ProcessedAt)
	assert.Empty(t, stored.ErrorMessage)
}

func TestAnalyzeMissingDrawing(t *testing.T) {
	svc := NewAnalysisService(storetest.NewDrawingStore(), vision.NewFallbackPolicy(nil))

	err := svc.Analyze(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAnalyzeReturnsErrorOnPersistenceFailure(t *testing.T) {
	drawings := storetest.NewDrawingStore()
	svc := NewAnalysisService(drawings, vision.NewFallbackPolicy(nil))

	ctx := context.Background()
	require.NoError(t, drawings.Insert(ctx, pendingDrawing("d1")))

	drawings.FailNext(errors.New("disk full"))

	err := svc.Analyze(ctx, "d1", nil)
	require.Error(t, err)

	stored, getErr := drawings.Get(ctx, "d1")
	require.NoError(t, getErr)
	assert.NotEqual(t, models.DrawingStatusCompleted, stored.Status)
}
