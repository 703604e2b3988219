package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/drawtunes/drawtunes-api/internal/store/storetest"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: uint8(x % 256), A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadCreatesDrawing(t *testing.T) {
	drawings := storetest.NewDrawingStore()
	svc := NewDrawingService(drawings, t.TempDir())

	data := pngBytes(t, 400, 300)
	drawing, created, err := svc.Upload(context.Background(), UploadRequest{
		Data:     data,
		Filename: "sketch.png",
		Title:    "My sketch",
		UserID:   "u1",
	})
	require.NoError(t, err)

	assert.True(t, created)
	assert.NotEmpty(t, drawing.ID)
	assert.Equal(t, "My sketch", drawing.Title)
	assert.Equal(t, "u1", drawing.UserID)
	assert.Equal(t, 400, drawing.Width)
	assert.Equal(t, 300, drawing.Height)
	assert.Equal(t, models.DrawingStatusPending, drawing.Status)
	assert.NotEmpty(t, drawing.ImageHash)

	// the image is persisted where the record points
	stored, err := os.ReadFile(drawing.ImageURL)
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestUploadDeduplicatesByHash(t *testing.T) {
	drawings := storetest.NewDrawingStore()
	svc := NewDrawingService(drawings, t.TempDir())
	ctx := context.Background()

	data := pngBytes(t, 10, 10)
	first, created, err := svc.Upload(ctx, UploadRequest{Data: data, Filename: "a.png"})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Upload(ctx, UploadRequest{Data: data, Filename: "b.png", Title: "different title"})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	count, err := drawings.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUploadDefaultsTitle(t *testing.T) {
	svc := NewDrawingService(storetest.NewDrawingStore(), t.TempDir())

	drawing, _, err := svc.Upload(context.Background(), UploadRequest{
		Data:     pngBytes(t, 10, 10),
		Filename: "a.png",
	})
	require.NoError(t, err)
	assert.Contains(t, drawing.Title, "Drawing ")
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc := NewDrawingService(storetest.NewDrawingStore(), t.TempDir())

	_, _, err := svc.Upload(context.Background(), UploadRequest{
		Data:     []byte("not an image"),
		Filename: "a.txt",
	})
	assert.Error(t, err)
}

func TestRequestReanalysisResetsStatus(t *testing.T) {
	drawings := storetest.NewDrawingStore()
	svc := NewDrawingService(drawings, t.TempDir())
	ctx := context.Background()

	drawing := &models.Drawing{
		ID:           "d1",
		ImageURL:     "a",
		ImageHash:    "h1",
		Status:       models.DrawingStatusFailed,
		ErrorMessage: "earlier failure",
	}
	require.NoError(t, drawings.Insert(ctx, drawing))

	reset, err := svc.RequestReanalysis(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.DrawingStatusPending, reset.Status)
	assert.Empty(t, reset.ErrorMessage)
}

func TestRequestReanalysisRejectsInProgress(t *testing.T) {
	drawings := storetest.NewDrawingStore()
	svc := NewDrawingService(drawings, t.TempDir())
	ctx := context.Background()

	require.NoError(t, drawings.Insert(ctx, &models.Drawing{
		ID:        "d1",
		ImageURL:  "a",
		ImageHash: "h1",
		Status:    models.DrawingStatusProcessing,
	}))

	_, err := svc.RequestReanalysis(ctx, "d1")
	assert.ErrorIs(t, err, ErrAnalysisInProgress)
}
