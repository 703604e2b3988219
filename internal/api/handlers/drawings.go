package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/drawtunes/drawtunes-api/internal/api/middleware"
	"github.com/drawtunes/drawtunes-api/internal/logger"
	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/drawtunes/drawtunes-api/internal/services"
	"github.com/drawtunes/drawtunes-api/internal/store"
	"github.com/drawtunes/drawtunes-api/internal/worker"
)

type DrawingHandler struct {
	drawings    *services.DrawingService
	analysis    *services.AnalysisService
	pool        *worker.Pool
	maxFileSize int64
}

func NewDrawingHandler(drawings *services.DrawingService, analysis *services.AnalysisService, pool *worker.Pool, maxFileSize int64) *DrawingHandler {
	return &DrawingHandler{
		drawings:    drawings,
		analysis:    analysis,
		pool:        pool,
		maxFileSize: maxFileSize,
	}
}

// Upload accepts a multipart image upload, stores the drawing, and queues
// its analysis. Re-uploading identical bytes returns the existing record.
func (h *DrawingHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File must be an image"})
		return
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}

	userID := middleware.UserID(c)
	if userID == "" {
		userID = c.PostForm("user_id")
	}

	drawing, created, err := h.drawings.Upload(c.Request.Context(), services.UploadRequest{
		Data:        data,
		Filename:    fileHeader.Filename,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		UserID:      userID,
	})
	if err != nil {
		logger.Error("Failed to upload drawing", err, logger.WithContext(c))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if created {
		h.queueAnalysis(drawing.ID, data)
		c.JSON(http.StatusCreated, drawing)
		return
	}
	c.JSON(http.StatusOK, drawing)
}

// Get returns a drawing by id
func (h *DrawingHandler) Get(c *gin.Context) {
	drawing, err := h.drawings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Drawing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get drawing"})
		return
	}
	c.JSON(http.StatusOK, drawing)
}

// List returns drawings matching the query filters
func (h *DrawingHandler) List(c *gin.Context) {
	filter := store.DrawingFilter{
		UserID: c.Query("user_id"),
		Status: models.DrawingStatus(c.Query("status")),
		Limit:  intQuery(c, "limit", 20),
		Offset: intQuery(c, "offset", 0),
	}

	drawings, err := h.drawings.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list drawings"})
		return
	}
	if drawings == nil {
		drawings = []models.Drawing{}
	}
	c.JSON(http.StatusOK, gin.H{"drawings": drawings})
}

// Analyze re-queues analysis for a drawing
func (h *DrawingHandler) Analyze(c *gin.Context) {
	id := c.Param("id")

	drawing, err := h.drawings.RequestReanalysis(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Drawing not found"})
		case errors.Is(err, services.ErrAnalysisInProgress):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Analysis already in progress"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to trigger analysis"})
		}
		return
	}

	// Best effort: analysis falls back to the demo analysis when the stored
	// image cannot be read.
	image, err := h.drawings.ImageBytes(drawing)
	if err != nil {
		image = nil
	}
	h.queueAnalysis(drawing.ID, image)

	c.JSON(http.StatusAccepted, gin.H{"message": "Analysis started"})
}

func (h *DrawingHandler) queueAnalysis(drawingID string, image []byte) {
	h.pool.Submit(worker.Job{
		Name: "drawing-analysis",
		Run: func(ctx context.Context) {
			if err := h.analysis.Analyze(ctx, drawingID, image); err != nil {
				logger.Error("Background analysis failed", err, logger.Fields{
					"drawing_id": drawingID,
				})
			}
		},
	})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	value := c.Query(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
