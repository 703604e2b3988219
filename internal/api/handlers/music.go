package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drawtunes/drawtunes-api/internal/api/middleware"
	"github.com/drawtunes/drawtunes-api/internal/logger"
	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/drawtunes/drawtunes-api/internal/music"
	"github.com/drawtunes/drawtunes-api/internal/services"
	"github.com/drawtunes/drawtunes-api/internal/store"
	"github.com/drawtunes/drawtunes-api/internal/worker"
)

type MusicHandler struct {
	generations *services.GenerationService
	catalog     *music.Catalog
	pool        *worker.Pool
}

func NewMusicHandler(generations *services.GenerationService, catalog *music.Catalog, pool *worker.Pool) *MusicHandler {
	return &MusicHandler{
		generations: generations,
		catalog:     catalog,
		pool:        pool,
	}
}

type generateRequest struct {
	DrawingID string `json:"drawing_id" binding:"required"`
	Provider  string `json:"provider"`
	UserID    string `json:"user_id"`
}

// Generate creates a music generation request for an analyzed drawing and
// queues the provider call. The pending record is returned immediately.
func (h *MusicHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "drawing_id is required"})
		return
	}

	userID := middleware.UserID(c)
	if userID == "" {
		userID = req.UserID
	}

	gen, err := h.generations.Start(c.Request.Context(), req.DrawingID, req.Provider, userID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Drawing not found"})
		case errors.Is(err, services.ErrAnalysisNotCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Drawing analysis not completed"})
		case errors.Is(err, services.ErrAnalysisMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Drawing analysis not available"})
		case errors.Is(err, music.ErrUnknownProvider):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown provider"})
		default:
			logger.Error("Failed to start music generation", err, logger.WithContext(c))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start music generation"})
		}
		return
	}

	generationID := gen.ID
	h.pool.Submit(worker.Job{
		Name: "music-generation",
		Run: func(ctx context.Context) {
			h.generations.Generate(ctx, generationID)
		},
	})

	c.JSON(http.StatusAccepted, gen)
}

// Get returns a music generation by id
func (h *MusicHandler) Get(c *gin.Context) {
	gen, err := h.generations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Music generation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get music generation"})
		return
	}
	c.JSON(http.StatusOK, gen)
}

// List returns music generations matching the query filters
func (h *MusicHandler) List(c *gin.Context) {
	filter := store.GenerationFilter{
		UserID:    c.Query("user_id"),
		DrawingID: c.Query("drawing_id"),
		Status:    models.MusicStatus(c.Query("status")),
		Limit:     intQuery(c, "limit", 20),
		Offset:    intQuery(c, "offset", 0),
	}

	gens, err := h.generations.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list music generations"})
		return
	}
	if gens == nil {
		gens = []models.MusicGeneration{}
	}
	c.JSON(http.StatusOK, gin.H{"music_generations": gens})
}

// Providers returns the available provider catalog
func (h *MusicHandler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.catalog.Providers()})
}

// Play records a playback event for analytics
func (h *MusicHandler) Play(c *gin.Context) {
	err := h.generations.RecordPlay(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Music generation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record play"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Play recorded"})
}

type rateRequest struct {
	Rating *float64 `json:"rating" binding:"required"`
}

// Rate stores a rating for a music generation
func (h *MusicHandler) Rate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating is required"})
		return
	}

	err := h.generations.Rate(c.Request.Context(), c.Param("id"), *req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 0.0 and 5.0"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Music generation not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating saved"})
}
