package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DrawingStatus tracks the analysis lifecycle of an uploaded drawing
type DrawingStatus string

const (
	DrawingStatusPending    DrawingStatus = "pending"
	DrawingStatusProcessing DrawingStatus = "processing"
	DrawingStatusCompleted  DrawingStatus = "completed"
	DrawingStatusFailed     DrawingStatus = "failed"
)

// ColorAnalysis describes the color characteristics of a drawing
type ColorAnalysis struct {
	Dominant    string   `json:"dominant"`
	Palette     []string `json:"palette"`
	Temperature string   `json:"temperature"` // warm, cool, neutral
	Saturation  float64  `json:"saturation"`
	Brightness  float64  `json:"brightness"`
	Mood        string   `json:"mood"`
}

// LineAnalysis describes line quality and direction
type LineAnalysis struct {
	Quality   string  `json:"quality"`   // smooth, jagged, geometric, organic
	Thickness string  `json:"thickness"` // thin, medium, thick, varied
	Direction string  `json:"direction"` // horizontal, vertical, diagonal, curved, chaotic
	Density   float64 `json:"density"`
	Style     string  `json:"style"`
}

// CompositionAnalysis describes the spatial arrangement of the drawing
type CompositionAnalysis struct {
	Density       float64  `json:"density"`
	Symmetry      float64  `json:"symmetry"`
	Balance       string   `json:"balance"` // balanced, unbalanced, dynamic
	FocusPoints   []string `json:"focus_points"`
	NegativeSpace float64  `json:"negative_space"`
}

// SubjectAnalysis describes what the drawing depicts
type SubjectAnalysis struct {
	MainSubject string   `json:"main_subject"`
	SceneType   string   `json:"scene_type"` // landscape, portrait, abstract, still_life, action
	Elements    []string `json:"elements"`
	Narrative   string   `json:"narrative"`
}

// MoodAnalysis describes the emotional character of the drawing
type MoodAnalysis struct {
	Primary       string  `json:"primary"` // joyful, melancholic, energetic, calm, tense, playful, dramatic
	Secondary     string  `json:"secondary"`
	Intensity     float64 `json:"intensity"`
	EmotionalTone string  `json:"emotional_tone"`
}

// StyleAnalysis describes the artistic technique of the drawing
type StyleAnalysis struct {
	ArtisticStyle string  `json:"artistic_style"` // realistic, abstract, cartoon, sketch, painterly
	Technique     string  `json:"technique"`
	Complexity    float64 `json:"complexity"`
	Refinement    string  `json:"refinement"` // rough, polished, detailed, minimalist
}

// MusicalSuggestions carries the model's own musical interpretation hints
type MusicalSuggestions struct {
	Genre           string   `json:"genre"`
	TempoRange      string   `json:"tempo_range"`    // slow, moderate, fast
	KeySuggestion   string   `json:"key_suggestion"` // major, minor, modal
	Instrumentation []string `json:"instrumentation"`
	MoodMapping     string   `json:"mood_mapping"`
}

// VisualAnalysis is the structured output of image analysis.
// Numeric fields are clamped to [0,1] by Normalize; enum fields outside their
// documented sets route through the mapping fallback branches instead of failing.
type VisualAnalysis struct {
	Colors             ColorAnalysis       `json:"colors"`
	Lines              LineAnalysis        `json:"lines"`
	Composition        CompositionAnalysis `json:"composition"`
	Subject            SubjectAnalysis     `json:"subject"`
	Mood               MoodAnalysis        `json:"mood"`
	Style              StyleAnalysis       `json:"style"`
	MusicalSuggestions MusicalSuggestions  `json:"musical_suggestions"`
}

// Normalize clamps every numeric field to [0,1] in place
func (a *VisualAnalysis) Normalize() {
	a.Colors.Saturation = clamp01(a.Colors.Saturation)
	a.Colors.Brightness = clamp01(a.Colors.Brightness)
	a.Lines.Density = clamp01(a.Lines.Density)
	a.Composition.Density = clamp01(a.Composition.Density)
	a.Composition.Symmetry = clamp01(a.Composition.Symmetry)
	a.Composition.NegativeSpace = clamp01(a.Composition.NegativeSpace)
	a.Mood.Intensity = clamp01(a.Mood.Intensity)
	a.Style.Complexity = clamp01(a.Style.Complexity)
}

// Valid reports whether the analysis is structurally complete enough for the
// mapping pipeline. The pipeline tolerates unknown enum values but not a
// hollow object parsed from an unrelated JSON payload.
func (a *VisualAnalysis) Valid() bool {
	return a.Colors.Temperature != "" &&
		a.Subject.SceneType != "" &&
		a.Mood.Primary != "" &&
		a.Style.ArtisticStyle != ""
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Value implements driver.Valuer so gorm stores the analysis as JSONB
func (a VisualAnalysis) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for reading the JSONB column
func (a *VisualAnalysis) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported type for VisualAnalysis: %T", value)
	}
}

// Drawing is a user-submitted image and its analysis state
type Drawing struct {
	ID          string `gorm:"primarykey" json:"id"`
	UserID      string `gorm:"index" json:"user_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	ImageURL  string `gorm:"not null" json:"image_url"`
	ImageHash string `gorm:"index;not null" json:"image_hash"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`

	VisualAnalysis *VisualAnalysis `gorm:"type:jsonb" json:"visual_analysis,omitempty"`
	Status         DrawingStatus   `gorm:"index;default:'pending'" json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	ProcessingTime float64 `json:"processing_time,omitempty"`
	ErrorMessage   string  `json:"error_message,omitempty"`
}
