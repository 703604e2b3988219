package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MusicStatus tracks the generation lifecycle of a music request.
// Transitions are one-shot: pending -> generating -> completed|failed.
type MusicStatus string

const (
	MusicStatusPending    MusicStatus = "pending"
	MusicStatusGenerating MusicStatus = "generating"
	MusicStatusCompleted  MusicStatus = "completed"
	MusicStatusFailed     MusicStatus = "failed"
)

// Terminal reports whether the status can no longer change
func (s MusicStatus) Terminal() bool {
	return s == MusicStatusCompleted || s == MusicStatusFailed
}

// MusicParameters is the parameter vector derived from a visual analysis.
// Created once per generation request and immutable thereafter.
type MusicParameters struct {
	Tempo         int      `json:"tempo"` // BPM, 40-200
	Key           string   `json:"key"`
	Scale         string   `json:"scale"`
	Genre         string   `json:"genre"`
	Mood          string   `json:"mood"`
	Instruments   []string `json:"instruments"` // 1-5 entries, preference order
	Duration      int      `json:"duration"`    // seconds
	Dynamics      string   `json:"dynamics"`
	RhythmPattern string   `json:"rhythm_pattern"`
}

// Value implements driver.Valuer so gorm stores the parameters as JSONB
func (p MusicParameters) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for reading the JSONB column
func (p *MusicParameters) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported type for MusicParameters: %T", value)
	}
}

// MusicGeneration is one generation request for a drawing
type MusicGeneration struct {
	ID        string `gorm:"primarykey" json:"id"`
	DrawingID string `gorm:"index;not null" json:"drawing_id"`
	UserID    string `gorm:"index" json:"user_id,omitempty"`

	Parameters MusicParameters `gorm:"type:jsonb" json:"parameters"`
	Prompt     string          `gorm:"type:text" json:"prompt"`

	AudioURL      string  `json:"audio_url,omitempty"`
	AudioData     []byte  `gorm:"type:bytea" json:"-"`
	AudioDuration float64 `json:"audio_duration,omitempty"`

	Status   MusicStatus `gorm:"index;default:'pending'" json:"status"`
	Provider string      `gorm:"index;not null" json:"provider"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`

	GenerationTime float64 `json:"generation_time,omitempty"`
	ErrorMessage   string  `json:"error_message,omitempty"`

	// Analytics
	PlayCount int      `gorm:"default:0" json:"play_count"`
	Rating    *float64 `json:"rating,omitempty"`
}
