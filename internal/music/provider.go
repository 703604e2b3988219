// Package music dispatches generation requests to external music
// providers. Adapters are interchangeable behind the Provider interface
// and are selected by identifier through a registry frozen at startup.
package music

import (
	"context"
	"fmt"

	"github.com/drawtunes/drawtunes-api/internal/models"
)

// Provider identifiers
const (
	ProviderSuno       = "suno"
	ProviderBeatoven   = "beatoven"
	ProviderElevenLabs = "elevenlabs"
	ProviderDemo       = "demo"
)

// demoDuration is the fixed length of demo fallback audio, in seconds
const demoDuration = 45.0

// Provider generates music from a prompt and parameter vector.
// Adapters absorb remote failures into a demo fallback result; the error
// return is reserved for context cancellation and programming errors.
type Provider interface {
	// Generate issues one bounded remote request, or returns a demo
	// result when no credential is configured
	Generate(ctx context.Context, prompt string, params models.MusicParameters) (*Result, error)

	// Name returns the provider identifier (e.g., "suno")
	Name() string
}

// Result is the normalized outcome of one provider call.
// Demo and FallbackReason make the three outcomes distinguishable:
// a real remote success (Demo=false), a not-configured demo result
// (Demo=true, FallbackReason empty), and a remote failure absorbed into
// a demo result (Demo=true, FallbackReason set).
type Result struct {
	Success        bool           `json:"success"`
	AudioURL       string         `json:"audio_url,omitempty"`
	AudioData      []byte         `json:"-"`
	Duration       float64        `json:"duration,omitempty"`
	Provider       string         `json:"provider"`
	Error          string         `json:"error,omitempty"`
	Demo           bool           `json:"demo,omitempty"`
	FallbackReason string         `json:"fallback_reason,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// demoResult builds the fixed fallback result for a provider. reason is
// empty for the not-configured case and carries the remote error text when
// a configured provider failed.
func demoResult(provider, reason string) *Result {
	return &Result{
		Success:        true,
		AudioURL:       fmt.Sprintf("https://demo-audio-%s.mp3", provider),
		Duration:       demoDuration,
		Provider:       provider,
		Demo:           true,
		FallbackReason: reason,
		Metadata: map[string]any{
			"demo":    true,
			"message": "This is a demo result. In production, this would be real generated music.",
		},
	}
}

// DemoProvider returns demo results without any remote call
type DemoProvider struct{}

// NewDemoProvider creates the demo provider
func NewDemoProvider() *DemoProvider {
	return &DemoProvider{}
}

// Name returns the provider identifier
func (p *DemoProvider) Name() string {
	return ProviderDemo
}

// Generate returns a demo result immediately
func (p *DemoProvider) Generate(_ context.Context, _ string, _ models.MusicParameters) (*Result, error) {
	return demoResult(ProviderDemo, ""), nil
}
