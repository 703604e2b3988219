package music

import (
	"context"

	"github.com/drawtunes/drawtunes-api/internal/logger"
	"github.com/drawtunes/drawtunes-api/internal/models"
)

const elevenLabsGenerateURL = "https://api.elevenlabs.io/v1/text-to-speech/21m00Tcm4TlvDq8ikWAM"

// ElevenLabsProvider generates audio through the ElevenLabs API.
// ElevenLabs returns raw audio bytes rather than a hosted URL.
type ElevenLabsProvider struct {
	client *apiClient
	apiKey string
	url    string
}

// NewElevenLabsProvider creates a new ElevenLabs adapter
func NewElevenLabsProvider(apiKey string) *ElevenLabsProvider {
	return &ElevenLabsProvider{
		client: newAPIClient(apiKey),
		apiKey: apiKey,
		url:    elevenLabsGenerateURL,
	}
}

// Name returns the provider identifier
func (p *ElevenLabsProvider) Name() string {
	return ProviderElevenLabs
}

// Generate issues one generation request to ElevenLabs. Without a
// credential, or on any remote failure, it resolves to the demo fallback
// result.
func (p *ElevenLabsProvider) Generate(ctx context.Context, prompt string, params models.MusicParameters) (*Result, error) {
	if p.apiKey == "" {
		return demoResult(ProviderElevenLabs, ""), nil
	}

	payload := map[string]any{
		"text": prompt,
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.5,
		},
	}

	body, err := p.client.postJSON(ctx, p.url, payload)
	if err != nil {
		logger.Warn("ElevenLabs generation failed, using demo result", logger.Fields{
			"provider": ProviderElevenLabs,
			"error":    err.Error(),
		})
		return demoResult(ProviderElevenLabs, err.Error()), nil
	}

	return &Result{
		Success:   true,
		AudioData: body,
		Duration:  float64(params.Duration),
		Provider:  ProviderElevenLabs,
		Metadata:  map[string]any{"format": "mp3"},
	}, nil
}
