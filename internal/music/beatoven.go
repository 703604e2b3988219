package music

import (
	"context"
	"encoding/json"

	"github.com/drawtunes/drawtunes-api/internal/logger"
	"github.com/drawtunes/drawtunes-api/internal/models"
)

const beatovenGenerateURL = "https://api.beatoven.ai/v1/generate"

// BeatovenProvider generates music through the Beatoven API
type BeatovenProvider struct {
	client *apiClient
	apiKey string
	url    string
}

// NewBeatovenProvider creates a new Beatoven adapter
func NewBeatovenProvider(apiKey string) *BeatovenProvider {
	return &BeatovenProvider{
		client: newAPIClient(apiKey),
		apiKey: apiKey,
		url:    beatovenGenerateURL,
	}
}

// Name returns the provider identifier
func (p *BeatovenProvider) Name() string {
	return ProviderBeatoven
}

// Generate issues one generation request to Beatoven. Without a credential,
// or on any remote failure, it resolves to the demo fallback result.
func (p *BeatovenProvider) Generate(ctx context.Context, prompt string, params models.MusicParameters) (*Result, error) {
	if p.apiKey == "" {
		return demoResult(ProviderBeatoven, ""), nil
	}

	payload := map[string]any{
		"text":        prompt,
		"duration":    params.Duration,
		"genre":       params.Genre,
		"mood":        params.Mood,
		"tempo":       params.Tempo,
		"key":         params.Key,
		"instruments": params.Instruments,
	}

	body, err := p.client.postJSON(ctx, p.url, payload)
	if err != nil {
		logger.Warn("Beatoven generation failed, using demo result", logger.Fields{
			"provider": ProviderBeatoven,
			"error":    err.Error(),
		})
		return demoResult(ProviderBeatoven, err.Error()), nil
	}

	var remote struct {
		AudioURL string  `json:"audio_url"`
		Duration float64 `json:"duration"`
	}
	if err := json.Unmarshal(body, &remote); err != nil {
		logger.Warn("Beatoven response unparsable, using demo result", logger.Fields{
			"provider": ProviderBeatoven,
			"error":    err.Error(),
		})
		return demoResult(ProviderBeatoven, err.Error()), nil
	}

	var metadata map[string]any
	_ = json.Unmarshal(body, &metadata)

	return &Result{
		Success:  true,
		AudioURL: remote.AudioURL,
		Duration: remote.Duration,
		Provider: ProviderBeatoven,
		Metadata: metadata,
	}, nil
}
