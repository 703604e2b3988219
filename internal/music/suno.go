package music

import (
	"context"
	"encoding/json"

	"github.com/drawtunes/drawtunes-api/internal/logger"
	"github.com/drawtunes/drawtunes-api/internal/models"
)

const sunoGenerateURL = "https://api.suno.ai/v1/generate"

// SunoProvider generates music through the Suno API
type SunoProvider struct {
	client *apiClient
	apiKey string
	url    string
}

// NewSunoProvider creates a new Suno adapter
func NewSunoProvider(apiKey string) *SunoProvider {
	return &SunoProvider{
		client: newAPIClient(apiKey),
		apiKey: apiKey,
		url:    sunoGenerateURL,
	}
}

// Name returns the provider identifier
func (p *SunoProvider) Name() string {
	return ProviderSuno
}

// Generate issues one generation request to Suno. Without a credential, or
// on any remote failure, it resolves to the demo fallback result.
func (p *SunoProvider) Generate(ctx context.Context, prompt string, params models.MusicParameters) (*Result, error) {
	if p.apiKey == "" {
		return demoResult(ProviderSuno, ""), nil
	}

	payload := map[string]any{
		"prompt":   prompt,
		"duration": params.Duration,
		"genre":    params.Genre,
		"mood":     params.Mood,
		"tempo":    params.Tempo,
		"key":      params.Key,
	}

	body, err := p.client.postJSON(ctx, p.url, payload)
	if err != nil {
		logger.Warn("Suno generation failed, using demo result", logger.Fields{
			"provider": ProviderSuno,
			"error":    err.Error(),
		})
		return demoResult(ProviderSuno, err.Error()), nil
	}

	var remote struct {
		AudioURL string  `json:"audio_url"`
		Duration float64 `json:"duration"`
	}
	if err := json.Unmarshal(body, &remote); err != nil {
		logger.Warn("Suno response unparsable, using demo result", logger.Fields{
			"provider": ProviderSuno,
			"error":    err.Error(),
		})
		return demoResult(ProviderSuno, err.Error()), nil
	}

	var metadata map[string]any
	_ = json.Unmarshal(body, &metadata)

	return &Result{
		Success:  true,
		AudioURL: remote.AudioURL,
		Duration: remote.Duration,
		Provider: ProviderSuno,
		Metadata: metadata,
	}, nil
}
