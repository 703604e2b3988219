// Package vision turns drawing images into structured visual analyses
// using an external generative-vision provider, with a demo fallback that
// keeps the downstream mapping pipeline fed when no provider is usable.
package vision

import (
	"context"
	"fmt"
	"strings"

	"github.com/drawtunes/drawtunes-api/internal/models"
)

const (
	providerNameGemini = "gemini"
	providerNameOpenAI = "openai"
)

// AnalysisResult is the parsed output of one vision call
type AnalysisResult struct {
	Analysis  *models.VisualAnalysis
	RawOutput string         // raw model text, kept for tracing
	Usage     map[string]any // provider-reported token usage
}

// Analyzer analyzes a drawing image and returns a structured visual analysis.
// Implementations call a remote vision model; errors cover both transport
// failures and unparsable responses, and are absorbed by the FallbackPolicy.
type Analyzer interface {
	// Analyze sends the image to the vision model and parses the response
	Analyze(ctx context.Context, image []byte, mimeType string) (*AnalysisResult, error)

	// Name returns the provider name (e.g., "gemini", "openai")
	Name() string
}

// Factory creates analyzers based on the configured provider name
type Factory struct {
	geminiAPIKey string
	openaiAPIKey string
}

// NewFactory creates a new analyzer factory
func NewFactory(geminiAPIKey, openaiAPIKey string) *Factory {
	return &Factory{
		geminiAPIKey: geminiAPIKey,
		openaiAPIKey: openaiAPIKey,
	}
}

// GetAnalyzer returns the analyzer for the given provider name, or the
// first configured one when the name is empty. A nil analyzer with a nil
// error means no vision provider is configured at all.
func (f *Factory) GetAnalyzer(ctx context.Context, providerName string) (Analyzer, error) {
	switch strings.ToLower(providerName) {
	case providerNameGemini:
		if f.geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		return NewGeminiAnalyzer(ctx, f.geminiAPIKey)

	case providerNameOpenAI:
		if f.openaiAPIKey == "" {
			return nil, fmt.Errorf("openai API key not configured")
		}
		return NewOpenAIAnalyzer(f.openaiAPIKey), nil

	case "":
		if f.geminiAPIKey != "" {
			return NewGeminiAnalyzer(ctx, f.geminiAPIKey)
		}
		if f.openaiAPIKey != "" {
			return NewOpenAIAnalyzer(f.openaiAPIKey), nil
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown vision provider: %s (allowed: gemini, openai)", providerName)
	}
}
