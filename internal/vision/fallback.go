package vision

import (
	"context"
	"time"

	"github.com/drawtunes/drawtunes-api/internal/logger"
	"github.com/drawtunes/drawtunes-api/internal/models"
)

// analyzeTimeout bounds one remote vision call
const analyzeTimeout = 60 * time.Second

// Source identifies how a resolved analysis was obtained
type Source string

const (
	// SourceRemote means the remote vision call succeeded and parsed
	SourceRemote Source = "remote"
	// SourceFallback means the remote call failed or was unparsable
	SourceFallback Source = "fallback"
	// SourceDemo means no vision provider is configured
	SourceDemo Source = "demo"
)

// FallbackPolicy guarantees every analysis request resolves to a complete,
// schema-valid VisualAnalysis. A nil analyzer or any remote failure yields
// the fixed demo analysis instead of an error.
type FallbackPolicy struct {
	analyzer Analyzer
}

// NewFallbackPolicy creates a policy around the given analyzer, which may
// be nil when no vision provider is configured.
func NewFallbackPolicy(analyzer Analyzer) *FallbackPolicy {
	return &FallbackPolicy{analyzer: analyzer}
}

// Resolve runs the three-outcome policy: demo when unconfigured, fallback
// when the remote result is unusable, otherwise the normalized remote
// analysis. The returned analysis is always non-nil and normalized.
func (p *FallbackPolicy) Resolve(ctx context.Context, image []byte, mimeType string) (*models.VisualAnalysis, Source) {
	if p.analyzer == nil {
		logger.Info("Vision provider not configured, using demo analysis", nil)
		return DemoAnalysis(), SourceDemo
	}

	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	result, err := p.analyzer.Analyze(ctx, image, mimeType)
	if err != nil {
		logger.Warn("Vision analysis failed, using fallback analysis", logger.Fields{
			"provider": p.analyzer.Name(),
			"error":    err.Error(),
		})
		return DemoAnalysis(), SourceFallback
	}

	analysis := result.Analysis
	if analysis == nil || !analysis.Valid() {
		logger.Warn("Vision analysis incomplete, using fallback analysis", logger.Fields{
			"provider": p.analyzer.Name(),
		})
		return DemoAnalysis(), SourceFallback
	}

	analysis.Normalize()
	return analysis, SourceRemote
}
