package vision

import (
	"context"
	"fmt"
	"testing"

	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAnalyzer is a test implementation of the Analyzer interface
type mockAnalyzer struct {
	name        string
	analyzeFunc func(ctx context.Context, image []byte, mimeType string) (*AnalysisResult, error)
}

func (m *mockAnalyzer) Name() string {
	return m.name
}

func (m *mockAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) (*AnalysisResult, error) {
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, image, mimeType)
	}
	return &AnalysisResult{Analysis: DemoAnalysis()}, nil
}

func assertSchemaValid(t *testing.T, a *models.VisualAnalysis) {
	t.Helper()
	require.NotNil(t, a)
	assert.True(t, a.Valid())
	for _, v := range []float64{
		a.Colors.Saturation, a.Colors.Brightness,
		a.Lines.Density,
		a.Composition.Density, a.Composition.Symmetry, a.Composition.NegativeSpace,
		a.Mood.Intensity, a.Style.Complexity,
	} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.NotEmpty(t, a.Colors.Palette)
	assert.NotEmpty(t, a.MusicalSuggestions.Instrumentation)
}

func TestResolveNoAnalyzerReturnsDemo(t *testing.T) {
	policy := NewFallbackPolicy(nil)

	analysis, source := policy.Resolve(context.Background(), []byte("img"), "image/png")

	assert.Equal(t, SourceDemo, source)
	assertSchemaValid(t, analysis)
	assert.Equal(t, DemoAnalysis(), analysis)
}

func TestResolveRemoteFailureFallsBack(t *testing.T) {
	policy := NewFallbackPolicy(&mockAnalyzer{
		name: "gemini",
		analyzeFunc: func(_ context.Context, _ []byte, _ string) (*AnalysisResult, error) {
			return nil, fmt.Errorf("connection refused")
		},
	})

	analysis, source := policy.Resolve(context.Background(), []byte("img"), "image/png")

	assert.Equal(t, SourceFallback, source)
	assertSchemaValid(t, analysis)
}

func TestResolveIncompleteAnalysisFallsBack(t *testing.T) {
	policy := NewFallbackPolicy(&mockAnalyzer{
		name: "gemini",
		analyzeFunc: func(_ context.Context, _ []byte, _ string) (*AnalysisResult, error) {
			// Parsed from an unrelated payload: structurally hollow
			return &AnalysisResult{Analysis: &models.VisualAnalysis{}}, nil
		},
	})

	analysis, source := policy.Resolve(context.Background(), []byte("img"), "image/png")

	assert.Equal(t, SourceFallback, source)
	assertSchemaValid(t, analysis)
}

func TestResolveRemoteSuccessIsNormalized(t *testing.T) {
	remote := DemoAnalysis()
	remote.Mood.Intensity = 1.4
	remote.Composition.Density = -0.2

	policy := NewFallbackPolicy(&mockAnalyzer{
		name: "gemini",
		analyzeFunc: func(_ context.Context, _ []byte, _ string) (*AnalysisResult, error) {
			return &AnalysisResult{Analysis: remote}, nil
		},
	})

	analysis, source := policy.Resolve(context.Background(), []byte("img"), "image/png")

	assert.Equal(t, SourceRemote, source)
	assert.Equal(t, 1.0, analysis.Mood.Intensity)
	assert.Equal(t, 0.0, analysis.Composition.Density)
	assertSchemaValid(t, analysis)
}

func TestResolveAppliesTimeoutToAnalyzer(t *testing.T) {
	var sawDeadline bool
	policy := NewFallbackPolicy(&mockAnalyzer{
		name: "gemini",
		analyzeFunc: func(ctx context.Context, _ []byte, _ string) (*AnalysisResult, error) {
			_, sawDeadline = ctx.Deadline()
			return &AnalysisResult{Analysis: DemoAnalysis()}, nil
		},
	})

	_, source := policy.Resolve(context.Background(), []byte("img"), "image/png")

	assert.True(t, sawDeadline)
	assert.Equal(t, SourceRemote, source)
}

func TestFactoryGetAnalyzer(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		f := NewFactory("key", "key")
		_, err := f.GetAnalyzer(context.Background(), "claude")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown vision provider")
	})

	t.Run("openai without key", func(t *testing.T) {
		f := NewFactory("", "")
		_, err := f.GetAnalyzer(context.Background(), "openai")
		require.Error(t, err)
	})

	t.Run("openai with key", func(t *testing.T) {
		f := NewFactory("", "sk-test")
		a, err := f.GetAnalyzer(context.Background(), "openai")
		require.NoError(t, err)
		assert.Equal(t, "openai", a.Name())
	})

	t.Run("nothing configured", func(t *testing.T) {
		f := NewFactory("", "")
		a, err := f.GetAnalyzer(context.Background(), "")
		require.NoError(t, err)
		assert.Nil(t, a)
	})

	t.Run("default prefers openai when only openai configured", func(t *testing.T) {
		f := NewFactory("", "sk-test")
		a, err := f.GetAnalyzer(context.Background(), "")
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, "openai", a.Name())
	})
}

func TestDemoAnalysisReturnsFreshCopies(t *testing.T) {
	first := DemoAnalysis()
	first.Mood.Primary = "tense"
	first.Colors.Palette[0] = "black"

	second := DemoAnalysis()
	assert.Equal(t, "playful", second.Mood.Primary)
	assert.Equal(t, "orange", second.Colors.Palette[0])
}
