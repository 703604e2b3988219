package mapping

import (
	"testing"

	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempoFromDensityCurvePoints(t *testing.T) {
	tests := []struct {
		density float64
		want    int
	}{
		{0.0, 60},
		{0.29, 71},
		{0.3, 92},
		{0.5, 100},
		{0.69, 107},
		{0.7, 162},
		{0.8, 168},
		{1.0, 180},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TempoFromDensity(tt.density), "density %v", tt.density)
	}
}

func TestTempoFromDensityBoundsAndMonotonicity(t *testing.T) {
	prev := 0
	prevSegment := -1
	for i := 0; i <= 100; i++ {
		d := float64(i) / 100
		tempo := TempoFromDensity(d)

		assert.GreaterOrEqual(t, tempo, 60)
		assert.LessOrEqual(t, tempo, 180)

		segment := 0
		switch {
		case d >= 0.7:
			segment = 2
		case d >= 0.3:
			segment = 1
		}
		// Non-decreasing within each segment
		if segment == prevSegment {
			assert.GreaterOrEqual(t, tempo, prev, "tempo regressed at density %v", d)
		}
		prev = tempo
		prevSegment = segment
	}
}

func TestTempoFromDensityClampsOutOfRange(t *testing.T) {
	assert.Equal(t, 60, TempoFromDensity(-0.5))
	assert.Equal(t, 180, TempoFromDensity(1.7))
}

func TestKeyFromColorsRuleOrder(t *testing.T) {
	tests := []struct {
		name        string
		temperature string
		brightness  float64
		want        string
	}{
		{"warm and bright", "warm", 0.7, "C major"},
		{"cool overrides high brightness", "cool", 0.9, "A minor"},
		{"dark warm palette", "warm", 0.3, "A minor"},
		{"neutral and very bright", "neutral", 0.75, "G major"},
		{"neutral mid brightness", "neutral", 0.5, "F major"},
		{"unknown temperature mid brightness", "lukewarm", 0.5, "F major"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			colors := models.ColorAnalysis{Temperature: tt.temperature, Brightness: tt.brightness}
			assert.Equal(t, tt.want, KeyFromColors(colors))
		})
	}
}

func TestScaleFromKey(t *testing.T) {
	assert.Equal(t, "major", ScaleFromKey("C major"))
	assert.Equal(t, "minor", ScaleFromKey("A minor"))
	assert.Equal(t, "major", ScaleFromKey(""))
}

func TestInstrumentsFor(t *testing.T) {
	tests := []struct {
		name  string
		style string
		scene string
		want  []string
	}{
		{
			name:  "cartoon action truncates to five",
			style: "cartoon",
			scene: "action",
			want:  []string{"piano", "strings", "xylophone", "bells", "brass"},
		},
		{
			name:  "abstract landscape",
			style: "abstract",
			scene: "landscape",
			want:  []string{"piano", "strings", "synthesizer", "electronic", "flute"},
		},
		{
			name:  "realistic portrait",
			style: "realistic",
			scene: "portrait",
			want:  []string{"piano", "strings", "acoustic guitar", "woodwinds", "cello"},
		},
		{
			name:  "unknown style and scene keep the base pair",
			style: "impressionist",
			scene: "interior",
			want:  []string{"piano", "strings"},
		},
		{
			name:  "sketch still_life adds nothing",
			style: "sketch",
			scene: "still_life",
			want:  []string{"piano", "strings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InstrumentsFor(
				models.StyleAnalysis{ArtisticStyle: tt.style},
				models.SubjectAnalysis{SceneType: tt.scene},
			)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 5)
			assert.GreaterOrEqual(t, len(got), 1)
		})
	}
}

func TestDynamicsFromMoodRuleOrder(t *testing.T) {
	tests := []struct {
		name      string
		primary   string
		intensity float64
		want      string
	}{
		{"intensity beats calm mood", "calm", 0.9, "forte to fortissimo"},
		{"energetic at low intensity", "energetic", 0.2, "forte to fortissimo"},
		{"dramatic", "dramatic", 0.5, "forte to fortissimo"},
		{"playful", "playful", 0.5, "mezzo-forte"},
		{"joyful low intensity", "joyful", 0.1, "mezzo-forte"},
		{"moderate intensity unknown mood", "wistful", 0.65, "mezzo-forte"},
		{"calm", "calm", 0.5, "piano to pianissimo"},
		{"melancholic", "melancholic", 0.5, "piano to pianissimo"},
		{"low intensity unknown mood", "wistful", 0.2, "piano to pianissimo"},
		{"mid intensity unknown mood", "wistful", 0.5, "mezzo-piano to mezzo-forte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mood := models.MoodAnalysis{Primary: tt.primary, Intensity: tt.intensity}
			assert.Equal(t, tt.want, DynamicsFromMood(mood))
		})
	}
}

func TestParametersFromAnalysis(t *testing.T) {
	analysis := &models.VisualAnalysis{
		Colors:      models.ColorAnalysis{Temperature: "warm", Brightness: 0.65},
		Composition: models.CompositionAnalysis{Density: 0.8},
		Mood:        models.MoodAnalysis{Primary: "playful", Intensity: 0.75},
		Style:       models.StyleAnalysis{ArtisticStyle: "abstract"},
		Subject:     models.SubjectAnalysis{SceneType: "abstract"},
	}

	params := ParametersFromAnalysis(analysis)

	assert.Equal(t, 168, params.Tempo)
	assert.Equal(t, "C major", params.Key)
	assert.Equal(t, "major", params.Scale)
	assert.Equal(t, []string{"piano", "strings", "synthesizer", "electronic"}, params.Instruments)
	assert.Equal(t, "mezzo-forte", params.Dynamics)
	assert.Equal(t, 45, params.Duration)
	assert.Equal(t, "regular", params.RhythmPattern)
	assert.Equal(t, "contemporary instrumental", params.Genre)
	assert.Equal(t, "playful", params.Mood)
}

func TestParametersFromAnalysisNormalizesInputs(t *testing.T) {
	analysis := &models.VisualAnalysis{
		Colors:      models.ColorAnalysis{Temperature: "neutral", Brightness: 1.8},
		Composition: models.CompositionAnalysis{Density: 2.5},
		Mood:        models.MoodAnalysis{Primary: "calm", Intensity: -0.4},
		MusicalSuggestions: models.MusicalSuggestions{
			Genre: "ambient electronica",
		},
	}

	params := ParametersFromAnalysis(analysis)

	require.Equal(t, 180, params.Tempo)
	assert.Equal(t, "G major", params.Key) // brightness clamped to 1.0
	assert.Equal(t, "piano to pianissimo", params.Dynamics)
	assert.Equal(t, "ambient electronica", params.Genre)
}
