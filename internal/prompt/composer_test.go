package prompt

import (
	"testing"

	"github.com/drawtunes/drawtunes-api/internal/mapping"
	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnalysis() *models.VisualAnalysis {
	return &models.VisualAnalysis{
		Colors: models.ColorAnalysis{
			Temperature: "warm",
			Brightness:  0.65,
			Mood:        "energetic and cheerful",
		},
		Lines: models.LineAnalysis{
			Quality: "smooth",
			Style:   "flowing and organic",
		},
		Composition: models.CompositionAnalysis{
			Density: 0.8,
			Balance: "dynamic",
		},
		Subject: models.SubjectAnalysis{
			MainSubject: "a sunrise over rolling hills",
			SceneType:   "abstract",
		},
		Mood: models.MoodAnalysis{
			Primary:       "playful",
			Intensity:     0.75,
			EmotionalTone: "uplifting and inspiring",
		},
		Style: models.StyleAnalysis{
			ArtisticStyle: "abstract",
			Refinement:    "polished",
		},
		MusicalSuggestions: models.MusicalSuggestions{
			Genre: "electronic pop",
		},
	}
}

func TestComposeIncludesAllSections(t *testing.T) {
	analysis := sampleAnalysis()
	params := mapping.ParametersFromAnalysis(analysis)
	composer := NewComposer()

	got := composer.Compose(analysis, params)

	assert.Contains(t, got, "Create a electronic pop instrumental piece inspired by a abstract drawing.")
	assert.Contains(t, got, "- Subject: a sunrise over rolling hills")
	assert.Contains(t, got, "- Colors: energetic and cheerful (warm palette)")
	assert.Contains(t, got, "- Lines: flowing and organic with smooth quality")
	assert.Contains(t, got, "- Composition: dynamic with 0.8 density")
	assert.Contains(t, got, "- Mood: playful with 0.8 intensity")
	assert.Contains(t, got, "- Tempo: 168 BPM")
	assert.Contains(t, got, "- Key: C major")
	assert.Contains(t, got, "- Instruments: piano, strings, synthesizer, electronic")
	assert.Contains(t, got, "- Dynamics: mezzo-forte")
	assert.Contains(t, got, "- Duration: 30-45 seconds")
	assert.Contains(t, got, "- Mood: uplifting and inspiring")
}

func TestComposeIsDeterministic(t *testing.T) {
	analysis := sampleAnalysis()
	params := mapping.ParametersFromAnalysis(analysis)
	composer := NewComposer()

	first := composer.Compose(analysis, params)
	second := composer.Compose(analysis, params)

	require.Equal(t, first, second)
}

func TestComposeSubstitutesDefaults(t *testing.T) {
	analysis := &models.VisualAnalysis{}
	params := mapping.ParametersFromAnalysis(analysis)
	composer := NewComposer()

	got := composer.Compose(analysis, params)

	assert.Contains(t, got, "- Subject: abstract composition")
	assert.Contains(t, got, "- Colors: vibrant (warm palette)")
	assert.Contains(t, got, "- Lines: flowing with smooth quality")
	assert.Contains(t, got, "- Composition: balanced with 0.0 density")
	assert.Contains(t, got, "- Mood: playful with 0.0 intensity")
	assert.Contains(t, got, "- Style: polished abstract technique")
	assert.Contains(t, got, "- Mood: uplifting")
}

func TestComposeNilAnalysisFallsBack(t *testing.T) {
	composer := NewComposer()
	got := composer.Compose(nil, models.MusicParameters{})
	assert.Equal(t, FallbackPrompt, got)
}
