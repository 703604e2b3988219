package vision

import "github.com/drawtunes/drawtunes-api/internal/models"

// DemoAnalysis returns the fixed, schema-valid analysis used whenever no
// vision provider is configured or a remote analysis cannot be used. The
// returned value is a fresh copy; callers may mutate it freely.
func DemoAnalysis() *models.VisualAnalysis {
	return &models.VisualAnalysis{
		Colors: models.ColorAnalysis{
			Dominant:    "vibrant warm colors",
			Palette:     []string{"orange", "yellow", "red"},
			Temperature: "warm",
			Saturation:  0.8,
			Brightness:  0.7,
			Mood:        "energetic and cheerful",
		},
		Lines: models.LineAnalysis{
			Quality:   "smooth",
			Thickness: "medium",
			Direction: "curved",
			Density:   0.6,
			Style:     "flowing and organic",
		},
		Composition: models.CompositionAnalysis{
			Density:       0.5,
			Symmetry:      0.7,
			Balance:       "balanced",
			FocusPoints:   []string{"central figure", "background elements"},
			NegativeSpace: 0.3,
		},
		Subject: models.SubjectAnalysis{
			MainSubject: "abstract creative composition",
			SceneType:   "abstract",
			Elements:    []string{"geometric shapes", "flowing lines", "colorful forms"},
			Narrative:   "creative expression and artistic exploration",
		},
		Mood: models.MoodAnalysis{
			Primary:       "playful",
			Secondary:     "creative and energetic",
			Intensity:     0.7,
			EmotionalTone: "uplifting and inspiring",
		},
		Style: models.StyleAnalysis{
			ArtisticStyle: "abstract",
			Technique:     "freeform drawing",
			Complexity:    0.6,
			Refinement:    "polished",
		},
		MusicalSuggestions: models.MusicalSuggestions{
			Genre:           "electronic pop",
			TempoRange:      "moderate",
			KeySuggestion:   "major",
			Instrumentation: []string{"synthesizer", "drums", "bass"},
			MoodMapping:     "playful visuals translate to upbeat, energetic music",
		},
	}
}
