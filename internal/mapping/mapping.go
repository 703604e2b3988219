// Package mapping converts visual-analysis features into musical parameters.
// Every function is pure and total: out-of-range inputs are clamped and
// unknown enum values fall through to a neutral branch, never an error.
package mapping

import "github.com/drawtunes/drawtunes-api/internal/models"

const (
	maxInstruments = 5

	// Fixed generation length in seconds
	DefaultDuration = 45

	defaultGenre         = "contemporary instrumental"
	defaultMood          = "neutral"
	defaultRhythmPattern = "regular"
)

// TempoFromDensity maps composition density to BPM over three linear
// segments: sparse drawings sit around 60-72, mid-density around 80-108,
// dense drawings push 120-180.
func TempoFromDensity(density float64) int {
	if density < 0 {
		density = 0
	}
	if density > 1 {
		density = 1
	}

	switch {
	case density < 0.3:
		return 60 + int(density*40) // 60-72 BPM
	case density < 0.7:
		return 80 + int(density*40) // 80-108 BPM
	default:
		return 120 + int(density*60) // 120-180 BPM
	}
}

// KeyFromColors maps color temperature and brightness to a key signature.
// Rules are evaluated in order, first match wins: a cool palette selects
// A minor even when brightness is high.
func KeyFromColors(colors models.ColorAnalysis) string {
	switch {
	case colors.Temperature == "warm" && colors.Brightness > 0.6:
		return "C major"
	case colors.Temperature == "cool" || colors.Brightness < 0.4:
		return "A minor"
	case colors.Brightness > 0.7:
		return "G major"
	default:
		return "F major"
	}
}

// ScaleFromKey derives the scale name from a key signature
func ScaleFromKey(key string) string {
	if len(key) >= 5 && key[len(key)-5:] == "minor" {
		return "minor"
	}
	return "major"
}

// InstrumentsFor selects up to five instruments: a fixed base pair, then a
// style-specific set, then a scene-specific set, truncated from the tail.
// Unknown styles and scenes contribute nothing.
func InstrumentsFor(style models.StyleAnalysis, subject models.SubjectAnalysis) []string {
	instruments := []string{"piano", "strings"}

	switch style.ArtisticStyle {
	case "realistic":
		instruments = append(instruments, "acoustic guitar", "woodwinds")
	case "abstract":
		instruments = append(instruments, "synthesizer", "electronic")
	case "cartoon":
		instruments = append(instruments, "xylophone", "bells", "brass")
	}

	switch subject.SceneType {
	case "landscape":
		instruments = append(instruments, "flute", "nature sounds")
	case "portrait":
		instruments = append(instruments, "cello", "violin")
	case "action":
		instruments = append(instruments, "drums", "electric guitar")
	}

	if len(instruments) > maxInstruments {
		instruments = instruments[:maxInstruments]
	}
	return instruments
}

// DynamicsFromMood maps mood intensity and primary mood to a dynamics
// marking. Evaluated in order, first match wins: high intensity selects
// forte even for a calm primary mood.
func DynamicsFromMood(mood models.MoodAnalysis) string {
	switch {
	case mood.Intensity > 0.8 || mood.Primary == "energetic" || mood.Primary == "dramatic":
		return "forte to fortissimo"
	case mood.Intensity > 0.6 || mood.Primary == "playful" || mood.Primary == "joyful":
		return "mezzo-forte"
	case mood.Intensity < 0.3 || mood.Primary == "calm" || mood.Primary == "melancholic":
		return "piano to pianissimo"
	default:
		return "mezzo-piano to mezzo-forte"
	}
}

// ParametersFromAnalysis derives the full parameter vector for one
// generation request. The analysis is normalized first so every numeric
// feeds the segment lookups in range.
func ParametersFromAnalysis(analysis *models.VisualAnalysis) models.MusicParameters {
	analysis.Normalize()

	key := KeyFromColors(analysis.Colors)

	genre := analysis.MusicalSuggestions.Genre
	if genre == "" {
		genre = defaultGenre
	}
	mood := analysis.Mood.Primary
	if mood == "" {
		mood = defaultMood
	}

	return models.MusicParameters{
		Tempo:         TempoFromDensity(analysis.Composition.Density),
		Key:           key,
		Scale:         ScaleFromKey(key),
		Genre:         genre,
		Mood:          mood,
		Instruments:   InstrumentsFor(analysis.Style, analysis.Subject),
		Duration:      DefaultDuration,
		Dynamics:      DynamicsFromMood(analysis.Mood),
		RhythmPattern: defaultRhythmPattern,
	}
}
