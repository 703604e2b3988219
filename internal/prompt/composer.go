// Package prompt assembles natural-language generation prompts from a
// visual analysis and its derived musical parameters.
package prompt

import (
	"fmt"
	"strings"

	"github.com/drawtunes/drawtunes-api/internal/models"
)

// FallbackPrompt is used when no analysis is available to compose from
const FallbackPrompt = "Create an instrumental piece inspired by this creative drawing."

// durationRange is the requested piece length communicated to providers
const durationRange = "30-45 seconds"

// Defaults substituted for blank analysis sub-fields
const (
	defaultSubject       = "abstract composition"
	defaultColorMood     = "vibrant"
	defaultTemperature   = "warm"
	defaultLineStyle     = "flowing"
	defaultLineQuality   = "smooth"
	defaultBalance       = "balanced"
	defaultMoodPrimary   = "playful"
	defaultRefinement    = "polished"
	defaultArtisticStyle = "abstract"
	defaultEmotionalTone = "uplifting"
)

// Composer builds music-generation prompts
type Composer struct{}

// NewComposer creates a new prompt composer
func NewComposer() *Composer {
	return &Composer{}
}

// Compose produces the generation prompt for one request. It is
// deterministic given its inputs and never fails: blank sub-fields are
// replaced with documented defaults, and a nil analysis yields the fixed
// fallback prompt.
func (c *Composer) Compose(analysis *models.VisualAnalysis, params models.MusicParameters) string {
	if analysis == nil {
		return FallbackPrompt
	}

	artisticStyle := orDefault(analysis.Style.ArtisticStyle, defaultArtisticStyle)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s instrumental piece inspired by a %s drawing.\n\n",
		params.Genre, artisticStyle)

	b.WriteString("Visual Analysis:\n")
	fmt.Fprintf(&b, "- Subject: %s\n", orDefault(analysis.Subject.MainSubject, defaultSubject))
	fmt.Fprintf(&b, "- Colors: %s (%s palette)\n",
		orDefault(analysis.Colors.Mood, defaultColorMood),
		orDefault(analysis.Colors.Temperature, defaultTemperature))
	fmt.Fprintf(&b, "- Lines: %s with %s quality\n",
		orDefault(analysis.Lines.Style, defaultLineStyle),
		orDefault(analysis.Lines.Quality, defaultLineQuality))
	fmt.Fprintf(&b, "- Composition: %s with %.1f density\n",
		orDefault(analysis.Composition.Balance, defaultBalance),
		analysis.Composition.Density)
	fmt.Fprintf(&b, "- Mood: %s with %.1f intensity\n",
		orDefault(analysis.Mood.Primary, defaultMoodPrimary),
		analysis.Mood.Intensity)
	fmt.Fprintf(&b, "- Style: %s %s technique\n\n",
		orDefault(analysis.Style.Refinement, defaultRefinement),
		artisticStyle)

	b.WriteString("Musical Parameters:\n")
	fmt.Fprintf(&b, "- Genre: %s\n", params.Genre)
	fmt.Fprintf(&b, "- Tempo: %d BPM\n", params.Tempo)
	fmt.Fprintf(&b, "- Key: %s\n", params.Key)
	fmt.Fprintf(&b, "- Instruments: %s\n", strings.Join(params.Instruments, ", "))
	fmt.Fprintf(&b, "- Dynamics: %s\n", params.Dynamics)
	fmt.Fprintf(&b, "- Duration: %s\n", durationRange)
	fmt.Fprintf(&b, "- Mood: %s\n\n", orDefault(analysis.Mood.EmotionalTone, defaultEmotionalTone))

	b.WriteString("Create music that captures the essence and energy of this visual artwork. ")
	b.WriteString("The piece should feel like a musical interpretation of the drawing's colors, lines, and mood.")

	return b.String()
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
