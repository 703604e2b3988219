package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const (
	geminiVisionModel = "gemini-2.5-flash"
	mimeTypeJSON      = "application/json"
	geminiUserRole    = "user"
	maxOutputTrunc    = 200
)

// GeminiAnalyzer implements the Analyzer interface using Google's Gemini API
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates a new Gemini analyzer
func NewGeminiAnalyzer(ctx context.Context, apiKey string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAnalyzer{
		client: client,
		model:  geminiVisionModel,
	}, nil
}

// Name returns the provider name
func (a *GeminiAnalyzer) Name() string {
	return providerNameGemini
}

// Analyze sends the drawing to Gemini with a JSON response schema and
// parses the result into a VisualAnalysis
func (a *GeminiAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) (*AnalysisResult, error) {
	startTime := time.Now()

	transaction := sentry.StartTransaction(ctx, "vision.analyze")
	defer transaction.Finish()
	transaction.SetTag("model", a.model)
	transaction.SetTag("provider", providerNameGemini)

	contents := []*genai.Content{
		{
			Role: geminiUserRole,
			Parts: []*genai.Part{
				{Text: analysisPrompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: mimeTypeJSON,
		ResponseSchema:   visualAnalysisSchema(),
	}

	span := transaction.StartChild("gemini.api_call")
	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("gemini analysis request failed: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("gemini response did not include any output")
	}

	textOutput := result.Candidates[0].Content.Parts[0].Text
	if textOutput == "" {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("gemini response did not include any output text")
	}

	var analysis models.VisualAnalysis
	if err := json.Unmarshal([]byte(textOutput), &analysis); err != nil {
		log.Printf("failed to parse gemini analysis (first %d chars): %s",
			maxOutputTrunc, truncate(textOutput, maxOutputTrunc))
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("failed to parse gemini analysis: %w", err)
	}

	usage := map[string]any{}
	if result.UsageMetadata != nil {
		usage["input_tokens"] = int(result.UsageMetadata.PromptTokenCount)
		usage["output_tokens"] = int(result.UsageMetadata.CandidatesTokenCount)
		usage["total_tokens"] = int(result.UsageMetadata.TotalTokenCount)
	}

	transaction.SetTag("success", "true")
	log.Printf("gemini analysis completed in %v", time.Since(startTime))

	return &AnalysisResult{
		Analysis:  &analysis,
		RawOutput: textOutput,
		Usage:     usage,
	}, nil
}

// visualAnalysisSchema builds the Gemini response schema for the
// VisualAnalysis structure
func visualAnalysisSchema() *genai.Schema {
	stringArray := func() *genai.Schema {
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"colors": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"dominant":    {Type: genai.TypeString},
					"palette":     stringArray(),
					"temperature": {Type: genai.TypeString, Enum: []string{"warm", "cool", "neutral"}},
					"saturation":  {Type: genai.TypeNumber},
					"brightness":  {Type: genai.TypeNumber},
					"mood":        {Type: genai.TypeString},
				},
				Required: []string{"dominant", "palette", "temperature", "saturation", "brightness", "mood"},
			},
			"lines": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"quality":   {Type: genai.TypeString, Enum: []string{"smooth", "jagged", "geometric", "organic"}},
					"thickness": {Type: genai.TypeString, Enum: []string{"thin", "medium", "thick", "varied"}},
					"direction": {Type: genai.TypeString, Enum: []string{"horizontal", "vertical", "diagonal", "curved", "chaotic"}},
					"density":   {Type: genai.TypeNumber},
					"style":     {Type: genai.TypeString},
				},
				Required: []string{"quality", "thickness", "direction", "density", "style"},
			},
			"composition": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"density":        {Type: genai.TypeNumber},
					"symmetry":       {Type: genai.TypeNumber},
					"balance":        {Type: genai.TypeString, Enum: []string{"balanced", "unbalanced", "dynamic"}},
					"focus_points":   stringArray(),
					"negative_space": {Type: genai.TypeNumber},
				},
				Required: []string{"density", "symmetry", "balance", "focus_points", "negative_space"},
			},
			"subject": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"main_subject": {Type: genai.TypeString},
					"scene_type":   {Type: genai.TypeString, Enum: []string{"landscape", "portrait", "abstract", "still_life", "action"}},
					"elements":     stringArray(),
					"narrative":    {Type: genai.TypeString},
				},
				Required: []string{"main_subject", "scene_type", "elements", "narrative"},
			},
			"mood": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"primary":        {Type: genai.TypeString, Enum: []string{"joyful", "melancholic", "energetic", "calm", "tense", "playful", "dramatic"}},
					"secondary":      {Type: genai.TypeString},
					"intensity":      {Type: genai.TypeNumber},
					"emotional_tone": {Type: genai.TypeString},
				},
				Required: []string{"primary", "secondary", "intensity", "emotional_tone"},
			},
			"style": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"artistic_style": {Type: genai.TypeString, Enum: []string{"realistic", "abstract", "cartoon", "sketch", "painterly"}},
					"technique":      {Type: genai.TypeString},
					"complexity":     {Type: genai.TypeNumber},
					"refinement":     {Type: genai.TypeString, Enum: []string{"rough", "polished", "detailed", "minimalist"}},
				},
				Required: []string{"artistic_style", "technique", "complexity", "refinement"},
			},
			"musical_suggestions": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"genre":           {Type: genai.TypeString},
					"tempo_range":     {Type: genai.TypeString, Enum: []string{"slow", "moderate", "fast"}},
					"key_suggestion":  {Type: genai.TypeString, Enum: []string{"major", "minor", "modal"}},
					"instrumentation": stringArray(),
					"mood_mapping":    {Type: genai.TypeString},
				},
				Required: []string{"genre", "tempo_range", "key_suggestion", "instrumentation", "mood_mapping"},
			},
		},
		Required: []string{"colors", "lines", "composition", "subject", "mood", "style", "musical_suggestions"},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
