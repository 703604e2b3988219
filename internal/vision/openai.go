package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/drawtunes/drawtunes-api/internal/models"
	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const openaiVisionModel = openai.ChatModelGPT4o

// OpenAIAnalyzer implements the Analyzer interface using OpenAI's vision-capable chat API
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

// NewOpenAIAnalyzer creates a new OpenAI analyzer
func NewOpenAIAnalyzer(apiKey string) *OpenAIAnalyzer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIAnalyzer{
		client: &client,
		model:  openaiVisionModel,
	}
}

// Name returns the provider name
func (a *OpenAIAnalyzer) Name() string {
	return providerNameOpenAI
}

// Analyze sends the drawing as an inline data URL with the analysis prompt
// and parses the JSON response into a VisualAnalysis
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) (*AnalysisResult, error) {
	startTime := time.Now()

	transaction := sentry.StartTransaction(ctx, "vision.analyze")
	defer transaction.Finish()
	transaction.SetTag("model", a.model)
	transaction.SetTag("provider", providerNameOpenAI)

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	span := transaction.StartChild("openai.api_call")
	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(analysisPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("openai analysis request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("openai response did not include any choices")
	}

	textOutput := completion.Choices[0].Message.Content
	if textOutput == "" {
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("openai response did not include any output text")
	}

	var analysis models.VisualAnalysis
	if err := json.Unmarshal([]byte(textOutput), &analysis); err != nil {
		log.Printf("failed to parse openai analysis (first %d chars): %s",
			maxOutputTrunc, truncate(textOutput, maxOutputTrunc))
		transaction.SetTag("success", "false")
		return nil, fmt.Errorf("failed to parse openai analysis: %w", err)
	}

	usage := map[string]any{
		"input_tokens":  int(completion.Usage.PromptTokens),
		"output_tokens": int(completion.Usage.CompletionTokens),
		"total_tokens":  int(completion.Usage.TotalTokens),
	}

	transaction.SetTag("success", "true")
	log.Printf("openai analysis completed in %v", time.Since(startTime))

	return &AnalysisResult{
		Analysis:  &analysis,
		RawOutput: textOutput,
		Usage:     usage,
	}, nil
}
