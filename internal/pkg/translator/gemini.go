package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

// GeminiClient holds the Gemini client used for translations.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient initializes the Gemini client.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if modelName == "" {
		modelName = defaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: modelName}, nil
}

// Close releases the underlying client connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// ModelName returns the configured model identifier, recorded on each
// translation row.
func (c *GeminiClient) ModelName() string {
	return c.model
}

// Translate asks the model for a translation and returns the translated
// text together with the total token count reported by the API.
func (c *GeminiClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, int, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(2000)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(fmt.Sprintf(
			"You are a professional translator. Translate the given text from %s to %s. "+
				"Maintain the original meaning, tone, and style. Provide ONLY the translated text, no explanations.",
			LanguageName(sourceLang), LanguageName(targetLang),
		))},
	}

	res, err := model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", 0, fmt.Errorf("error sending message: %w", err)
	}

	totalTokens := 0
	if res.UsageMetadata != nil {
		totalTokens = int(res.UsageMetadata.TotalTokenCount)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", totalTokens, errors.New("empty model response")
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	translated := strings.TrimSpace(sb.String())
	if translated == "" {
		return "", totalTokens, errors.New("empty model response")
	}
	return translated, totalTokens, nil
}
