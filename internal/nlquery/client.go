// Package nlquery maps free-text user questions onto the query layer's
// fixed vocabulary. Translation is delegated to the Gemini API when a
// client is available and falls back to local keyword heuristics when it
// is not, or when the model returns something unusable.
package nlquery

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/dispute-assist/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// AIClient is the minimal surface the translator needs from a language
// model: one prompt in, one text completion out. The abstraction keeps the
// translator testable without network access.
type AIClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// GeminiClient implements AIClient against the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiClient creates a Gemini-backed client. The client is explicitly
// constructed and passed to the translator; there is no lazily-initialized
// process-wide instance.
func NewGeminiClient(ctx context.Context, apiKey, model string, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(model),
		logger: logger,
	}, nil
}

// Generate sends the prompt and returns the concatenated text parts of the
// first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	result := sb.String()
	if strings.TrimSpace(result) == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}

	c.logger.WithField("length", len(result)).Debug("Received Gemini response")
	return result, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
