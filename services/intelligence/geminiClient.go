// File: services/intelligence/geminiClient.go
package intelligence

import (
	"context"
	"fmt"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"frontdesk/utils"
)

const answerTimeout = 8 * time.Second

// GeminiAnswerer backs the free-form answering path with Gemini.
type GeminiAnswerer struct {
	model  *genai.GenerativeModel
	logger *zap.Logger
}

// NewGeminiAnswerer builds a Gemini-backed Answerer. An error here means
// the backend is unusable; callers should fall back to NoopAnswerer.
func NewGeminiAnswerer(apiKey string) (*GeminiAnswerer, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiAnswerer{model: model, logger: utils.GetLogger()}, nil
}

func (g *GeminiAnswerer) Answer(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, answerTimeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.logger.Warn("gemini generate failed", zap.Error(err))
		return Apology
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Apology
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	if sb.Len() == 0 {
		return Apology
	}
	return sb.String()
}
