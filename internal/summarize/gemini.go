// Package summarize condenses market snapshots into short natural-language
// recaps using the Gemini API.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/avelichko/foliobot/internal/domain"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

const promptTemplate = `You are a crypto market analyst. Write a concise daily market summary in at most 120 words based on the data below. Mention the overall direction, the standout movers, and anything notable about market dominance. Plain text only, no markdown.

%s`

// Gemini implements domain.Summarizer on top of the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// New creates a Gemini summarizer. An empty model selects DefaultModel.
func New(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Summarize turns a market snapshot into a short analyst-style recap.
func (g *Gemini) Summarize(ctx context.Context, snapshot string) (string, error) {
	prompt := fmt.Sprintf(promptTemplate, snapshot)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("summarize: generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("summarize: empty model response")
	}
	return text, nil
}

// Compile-time interface check.
var _ domain.Summarizer = (*Gemini)(nil)
