package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider wraps the official genai SDK, the same client family the
// embedding engine already uses for vector generation.
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider builds a provider around a fresh genai client.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", ErrAuth)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Complete(ctx context.Context, req Request) (string, Usage, error) {
	contents := []*genai.Content{genai.NewContentFromText(req.UserPrompt, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		Temperature: &req.Temperature,
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if strings.TrimSpace(req.SystemPrompt) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", Usage{}, fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", Usage{}, fmt.Errorf("%w: no candidates returned", ErrInvalidOutput)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", Usage{}, fmt.Errorf("%w: empty text", ErrInvalidOutput)
	}

	usage := Usage{}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return strings.TrimSpace(text), usage, nil
}
