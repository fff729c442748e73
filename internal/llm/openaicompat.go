package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAICompatProvider speaks the OpenAI chat-completions wire format, which
// OpenAI itself, xAI, OpenRouter, and most local inference servers share.
// baseURL and an optional set of extra headers are what distinguish one
// deployment from another.
type OpenAICompatProvider struct {
	name       string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	extraHdr   map[string]string
}

// NewOpenAICompatProvider builds a provider for any OpenAI-wire-compatible
// endpoint. name is used only for logging/classification.
func NewOpenAICompatProvider(name, apiKey, baseURL string, timeout time.Duration, extraHeaders map[string]string) *OpenAICompatProvider {
	return &OpenAICompatProvider{
		name:       name,
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		extraHdr:   extraHeaders,
	}
}

func (p *OpenAICompatProvider) Name() string { return p.name }

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAICompatProvider) Complete(ctx context.Context, req Request) (string, Usage, error) {
	if p.apiKey == "" {
		return "", Usage{}, fmt.Errorf("%w: no API key configured", ErrAuth)
	}

	system := req.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = "Respond concisely and ground answers only in the supplied content."
	}

	body := openAIRequest{
		Model: req.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: req.UserPrompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", Usage{}, fmt.Errorf("%s: marshal request: %w", p.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", Usage{}, fmt.Errorf("%s: build request: %w", p.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	for k, v := range p.extraHdr {
		httpReq.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", Usage{}, fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Usage{}, fmt.Errorf("%s: read response: %w", p.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", Usage{}, Classify(&HTTPStatusError{Provider: p.name, StatusCode: resp.StatusCode, Body: string(respBody)})
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", Usage{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if parsed.Error != nil {
		return "", Usage{}, fmt.Errorf("%w: %s", ErrProviderDown, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", Usage{}, fmt.Errorf("%w: no choices returned", ErrInvalidOutput)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), Usage{
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
	}, nil
}
