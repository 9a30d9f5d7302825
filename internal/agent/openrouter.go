package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// defaultOpenRouterBaseURL is the default OpenRouter API base URL.
const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// DefaultAPIKeyEnv names the environment variable holding the API key.
const DefaultAPIKeyEnv = "LLM_API_KEY"

// HTTPDoer abstracts HTTP clients used by providers.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProviderSettings configures provider construction.
type ProviderSettings struct {
	Name        string
	Model       string
	BaseURL     string
	APIKeyEnv   string
	Temperature *float64
}

// OpenRouterProvider implements Provider for OpenAI-compatible chat completion APIs.
type OpenRouterProvider struct {
	APIKey      string
	BaseURL     string
	Client      HTTPDoer
	Model       string
	Temperature *float64
}

// ProviderFromEnv builds a provider using environment configuration.
func ProviderFromEnv(provider, model string, client HTTPDoer) (Provider, error) {
	return NewProvider(ProviderSettings{Name: provider, Model: model}, client)
}

// NewProvider builds a provider from settings, filling blanks from the environment.
func NewProvider(settings ProviderSettings, client HTTPDoer) (Provider, error) {
	name := strings.TrimSpace(settings.Name)
	if name == "" {
		name = strings.TrimSpace(os.Getenv("LLM_PROVIDER"))
	}
	if name == "" {
		return nil, fmt.Errorf("provider is required")
	}
	if name != "openrouter" && name != "openai" {
		return nil, fmt.Errorf("unsupported provider %q", name)
	}
	keyEnv := settings.APIKeyEnv
	if keyEnv == "" {
		keyEnv = DefaultAPIKeyEnv
	}
	apiKey := strings.TrimSpace(os.Getenv(keyEnv))
	if apiKey == "" {
		return nil, fmt.Errorf("%s is required", keyEnv)
	}
	baseURL := settings.BaseURL
	if baseURL == "" && name == "openai" {
		baseURL = "https://api.openai.com/v1"
	}
	p, err := NewOpenRouterProvider(settings.Model, apiKey, baseURL, client)
	if err != nil {
		return nil, err
	}
	p.Temperature = settings.Temperature
	return p, nil
}

// FactoryFromSettings returns a ProviderFactory that overrides the model per request.
func FactoryFromSettings(settings ProviderSettings, client HTTPDoer) ProviderFactory {
	return func(model string) (Provider, error) {
		s := settings
		if strings.TrimSpace(model) != "" {
			s.Model = model
		}
		return NewProvider(s, client)
	}
}

// NewOpenRouterProvider constructs an OpenRouter provider with explicit settings.
func NewOpenRouterProvider(model, apiKey, baseURL string, client HTTPDoer) (*OpenRouterProvider, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenRouterProvider{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
		Model:   model,
	}, nil
}

// Stream sends a prompt and returns a stream of events.
func (p *OpenRouterProvider) Stream(ctx context.Context, prompt Prompt) (Stream, error) {
	messages, err := encodeMessages(prompt)
	if err != nil {
		return nil, err
	}
	requestBody := chatRequest{
		Model:       p.Model,
		Stream:      true,
		Messages:    messages,
		Temperature: p.Temperature,
	}
	if len(prompt.Tools) > 0 {
		requestBody.Tools = encodeTools(prompt.Tools)
		requestBody.ToolChoice = "auto"
		parallel := prompt.ParallelToolCalls
		requestBody.ParallelToolCalls = &parallel
	}
	payload, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := p.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	events, err := parseOpenRouterStream(resp.Body)
	if err != nil {
		return nil, err
	}
	return &staticStream{events: events}, nil
}
