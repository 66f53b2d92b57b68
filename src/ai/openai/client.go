package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdevulapally/fakeverifier/src/ai/core"
	"github.com/pdevulapally/fakeverifier/src/webclient"
)

const (
	defaultEndpoint  = "https://api.openai.com/v1/chat/completions"
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 2048
)

type client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	defaults   core.Options
}

func init() {
	core.RegisterProvider("openai", func(cfg core.FactoryConfig) (core.Client, error) {
		return NewClient(cfg)
	}, "gpt", "gpt-4o")
}

// NewClient constructs an OpenAI-backed implementation of core.Client.
func NewClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}
	endpoint := defaultEndpoint
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/v1/chat/completions"
	}
	return &client{
		apiKey:     cfg.OpenAIKey,
		endpoint:   endpoint,
		httpClient: webclient.NewDefault(60 * time.Second),
		defaults: core.Options{
			Model:        valueOrDefault(cfg.Model, defaultModel),
			Temperature:  orFloat(cfg.Temperature, 0.2),
			MaxTokens:    orInt(cfg.MaxTokens, defaultMaxTokens),
			SystemPrompt: cfg.SystemPrompt,
		},
	}, nil
}

func (c *client) Complete(ctx context.Context, input string, opts core.Options) (*core.Result, error) {
	merged := c.merge(opts)
	resp, err := c.invoke(ctx, merged, input, nil)
	if err != nil {
		return nil, err
	}
	return &core.Result{Text: resp}, nil
}

func (c *client) CompleteJSON(ctx context.Context, input string, schema map[string]interface{}, opts core.Options) ([]byte, error) {
	merged := c.merge(opts)
	resp, err := c.invoke(ctx, merged, input, schema)
	if err != nil {
		return nil, err
	}
	return []byte(resp), nil
}

func (c *client) invoke(ctx context.Context, opts core.Options, input string, schema map[string]interface{}) (string, error) {
	messages := []map[string]interface{}{}
	if opts.SystemPrompt != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": opts.SystemPrompt,
		})
	}
	messages = append(messages, userMessage(input, opts.Images))

	body := map[string]interface{}{
		"model":       opts.Model,
		"messages":    messages,
		"temperature": opts.Temperature,
		"max_tokens":  orInt(opts.MaxTokens, defaultMaxTokens),
	}
	if schema != nil {
		body["response_format"] = map[string]interface{}{
			"type": "json_schema",
			"json_schema": map[string]interface{}{
				"name":   "response",
				"strict": true,
				"schema": schema,
			},
		}
	}

	var result chatResponse
	err := webclient.PostJSON(ctx, c.httpClient, c.endpoint, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, body, &result)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai: empty response")
	}
	return result.Choices[0].Message.Content, nil
}

// userMessage builds the user turn; image payloads become image_url parts.
func userMessage(input string, images []string) map[string]interface{} {
	if len(images) == 0 {
		return map[string]interface{}{"role": "user", "content": input}
	}
	parts := []map[string]interface{}{
		{"type": "text", "text": input},
	}
	for _, img := range images {
		url := img
		if !strings.HasPrefix(img, "data:") {
			url = "data:image/jpeg;base64," + img
		}
		parts = append(parts, map[string]interface{}{
			"type":      "image_url",
			"image_url": map[string]string{"url": url},
		})
	}
	return map[string]interface{}{"role": "user", "content": parts}
}

func (c *client) merge(opts core.Options) core.Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxTokens != 0 {
		out.MaxTokens = opts.MaxTokens
	}
	if opts.SystemPrompt != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	if len(opts.Images) > 0 {
		out.Images = opts.Images
	}
	return out
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func valueOrDefault(val, def string) string {
	if strings.TrimSpace(val) != "" {
		return val
	}
	return def
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orFloat(v, def float64) float64 {
	if v != 0 {
		return v
	}
	return def
}
