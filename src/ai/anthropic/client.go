package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdevulapally/fakeverifier/src/ai/core"
	"github.com/pdevulapally/fakeverifier/src/webclient"
)

const (
	defaultEndpoint  = "https://api.anthropic.com/v1/messages"
	defaultModel     = "claude-3-5-sonnet-latest"
	defaultMaxTokens = 2048
)

type client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	defaults   core.Options
}

func init() {
	core.RegisterProvider("anthropic", func(cfg core.FactoryConfig) (core.Client, error) {
		return NewClient(cfg)
	}, "claude")
}

// NewClient constructs an Anthropic-backed implementation of core.Client.
func NewClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.ClaudeKey == "" {
		return nil, fmt.Errorf("anthropic: API key not configured")
	}
	endpoint := defaultEndpoint
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/v1/messages"
	}
	return &client{
		apiKey:     cfg.ClaudeKey,
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
	text, err := c.invoke(ctx, merged, input)
	if err != nil {
		return nil, err
	}
	return &core.Result{Text: text}, nil
}

// CompleteJSON asks for schema-shaped output via the system prompt. The
// Anthropic messages API has no response_format parameter, so the schema is
// embedded as an instruction and the reply is trimmed to its JSON body.
func (c *client) CompleteJSON(ctx context.Context, input string, schema map[string]interface{}, opts core.Options) ([]byte, error) {
	merged := c.merge(opts)
	schemaBytes, _ := json.Marshal(schema)
	merged.SystemPrompt = strings.TrimSpace(merged.SystemPrompt +
		"\n\nRespond with a single JSON object matching this JSON schema, with no surrounding text:\n" + string(schemaBytes))
	text, err := c.invoke(ctx, merged, input)
	if err != nil {
		return nil, err
	}
	return []byte(extractJSON(text)), nil
}

func (c *client) invoke(ctx context.Context, opts core.Options, input string) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	content := []map[string]interface{}{
		{"type": "text", "text": input},
	}
	for _, img := range opts.Images {
		content = append(content, map[string]interface{}{
			"type": "image",
			"source": map[string]string{
				"type":       "base64",
				"media_type": "image/jpeg",
				"data":       strings.TrimPrefix(img, "data:image/jpeg;base64,"),
			},
		})
	}

	body := map[string]interface{}{
		"model":       opts.Model,
		"system":      opts.SystemPrompt,
		"max_tokens":  maxTokens,
		"temperature": opts.Temperature,
		"messages": []map[string]interface{}{
			{"role": "user", "content": content},
		},
	}

	var result anthropicResponse
	err := webclient.PostJSON(ctx, c.httpClient, c.endpoint, map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": "2023-06-01",
	}, body, &result)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	text := extractText(result.Content)
	if text == "" {
		return "", fmt.Errorf("anthropic: empty response")
	}
	return text, nil
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

func extractText(chunks []anthropicContent) string {
	var b strings.Builder
	for _, chunk := range chunks {
		if chunk.Text != "" {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(chunk.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

// extractJSON trims any prose the model wrapped around the JSON object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
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
