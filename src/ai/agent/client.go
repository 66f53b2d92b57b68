// Package agent drives the OpenAI Responses API with the built-in
// web_search tool, letting the model gather its own evidence before it
// answers. Paid tiers judge through this path instead of the local
// retrieval corpus.
package agent

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
	defaultEndpoint  = "https://api.openai.com/v1/responses"
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 4000
)

type client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	defaults   core.Options
}

func init() {
	core.RegisterProvider("agent", func(cfg core.FactoryConfig) (core.Client, error) {
		return NewClient(cfg)
	}, "agent-builder")
}

// NewClient constructs the agent-workflow implementation of core.Client.
func NewClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("agent: API key not configured")
	}
	endpoint := defaultEndpoint
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/v1/responses"
	}
	return &client{
		apiKey:     cfg.OpenAIKey,
		endpoint:   endpoint,
		httpClient: webclient.NewDefault(120 * time.Second),
		defaults: core.Options{
			Model:           valueOrDefault(cfg.Model, defaultModel),
			MaxTokens:       orInt(cfg.MaxTokens, defaultMaxTokens),
			SystemPrompt:    cfg.SystemPrompt,
			EnableWebSearch: true,
		},
	}, nil
}

func (c *client) Complete(ctx context.Context, input string, opts core.Options) (*core.Result, error) {
	merged := c.merge(opts)
	resp, err := c.invoke(ctx, merged, input, nil)
	if err != nil {
		return nil, err
	}
	return &core.Result{Text: resp.text(), Citations: resp.citations()}, nil
}

func (c *client) CompleteJSON(ctx context.Context, input string, schema map[string]interface{}, opts core.Options) ([]byte, error) {
	merged := c.merge(opts)
	resp, err := c.invoke(ctx, merged, input, schema)
	if err != nil {
		return nil, err
	}
	text := resp.text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("agent: empty response")
	}
	return []byte(text), nil
}

func (c *client) invoke(ctx context.Context, opts core.Options, input string, schema map[string]interface{}) (*responseOutput, error) {
	if opts.SystemPrompt != "" {
		input = opts.SystemPrompt + "\n\n" + input
	}

	body := map[string]interface{}{
		"model":             opts.Model,
		"input":             input,
		"max_output_tokens": orInt(opts.MaxTokens, defaultMaxTokens),
	}
	if opts.EnableWebSearch {
		body["tools"] = []map[string]interface{}{{"type": "web_search"}}
		body["tool_choice"] = "auto"
	}
	if schema != nil {
		body["text"] = map[string]interface{}{
			"format": map[string]interface{}{
				"type":   "json_schema",
				"name":   "response",
				"strict": true,
				"schema": schema,
			},
		}
	}

	var result responseOutput
	err := webclient.PostJSON(ctx, c.httpClient, c.endpoint, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, body, &result)
	if err != nil {
		return nil, fmt.Errorf("agent API error: %w", err)
	}
	return &result, nil
}

func (c *client) merge(opts core.Options) core.Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.MaxTokens != 0 {
		out.MaxTokens = opts.MaxTokens
	}
	if opts.SystemPrompt != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	return out
}

type responseOutput struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role"`
		Content []struct {
			Type        string `json:"type"`
			Text        string `json:"text"`
			Annotations []struct {
				Type  string `json:"type"`
				Title string `json:"title"`
				URL   string `json:"url"`
			} `json:"annotations,omitempty"`
		} `json:"content"`
	} `json:"output"`
}

func (r *responseOutput) text() string {
	for _, item := range r.Output {
		for _, content := range item.Content {
			if content.Type == "output_text" {
				return content.Text
			}
		}
	}
	return ""
}

func (r *responseOutput) citations() []string {
	seen := make(map[string]bool)
	var citations []string
	for _, item := range r.Output {
		for _, content := range item.Content {
			for _, ann := range content.Annotations {
				if ann.Type == "url_citation" && ann.URL != "" && !seen[ann.URL] {
					seen[ann.URL] = true
					citations = append(citations, ann.URL)
				}
			}
		}
	}
	return citations
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
