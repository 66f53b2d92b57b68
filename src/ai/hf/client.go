// Package hf wraps a hosted fake-news classification model on the
// Hugging Face inference API. Unlike the chat providers it returns label
// probabilities rather than text, so it is consumed through Classifier
// instead of the core.Client registry.
package hf

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdevulapally/fakeverifier/src/webclient"
)

const (
	defaultEndpoint = "https://api-inference.huggingface.co/models"
	defaultModel    = "hamzab/roberta-fake-news-classification"
)

// Classification is one predicted label with its probability.
type Classification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type Classifier struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewClassifier(apiKey, baseURL, model string) *Classifier {
	if baseURL == "" {
		baseURL = defaultEndpoint
	}
	if model == "" {
		model = defaultModel
	}
	return &Classifier{
		apiKey:     apiKey,
		endpoint:   strings.TrimRight(baseURL, "/") + "/" + model,
		model:      model,
		httpClient: webclient.NewDefault(30 * time.Second),
	}
}

// Model reports the configured model identifier.
func (c *Classifier) Model() string { return c.model }

// Classify posts the claim text and returns label probabilities sorted by
// the API (highest first).
func (c *Classifier) Classify(ctx context.Context, text string) ([]Classification, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("hf: API key not configured")
	}

	payload := map[string]interface{}{
		"inputs":  text,
		"options": map[string]bool{"wait_for_model": true},
	}

	// The inference API nests results one level deep for text classification.
	var result [][]Classification
	err := webclient.PostJSON(ctx, c.httpClient, c.endpoint, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, payload, &result)
	if err != nil {
		return nil, fmt.Errorf("hf API error: %w", err)
	}
	if len(result) == 0 || len(result[0]) == 0 {
		return nil, fmt.Errorf("hf: empty classification response")
	}
	return result[0], nil
}
