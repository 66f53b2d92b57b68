package retrieval

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdevulapally/fakeverifier/src/webclient"
)

const (
	tavilyEndpoint = "https://api.tavily.com/search"
	braveEndpoint  = "https://api.search.brave.com/res/v1/web/search"
)

// WebSearcher finds candidate evidence URLs for a query.
type WebSearcher interface {
	Search(ctx context.Context, query string, max int) ([]Source, error)
}

// TavilySearcher is the primary web-search provider.
type TavilySearcher struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewTavilySearcher(apiKey, baseURL string) *TavilySearcher {
	endpoint := tavilyEndpoint
	if baseURL != "" {
		endpoint = baseURL
	}
	return &TavilySearcher{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: webclient.NewDefault(15 * time.Second),
	}
}

func (t *TavilySearcher) Search(ctx context.Context, query string, max int) ([]Source, error) {
	if t.apiKey == "" {
		return nil, fmt.Errorf("tavily: API key not configured")
	}
	if max <= 0 {
		max = 5
	}

	payload := map[string]interface{}{
		"api_key":        t.apiKey,
		"query":          query,
		"search_depth":   "basic",
		"max_results":    max,
		"include_answer": false,
	}

	var result struct {
		Results []struct {
			URL     string `json:"url"`
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := webclient.PostJSON(ctx, t.httpClient, t.endpoint, nil, payload, &result); err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}

	sources := make([]Source, 0, len(result.Results))
	for _, r := range result.Results {
		if r.URL == "" {
			continue
		}
		sources = append(sources, Source{URL: r.URL, Title: r.Title, Text: r.Content})
	}
	return sources, nil
}

// BraveSearcher is the secondary provider used when the primary fails or
// returns nothing.
type BraveSearcher struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewBraveSearcher(apiKey, baseURL string) *BraveSearcher {
	endpoint := braveEndpoint
	if baseURL != "" {
		endpoint = baseURL
	}
	return &BraveSearcher{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: webclient.NewDefault(15 * time.Second),
	}
}

func (b *BraveSearcher) Search(ctx context.Context, query string, max int) ([]Source, error) {
	if b.apiKey == "" {
		return nil, fmt.Errorf("brave: API key not configured")
	}
	if max <= 0 {
		max = 5
	}

	u := fmt.Sprintf("%s?q=%s&count=%d", b.endpoint, url.QueryEscape(query), max)

	var result struct {
		Web struct {
			Results []struct {
				URL         string `json:"url"`
				Title       string `json:"title"`
				Description string `json:"description"`
				Age         string `json:"age"`
			} `json:"results"`
		} `json:"web"`
	}
	err := webclient.GetJSON(ctx, b.httpClient, u, map[string]string{
		"X-Subscription-Token": b.apiKey,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("brave search: %w", err)
	}

	sources := make([]Source, 0, len(result.Web.Results))
	for _, r := range result.Web.Results {
		if r.URL == "" {
			continue
		}
		sources = append(sources, Source{
			URL:           r.URL,
			Title:         r.Title,
			Text:          r.Description,
			PublishedTime: r.Age,
		})
	}
	return sources, nil
}
