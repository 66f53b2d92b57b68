package retrieval

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdevulapally/fakeverifier/src/webclient"
)

const newsAPIEndpoint = "https://newsapi.org/v2/everything"

// defaultLiveFeeds are the wire feeds polled when no override is configured.
var defaultLiveFeeds = []string{
	"https://feeds.bbci.co.uk/news/rss.xml",
	"https://feeds.reuters.com/reuters/topNews",
}

// NewsFetcher queries the news API for recent coverage of a claim.
type NewsFetcher struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewNewsFetcher(apiKey, baseURL string) *NewsFetcher {
	endpoint := newsAPIEndpoint
	if baseURL != "" {
		endpoint = baseURL
	}
	return &NewsFetcher{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: webclient.NewDefault(15 * time.Second),
	}
}

func (n *NewsFetcher) Search(ctx context.Context, query string, max int) ([]Source, error) {
	if n.apiKey == "" {
		return nil, fmt.Errorf("newsapi: API key not configured")
	}
	if max <= 0 {
		max = 5
	}

	u := fmt.Sprintf("%s?q=%s&pageSize=%d&sortBy=publishedAt", n.endpoint, url.QueryEscape(query), max)

	var result struct {
		Articles []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	err := webclient.GetJSON(ctx, n.httpClient, u, map[string]string{
		"X-Api-Key": n.apiKey,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}

	sources := make([]Source, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.URL == "" {
			continue
		}
		sources = append(sources, Source{
			URL:           a.URL,
			Title:         a.Title,
			Text:          a.Description,
			Publisher:     a.Source.Name,
			PublishedTime: a.PublishedAt,
		})
	}
	return sources, nil
}

// LiveFeeds polls RSS wire feeds for breaking coverage.
type LiveFeeds struct {
	urls       []string
	parser     *gofeed.Parser
	httpClient *http.Client
	perFeed    int
}

func NewLiveFeeds(urls []string) *LiveFeeds {
	if len(urls) == 0 {
		urls = defaultLiveFeeds
	}
	return &LiveFeeds{
		urls:       urls,
		parser:     gofeed.NewParser(),
		httpClient: webclient.NewDefault(15 * time.Second),
		perFeed:    5,
	}
}

// Fetch pulls every configured feed concurrently and merges the newest
// items. A failing feed is logged and skipped.
func (l *LiveFeeds) Fetch(ctx context.Context) []Source {
	results := make(chan []Source, len(l.urls))
	var wg sync.WaitGroup

	for _, feedURL := range l.urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			items, err := l.fetchFeed(ctx, u)
			if err != nil {
				log.Printf("live feed %s: %v", u, err)
				return
			}
			results <- items
		}(feedURL)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var lists [][]Source
	for items := range results {
		lists = append(lists, items)
	}
	return Merge(lists...)
}

func (l *LiveFeeds) fetchFeed(ctx context.Context, feedURL string) ([]Source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	webclient.SetDefaultHeaders(req)
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	feed, err := l.parser.Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	max := l.perFeed
	var sources []Source
	for i, item := range feed.Items {
		if i >= max {
			break
		}
		published := ""
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.Format(time.RFC3339)
		}
		sources = append(sources, Source{
			URL:           item.Link,
			Title:         item.Title,
			Text:          item.Description,
			Publisher:     feed.Title,
			PublishedTime: published,
		})
	}
	return sources, nil
}
