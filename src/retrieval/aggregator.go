package retrieval

import (
	"context"
	"log"
	"strings"
	"sync"
)

const maxCorpusSources = 8

// Aggregator selects a fetcher set by plan tier and merges the results
// into one deduplicated source list.
type Aggregator struct {
	primary   WebSearcher
	secondary WebSearcher
	news      *NewsFetcher
	live      *LiveFeeds
	reader    *PageReader
}

func NewAggregator(primary, secondary WebSearcher, news *NewsFetcher, live *LiveFeeds, reader *PageReader) *Aggregator {
	return &Aggregator{
		primary:   primary,
		secondary: secondary,
		news:      news,
		live:      live,
		reader:    reader,
	}
}

// Retrieve builds the evidence corpus for up to three claims. Paid tiers
// get no corpus from this stage: their judge agent runs its own web search
// and a second search here would just duplicate the cost.
func (a *Aggregator) Retrieve(ctx context.Context, claims []string, tier string) []Source {
	switch strings.ToLower(tier) {
	case "pro", "enterprise":
		return nil
	}

	if len(claims) > 3 {
		claims = claims[:3]
	}
	query := strings.Join(claims, " ")
	if strings.TrimSpace(query) == "" {
		return nil
	}

	results := a.search(ctx, query)
	if len(results) == 0 {
		return nil
	}

	return a.readPages(ctx, results)
}

// search tries the primary provider, falling back to the secondary on
// error or an empty result set.
func (a *Aggregator) search(ctx context.Context, query string) []Source {
	if a.primary != nil {
		results, err := a.primary.Search(ctx, query, maxCorpusSources)
		if err == nil && len(results) > 0 {
			return results
		}
		if err != nil {
			log.Printf("primary search failed: %v, trying secondary", err)
		}
	}
	if a.secondary == nil {
		return nil
	}
	results, err := a.secondary.Search(ctx, query, maxCorpusSources)
	if err != nil {
		log.Printf("secondary search failed: %v", err)
		return nil
	}
	return results
}

// readPages fetches each result page concurrently and swaps in the
// extracted article content. A page that cannot be read keeps its search
// snippet; fetch failures are logged and never abort the batch.
func (a *Aggregator) readPages(ctx context.Context, results []Source) []Source {
	out := make([]Source, len(results))
	var wg sync.WaitGroup
	for i, src := range results {
		out[i] = src
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			page, err := a.reader.Read(ctx, src.URL)
			if err != nil {
				log.Printf("read page %s: %v", src.URL, err)
				return
			}
			if page.Title != "" {
				out[i].Title = page.Title
			}
			if page.Text != "" {
				out[i].Text = page.Text
			}
			out[i].Publisher = page.Publisher
			if page.PublishedTime != "" {
				out[i].PublishedTime = page.PublishedTime
			}
		}(i, src)
	}
	wg.Wait()
	return Merge(out)
}

// LiveNews merges breaking coverage from the news API and the wire feeds,
// both fetched concurrently. Either side failing degrades to whatever the
// other returned.
func (a *Aggregator) LiveNews(ctx context.Context, query string) []Source {
	var (
		apiSources  []Source
		feedSources []Source
		wg          sync.WaitGroup
	)

	if a.news != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sources, err := a.news.Search(ctx, query, 5)
			if err != nil {
				log.Printf("news api: %v", err)
				return
			}
			apiSources = sources
		}()
	}
	if a.live != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feedSources = a.live.Fetch(ctx)
		}()
	}
	wg.Wait()

	return Merge(apiSources, feedSources)
}
