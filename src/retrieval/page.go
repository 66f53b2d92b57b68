package retrieval

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdevulapally/fakeverifier/src/webclient"
)

const maxPageBytes = 512 * 1024

var (
	datePublishedRe = regexp.MustCompile(`"datePublished"\s*:\s*"([^"]+)"`)
	datetimeAttrRe  = regexp.MustCompile(`datetime="([^"]+)"`)
)

// PageReader fetches pages and strips them down to readable article text.
type PageReader struct {
	httpClient *http.Client
}

func NewPageReader(timeout time.Duration) *PageReader {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &PageReader{httpClient: webclient.NewDefault(timeout)}
}

// Read fetches the URL and extracts title, main text, hostname and a
// guessed publish date. Boilerplate (scripts, nav, asides) is removed
// before the text is collected.
func (p *PageReader) Read(ctx context.Context, pageURL string) (*Source, error) {
	raw, err := p.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	doc.Find("script, style, nav, aside, footer, header, form, iframe, noscript").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && og != "" {
		title = strings.TrimSpace(og)
	}

	body := doc.Find("article").First()
	if body.Length() == 0 {
		body = doc.Find("main").First()
	}
	if body.Length() == 0 {
		body = doc.Find("body").First()
	}
	text := collapseWhitespace(body.Text())

	hostname := ""
	if u, err := url.Parse(pageURL); err == nil {
		hostname = u.Hostname()
	}

	return &Source{
		URL:           pageURL,
		Title:         title,
		Text:          text,
		Publisher:     hostname,
		PublishedTime: GuessPublishedDate(raw),
	}, nil
}

// Title fetches just the page <title>, bounded by a short timeout. Used to
// backfill source titles; failures return an empty string.
func (p *PageReader) Title(ctx context.Context, pageURL string) string {
	ctx, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	raw, err := p.fetch(ctx, pageURL)
	if err != nil {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func (p *PageReader) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	webclient.SetDefaultHeaders(req)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// GuessPublishedDate scans raw HTML for a datePublished JSON-LD field or a
// datetime attribute. Returns an empty string when nothing matches; it
// never fails.
func GuessPublishedDate(rawHTML string) string {
	if m := datePublishedRe.FindStringSubmatch(rawHTML); len(m) == 2 {
		return m[1]
	}
	if m := datetimeAttrRe.FindStringSubmatch(rawHTML); len(m) == 2 {
		return m[1]
	}
	return ""
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
