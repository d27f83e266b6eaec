// Package sources fetches readable previews of url-type report
// sources. Fetched pages are cached and concurrent requests for the
// same URL are collapsed.
package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"unicode"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/sync/singleflight"
)

// maxExcerptLength bounds the excerpt served alongside the full text.
const maxExcerptLength = 280

// Preview is the readable rendition of a source URL.
type Preview struct {
	URL     string `json:"url"`
	Excerpt string `json:"excerpt"`
	Text    string `json:"text"`
}

// Fetcher fetches and caches source previews.
type Fetcher struct {
	client *http.Client

	cache   map[string]*Preview
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewFetcher creates a Fetcher. A nil client falls back to
// http.DefaultClient.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client: client,
		cache:  make(map[string]*Preview),
	}
}

// Fetch returns the readable preview of the URL, extracting the main
// article text from HTML pages.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Preview, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}
	key := parsed.String()

	f.cacheMu.RLock()
	if cached, ok := f.cache[key]; ok {
		f.cacheMu.RUnlock()
		return cached, nil
	}
	f.cacheMu.RUnlock()

	result, err, _ := f.group.Do(key, func() (any, error) {
		f.cacheMu.RLock()
		if cached, ok := f.cache[key]; ok {
			f.cacheMu.RUnlock()
			return cached, nil
		}
		f.cacheMu.RUnlock()

		preview, err := f.fetch(ctx, parsed)
		if err != nil {
			return nil, err
		}

		f.cacheMu.Lock()
		f.cache[key] = preview
		f.cacheMu.Unlock()

		return preview, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Preview), nil
}

func (f *Fetcher) fetch(ctx context.Context, u *url.URL) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	article, err := readability.FromReader(resp.Body, u)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return nil, fmt.Errorf("failed to render article text: %w", err)
	}

	text := strings.TrimSpace(builder.String())
	return &Preview{
		URL:     u.String(),
		Excerpt: excerptOf(text),
		Text:    text,
	}, nil
}

func excerptOf(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if len(collapsed) <= maxExcerptLength {
		return collapsed
	}

	cut := collapsed[:maxExcerptLength]
	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
