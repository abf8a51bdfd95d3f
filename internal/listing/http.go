package listing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// Listing links live in table cells (Nexus, Apache fancy index) or a pre block (Apache plain index)
const (
	containerSelector = "td,pre"
	anchorSelector    = "a"
)

// HTTPLister implements Lister by fetching listing pages over HTTP
type HTTPLister struct {
	client    *http.Client
	userAgent string
	cache     *lru.Cache[string, []Entry]
}

// NewHTTPLister creates a lister. cacheSize 0 disables page caching.
func NewHTTPLister(client *http.Client, userAgent string, cacheSize int) (*HTTPLister, error) {
	if client == nil {
		client = http.DefaultClient
	}

	l := &HTTPLister{
		client:    client,
		userAgent: userAgent,
	}

	if cacheSize > 0 {
		cache, err := lru.New[string, []Entry](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create listing cache: %w", err)
		}
		l.cache = cache
	}

	return l, nil
}

// List fetches a listing page and returns its links
func (l *HTTPLister) List(ctx context.Context, pageURL string) ([]Entry, error) {
	if l.cache != nil {
		if entries, ok := l.cache.Get(pageURL); ok {
			logrus.Debugf("Listing cache hit: %s", pageURL)
			return entries, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	entries := Parse(doc, pageURL)
	logrus.Debugf("Found %d links on %s", len(entries), pageURL)

	if l.cache != nil {
		l.cache.Add(pageURL, entries)
	}

	return entries, nil
}

// Parse extracts the links of a parsed listing page
func Parse(doc *goquery.Document, pageURL string) []Entry {
	entries := make([]Entry, 0, 32)

	doc.Find(containerSelector).Find(anchorSelector).Each(func(i int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}
		entries = append(entries, Entry{
			Href: href,
			URL:  Resolve(pageURL, href),
		})
	})

	return entries
}
