// Package research builds company profiles from web search results.
package research

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

const (
	// DefaultSearchEndpoint is DuckDuckGo's no-javascript results page.
	DefaultSearchEndpoint = "https://html.duckduckgo.com/html/"
	// BrowserUserAgent is sent with every outbound request; many sites refuse obvious bots.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	// DefaultTimeout bounds each outbound request.
	DefaultTimeout = 10 * time.Second
)

// SearchResult is one web search hit.
type SearchResult struct {
	URL   string
	Title string
}

// Searcher runs a web search.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (results []SearchResult, err error)
}

// DuckDuckGo searches via the HTML results page.
type DuckDuckGo struct {
	Endpoint string
	Client   *http.Client
}

// NewDuckDuckGo creates a searcher against the public endpoint.
func NewDuckDuckGo(timeout time.Duration) (searcher *DuckDuckGo) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	searcher = &DuckDuckGo{
		Endpoint: DefaultSearchEndpoint,
		Client:   &http.Client{Timeout: timeout},
	}
	return searcher
}

// Search returns up to limit organic results.
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) (results []SearchResult, err error) {
	form := url.Values{"q": {query}}

	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		err = errors.Wrap(err, "failed to create search request")
		return results, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", BrowserUserAgent)

	var resp *http.Response
	resp, err = d.Client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "search request failed")
		return results, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("search failed with status: %d", resp.StatusCode)
		return results, err
	}

	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to parse search results")
		return results, err
	}

	results = ParseResults(doc, limit)

	return results, err
}

// ParseResults reads result links from a DuckDuckGo HTML page. Ads are skipped.
func ParseResults(doc *goquery.Document, limit int) (results []SearchResult) {
	results = []SearchResult{}
	seen := map[string]bool{}

	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if limit > 0 && len(results) >= limit {
			return false
		}
		if s.HasClass("result--ad") {
			return true
		}

		link := s.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}

		target := UnwrapRedirect(href)
		if target == "" || seen[target] {
			return true
		}
		seen[target] = true

		results = append(results, SearchResult{
			URL:   target,
			Title: strings.TrimSpace(link.Text()),
		})
		return true
	})

	return results
}

// UnwrapRedirect turns a DuckDuckGo redirect link into its destination.
// Links that are already absolute http(s) URLs are returned unchanged.
func UnwrapRedirect(href string) (target string) {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return target
	}

	if uddg := u.Query().Get("uddg"); uddg != "" {
		u, err = url.Parse(uddg)
		if err != nil {
			return target
		}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return target
	}

	target = u.String()

	return target
}
