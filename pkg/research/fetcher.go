package research

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/nikogura/job-assistant/pkg/htmltext"
)

// maxPageBytes caps how much of a page is read.
const maxPageBytes = 2 << 20

// PageFetcher retrieves the visible text of a web page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (text string, err error)
}

// HTTPFetcher fetches pages over HTTP and strips the markup.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) (fetcher *HTTPFetcher) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	fetcher = &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
	return fetcher
}

// Fetch retrieves a page and returns its text. Any status other than 200 is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, urlStr string) (text string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return text, err
	}

	req.Header.Set("User-Agent", BrowserUserAgent)

	var resp *http.Response
	resp, err = f.Client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return text, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return text, err
	}

	text, err = htmltext.FromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		err = errors.Wrapf(err, "failed to extract text from %s", urlStr)
		return text, err
	}

	return text, err
}
