package crawler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/config"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrPageUnavailable marks a page given up on after the retry ceiling.
var ErrPageUnavailable = errors.New("page unavailable after retries")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher is the shared paced HTTP layer of every site adapter. It enforces
// one request per RequestDelay across all callers of the same site, times out
// each request, and retries transient failures (network errors, 5xx) with
// exponential backoff up to MaxRetries.
type Fetcher struct {
	httpClient HTTPClient
	limiter    *rate.Limiter
	maxRetries int
	userAgent  string
	backoff    time.Duration
}

func NewFetcher(cfg config.CrawlerConfig) *Fetcher {

	interval := rate.Inf
	if cfg.RequestDelay > 0 {
		interval = rate.Every(cfg.RequestDelay)
	}

	return &Fetcher{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(interval, 1),
		maxRetries: cfg.MaxRetries,
		userAgent:  cfg.UserAgent,
		backoff:    time.Second,
	}
}

func (f *Fetcher) SetHTTPClient(client HTTPClient) {
	f.httpClient = client
}

// SetBackoff shortens the retry delay; tests use it to avoid real sleeps.
func (f *Fetcher) SetBackoff(d time.Duration) {
	f.backoff = d
}

// Document fetches one listing page as a parsed HTML document.
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {

	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {

		if attempt > 0 {
			delay := f.backoff * (1 << (attempt - 1))
			log.Debugf("retrying %v in %v (attempt %d/%d)", url, delay, attempt, f.maxRetries)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		doc, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return doc, nil
		}

		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, errors.Wrapf(ErrPageUnavailable, "%v: %v", url, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*goquery.Document, bool, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("request failed with status %v", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("request failed with status %v", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("error parsing document: %v", err)
	}

	return doc, false, nil
}
