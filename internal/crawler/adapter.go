package crawler

import "context"

// RawPosting is a site-shaped posting record before normalization. Fields are
// carried as the site presented them; the normalizer owns canonicalization.
type RawPosting struct {
	Source         string
	SourceID       string
	Company        string
	Title          string
	Location       string
	ExperienceText string
	DeadlineText   string
	Description    string
	URL            string
}

// FetchResult is the outcome of one full crawl of a site. PagesSkipped and
// ItemsDropped feed the crawl-quality accounting: individual failures never
// abort the crawl, they are counted here instead.
type FetchResult struct {
	Postings     []RawPosting
	PagesFetched int
	PagesSkipped int
	ItemsDropped int
}

// DropRate is the fraction of raw items that failed to parse this run.
func (r *FetchResult) DropRate() float64 {
	total := len(r.Postings) + r.ItemsDropped
	if total == 0 {
		return 0
	}
	return float64(r.ItemsDropped) / float64(total)
}

// SiteAdapter fetches paginated listing pages for one source. Each call to
// FetchPostings restarts from page 1. An error is returned only when the
// crawl produced nothing usable; partial page failures are reported through
// FetchResult counters.
type SiteAdapter interface {
	Source() string
	FetchPostings(ctx context.Context) (*FetchResult, error)
}
