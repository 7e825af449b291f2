package services

import (
	"context"
	"sync"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/config"
	"github.com/GeonYul2/Recruitment-Auto/internal/crawler"
	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/GeonYul2/Recruitment-Auto/internal/logger"
	"github.com/GeonYul2/Recruitment-Auto/internal/metrics"
	"github.com/GeonYul2/Recruitment-Auto/internal/normalizer"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type postingReconciler interface {
	Reconcile(ctx context.Context, source string, current []entities.Posting, now time.Time) (entities.Diff, error)
}

// CrawlService runs every registered site adapter, normalizes the raw
// postings and reconciles each source against the store. Sites are fetched
// in parallel; reconciliation stays serialized so each source commits as one
// transaction against a quiet store.
type CrawlService struct {
	adapters             []crawler.SiteAdapter
	normalizer           *normalizer.Normalizer
	postings             postingReconciler
	dropWarningThreshold float64
}

func NewCrawlService(adapters []crawler.SiteAdapter, filter config.FilterConfig,
	postings postingReconciler, dropWarningThreshold float64) *CrawlService {

	return &CrawlService{
		adapters:             adapters,
		normalizer:           normalizer.New(filter),
		postings:             postings,
		dropWarningThreshold: dropWarningThreshold,
	}
}

type siteResult struct {
	source   string
	postings []entities.Posting
}

// Run returns the reconciliation summary per source. A source whose crawl
// failed entirely is absent from the result: its stored postings keep their
// status until the next successful run.
func (s *CrawlService) Run(ctx context.Context) (map[string]entities.DiffSummary, error) {

	if len(s.adapters) == 0 {
		return nil, errors.New("no site adapters registered")
	}

	start := time.Now()
	log.Infof("starting crawl of %v sites", len(s.adapters))

	var mu sync.Mutex
	results := make([]siteResult, 0, len(s.adapters))

	group, groupCtx := errgroup.WithContext(ctx)
	for _, adapter := range s.adapters {
		adapter := adapter
		group.Go(func() error {
			postings, ok := s.crawlSite(groupCtx, adapter)
			if ok {
				mu.Lock()
				results = append(results, siteResult{source: adapter.Source(), postings: postings})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	summaries := make(map[string]entities.DiffSummary, len(results))
	now := time.Now().UTC()
	for _, result := range results {

		diff, err := s.postings.Reconcile(ctx, result.source, result.postings, now)
		if err != nil {
			return nil, errors.Wrapf(err, "reconciliation failed for %v", result.source)
		}

		summary := diff.Summary()
		summaries[result.source] = summary
		log.Infof("%v: %v new, %v updated, %v reopened, %v closed",
			result.source, summary.New, summary.Updated, summary.Reopened, summary.Closed)
	}

	metrics.CrawlDuration.Observe(time.Since(start).Seconds())
	log.Infof("crawl finished after %v", time.Since(start))
	return summaries, nil
}

// crawlSite reports ok=false when the site produced nothing usable; the
// source is then left out of reconciliation for this run.
func (s *CrawlService) crawlSite(ctx context.Context, adapter crawler.SiteAdapter) ([]entities.Posting, bool) {

	source := adapter.Source()

	result, err := adapter.FetchPostings(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSite).
			Errorf("crawl failed for %v: %v", source, err)
		return nil, false
	}

	metrics.FetchedPagesCounter.WithLabelValues(source).Add(float64(result.PagesFetched))
	metrics.SkippedPagesCounter.WithLabelValues(source).Add(float64(result.PagesSkipped))

	now := time.Now().UTC()
	dropped := result.ItemsDropped
	postings := make([]entities.Posting, 0, len(result.Postings))

	for _, raw := range result.Postings {
		posting, err := s.normalizer.Normalize(raw, now)
		if err != nil {
			if !errors.Is(err, normalizer.ErrFiltered) {
				dropped++
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeParse).
					Errorf("dropped item from %v: %v", source, err)
			}
			continue
		}
		postings = append(postings, posting)
	}

	metrics.CollectedPostingsCounter.WithLabelValues(source).Add(float64(len(postings)))
	metrics.DroppedItemsCounter.WithLabelValues(source).Add(float64(dropped))

	totalRaw := len(result.Postings) + result.ItemsDropped
	if rate := dropRate(dropped, totalRaw); rate > s.dropWarningThreshold {
		log.Warnf("crawl quality degraded for %v: %.0f%% of raw items dropped, selectors may be stale",
			source, rate*100)
	}

	log.Infof("%v: collected %v postings from %v pages (%v skipped, %v dropped)",
		source, len(postings), result.PagesFetched, result.PagesSkipped, dropped)
	return postings, true
}

func dropRate(dropped, totalRaw int) float64 {
	if totalRaw == 0 {
		return 0
	}
	return float64(dropped) / float64(totalRaw)
}
