package services

import (
	"context"
	"testing"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/config"
	"github.com/GeonYul2/Recruitment-Auto/internal/crawler"
	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/GeonYul2/Recruitment-Auto/internal/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	source string
	result *crawler.FetchResult
	err    error
}

func (f fakeAdapter) Source() string { return f.source }

func (f fakeAdapter) FetchPostings(ctx context.Context) (*crawler.FetchResult, error) {
	return f.result, f.err
}

type recordingReconciler struct {
	sources  []string
	postings map[string][]entities.Posting
}

func newRecordingReconciler() *recordingReconciler {
	return &recordingReconciler{postings: make(map[string][]entities.Posting)}
}

func (r *recordingReconciler) Reconcile(ctx context.Context, source string,
	current []entities.Posting, now time.Time) (entities.Diff, error) {

	r.sources = append(r.sources, source)
	r.postings[source] = current
	return entities.Diff{New: current}, nil
}

func testFilterConfig() config.FilterConfig {
	return config.FilterConfig{
		EntryKeywords:        []string{"신입", "entry", "junior"},
		NoExperienceKeywords: []string{"경력무관", "무관"},
		InternshipKeywords:   []string{"인턴", "intern"},
	}
}

func rawItem(company, title string) crawler.RawPosting {
	return crawler.RawPosting{
		Source:         "saramin",
		Company:        company,
		Title:          title,
		Location:       "서울",
		ExperienceText: "신입",
		URL:            "https://example.com/" + title,
	}
}

func Test_CrawlService_ReconcilesEachSource(t *testing.T) {

	reconciler := newRecordingReconciler()
	service := NewCrawlService([]crawler.SiteAdapter{
		fakeAdapter{source: "saramin", result: &crawler.FetchResult{
			Postings:     []crawler.RawPosting{rawItem("카카오", "데이터 분석가")},
			PagesFetched: 1,
		}},
	}, testFilterConfig(), reconciler, 0.3)

	summaries, err := service.Run(context.Background())

	require.NoError(t, err)
	require.Contains(t, summaries, "saramin")
	assert.Equal(t, 1, summaries["saramin"].New)
	require.Len(t, reconciler.postings["saramin"], 1)
	assert.Equal(t, entities.ExperienceEntry, reconciler.postings["saramin"][0].Experience)
}

func Test_CrawlService_FailedSiteSkipsReconciliation(t *testing.T) {

	reconciler := newRecordingReconciler()
	service := NewCrawlService([]crawler.SiteAdapter{
		fakeAdapter{source: "saramin", err: errors.New("all pages unavailable")},
		fakeAdapter{source: "inthiswork", result: &crawler.FetchResult{
			Postings:     []crawler.RawPosting{rawItem("무신사", "백엔드 개발자 신입")},
			PagesFetched: 1,
		}},
	}, testFilterConfig(), reconciler, 0.3)

	summaries, err := service.Run(context.Background())

	require.NoError(t, err, "one failed site must not fail the run")
	assert.NotContains(t, summaries, "saramin")
	assert.Contains(t, summaries, "inthiswork")
	assert.Equal(t, []string{"inthiswork"}, reconciler.sources)
}

func Test_CrawlService_FilteredItemsExcludedFromStore(t *testing.T) {

	senior := rawItem("토스", "서버 개발자")
	senior.ExperienceText = "경력 5년 이상"

	reconciler := newRecordingReconciler()
	service := NewCrawlService([]crawler.SiteAdapter{
		fakeAdapter{source: "saramin", result: &crawler.FetchResult{
			Postings:     []crawler.RawPosting{rawItem("카카오", "데이터 분석가"), senior},
			PagesFetched: 1,
		}},
	}, testFilterConfig(), reconciler, 0.3)

	_, err := service.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, reconciler.postings["saramin"], 1)
	assert.Equal(t, "카카오", reconciler.postings["saramin"][0].Company)
}

func Test_CrawlService_CountsPagesAndDropsOnce(t *testing.T) {

	fetchedBefore := testutil.ToFloat64(metrics.FetchedPagesCounter.WithLabelValues("saramin"))
	skippedBefore := testutil.ToFloat64(metrics.SkippedPagesCounter.WithLabelValues("saramin"))
	droppedBefore := testutil.ToFloat64(metrics.DroppedItemsCounter.WithLabelValues("saramin"))

	service := NewCrawlService([]crawler.SiteAdapter{
		fakeAdapter{source: "saramin", result: &crawler.FetchResult{
			Postings:     []crawler.RawPosting{rawItem("카카오", "데이터 분석가")},
			PagesFetched: 3,
			PagesSkipped: 1,
			ItemsDropped: 2,
		}},
	}, testFilterConfig(), newRecordingReconciler(), 0.9)

	_, err := service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.FetchedPagesCounter.WithLabelValues("saramin"))-fetchedBefore)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SkippedPagesCounter.WithLabelValues("saramin"))-skippedBefore)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.DroppedItemsCounter.WithLabelValues("saramin"))-droppedBefore)
}

func Test_CrawlService_NoAdaptersFails(t *testing.T) {

	service := NewCrawlService(nil, testFilterConfig(), newRecordingReconciler(), 0.3)

	_, err := service.Run(context.Background())
	assert.Error(t, err)
}
