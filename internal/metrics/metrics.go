package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruitment_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	FetchedPagesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruitment_fetched_pages_total",
			Help: "Total number of listing pages fetched per site.",
		},
		[]string{"site"},
	)
	SkippedPagesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruitment_skipped_pages_total",
			Help: "Total number of listing pages skipped after exhausted retries.",
		},
		[]string{"site"},
	)
	CollectedPostingsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruitment_collected_postings_total",
			Help: "Total number of postings that survived normalization.",
		},
		[]string{"site"},
	)
	DroppedItemsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruitment_dropped_items_total",
			Help: "Total number of raw items dropped during parsing or normalization.",
		},
		[]string{"site"},
	)
	EmittedMatchesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recruitment_emitted_matches_total",
			Help: "Total number of match records delivered to profiles.",
		},
	)
	CrawlDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recruitment_crawl_duration_seconds",
			Help:    "Duration of each full crawl run in seconds.",
			Buckets: []float64{30, 60, 300, 900, 1800},
		},
	)
)

func register() {
	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(FetchedPagesCounter)
	prometheus.MustRegister(SkippedPagesCounter)
	prometheus.MustRegister(CollectedPostingsCounter)
	prometheus.MustRegister(DroppedItemsCounter)
	prometheus.MustRegister(EmittedMatchesCounter)
	prometheus.MustRegister(CrawlDuration)
}

// StartMetricsServer exposes /metrics when an address is configured. The
// scheduled batch mode is the only caller; one-shot commands skip it.
func StartMetricsServer(address string) {

	register()

	if address == "" {
		return
	}

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(address, nil))
	}()
}
