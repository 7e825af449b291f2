package cli

import (
	"context"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/clients/github"
	"github.com/GeonYul2/Recruitment-Auto/internal/clients/inthiswork"
	"github.com/GeonYul2/Recruitment-Auto/internal/clients/saramin"
	"github.com/GeonYul2/Recruitment-Auto/internal/config"
	"github.com/GeonYul2/Recruitment-Auto/internal/crawler"
	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/GeonYul2/Recruitment-Auto/internal/export"
	"github.com/GeonYul2/Recruitment-Auto/internal/logger"
	"github.com/GeonYul2/Recruitment-Auto/internal/repositories"
	"github.com/GeonYul2/Recruitment-Auto/internal/services"
	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// application wires configuration, storage, clients and services together
// for the lifetime of one command.
type application struct {
	cfg       *config.Config
	dbContext *repositories.DbContext

	postings *repositories.Postings
	profiles *repositories.Profiles
	matches  *repositories.Matches
	runs     *repositories.Runs

	bus           EventBus.Bus
	crawl         *services.CrawlService
	match         *services.MatchService
	notifier      *services.Notifier
	exporter      *export.Exporter
	stats         *services.StatsService
	profileSource *services.CachedProfiles
}

func newApplication(cfg *config.Config) (*application, error) {

	dbContext, err := repositories.NewDbContext(cfg.DB.Path)
	if err != nil {
		return nil, errors.Wrap(err, "can't create db context")
	}

	if err = dbContext.Migrate(); err != nil {
		_ = dbContext.Close()
		return nil, errors.Wrap(err, "can't migrate db context")
	}

	a := &application{
		cfg:       cfg,
		dbContext: dbContext,
		postings:  repositories.NewPostingsRepository(dbContext.DB),
		profiles:  repositories.NewProfilesRepository(dbContext.DB),
		matches:   repositories.NewMatchesRepository(dbContext.DB),
		runs:      repositories.NewRunsRepository(dbContext.DB),
		bus:       EventBus.New(),
	}

	adapters, err := buildAdapters(cfg)
	if err != nil {
		_ = dbContext.Close()
		return nil, err
	}

	githubClient := github.NewClient(cfg.GitHub.Repo, cfg.GitHub.Token)
	profileSource := services.NewCachedProfiles(
		services.NewProfileSource(githubClient, a.profiles, cfg.GitHub.ProfileLabel),
		cfg.GitHub.ProfileCacheTTL)
	a.profileSource = profileSource

	a.crawl = services.NewCrawlService(adapters, cfg.Filter, a.postings, cfg.Crawler.ParseFailureThreshold)
	a.match = services.NewMatchService(a.bus, cfg.Matcher, profileSource, a.postings, a.matches)
	a.exporter = export.NewExporter(a.postings, cfg.Export.OutputPath)
	a.stats = services.NewStatsService(a.postings, a.profiles, a.runs)

	if a.notifier, err = services.NewNotifier(a.bus, githubClient, a.matches); err != nil {
		_ = dbContext.Close()
		return nil, errors.Wrap(err, "can't create notifier")
	}

	return a, nil
}

func (a *application) Close() {
	if err := a.dbContext.Close(); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to close db context: %v", err)
	}
	logger.Cleanup()
}

func buildAdapters(cfg *config.Config) ([]crawler.SiteAdapter, error) {

	constructors := map[string]func() crawler.SiteAdapter{
		saramin.SourceName: func() crawler.SiteAdapter {
			return saramin.NewClient(crawler.NewFetcher(cfg.Crawler), cfg.Filter.JobKeywords, cfg.Crawler.MaxPages)
		},
		inthiswork.SourceName: func() crawler.SiteAdapter {
			return inthiswork.NewClient(crawler.NewFetcher(cfg.Crawler), cfg.Crawler.MaxPages)
		},
	}

	var adapters []crawler.SiteAdapter
	for _, site := range cfg.Crawler.Sites {
		constructor, ok := constructors[site]
		if !ok {
			return nil, errors.Errorf("unknown site %q in crawler config", site)
		}
		if site == saramin.SourceName && len(cfg.Filter.JobKeywords) == 0 {
			return nil, errors.New("site saramin requires a non-empty filter.job_keywords list")
		}
		adapters = append(adapters, constructor())
	}
	return adapters, nil
}

// runCrawl executes the crawl and persists the per-source summary so stats
// can report the last run.
func (a *application) runCrawl(ctx context.Context) (map[string]entities.DiffSummary, error) {

	summaries, err := a.crawl.Run(ctx)
	if err != nil {
		return nil, err
	}

	if err = a.saveRunSummary(ctx, summaries, 0); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to save run summary: %v", err)
	}
	return summaries, nil
}

// runMatch scores profiles against the open posting set, delivers the
// collected notifications and records the emitted count on the run summary.
func (a *application) runMatch(ctx context.Context) (int, error) {

	emitted, err := a.match.Run(ctx)
	if err != nil {
		return 0, err
	}

	if err = a.notifier.Flush(ctx); err != nil {
		return emitted, err
	}

	summary, err := a.runs.GetSummary(ctx)
	if err != nil || summary == nil {
		summary = &repositories.RunSummary{}
	}
	summary.LastRunAt = time.Now().UTC()
	summary.MatchesEmitted = emitted

	if err = a.runs.SaveSummary(ctx, *summary); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to save run summary: %v", err)
	}
	return emitted, nil
}

func (a *application) saveRunSummary(ctx context.Context, sources map[string]entities.DiffSummary, matches int) error {
	return a.runs.SaveSummary(ctx, repositories.RunSummary{
		LastRunAt:      time.Now().UTC(),
		Sources:        sources,
		MatchesEmitted: matches,
	})
}
