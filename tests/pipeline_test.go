package tests

import (
	"context"
	"strings"
	"testing"

	"github.com/GeonYul2/Recruitment-Auto/internal/config"
	"github.com/GeonYul2/Recruitment-Auto/internal/crawler"
	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/GeonYul2/Recruitment-Auto/internal/repositories"
	"github.com/GeonYul2/Recruitment-Auto/internal/services"
	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T, adapter crawler.SiteAdapter, profiles []entities.Profile,
	matcherCfg config.MatcherConfig) (*services.CrawlService, *services.MatchService, *services.Notifier, *commentRecorder) {

	dbCtx, err := repositories.NewDbContext(":memory:")
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())
	t.Cleanup(func() { _ = dbCtx.Close() })

	postings := repositories.NewPostingsRepository(dbCtx.DB)
	matches := repositories.NewMatchesRepository(dbCtx.DB)

	filter := config.FilterConfig{
		EntryKeywords:        []string{"신입", "entry"},
		NoExperienceKeywords: []string{"경력무관", "무관"},
		InternshipKeywords:   []string{"인턴"},
	}

	bus := EventBus.New()
	comments := &commentRecorder{}

	crawlService := services.NewCrawlService([]crawler.SiteAdapter{adapter}, filter, postings, 0.3)
	matchService := services.NewMatchService(bus, matcherCfg, staticProfiles(profiles), postings, matches)

	notifier, err := services.NewNotifier(bus, comments, matches)
	require.NoError(t, err)

	return crawlService, matchService, notifier, comments
}

func defaultMatcherConfig() config.MatcherConfig {
	return config.MatcherConfig{
		RoleWeight:        0.5,
		SkillWeight:       0.35,
		LocationWeight:    0.15,
		MinScore:          0.5,
		TopN:              10,
		EntryYearsCeiling: 1,
		RoleCategories: map[string][]string{
			"data": {"데이터 분석", "data analyst"},
		},
	}
}

func analystProfile() entities.Profile {
	return entities.Profile{
		IssueNumber:      12,
		Identity:         "jobseeker-kim",
		DesiredRoles:     []string{"데이터 분석"},
		YearsExperience:  0,
		Skills:           []string{"python", "sql"},
		DesiredLocations: []string{"서울"},
	}
}

func Test_CrawlMatchNotify_EndToEnd(t *testing.T) {

	adapter := &fakeSite{source: "saramin", postings: []crawler.RawPosting{{
		Source:         "saramin",
		Company:        "카카오",
		Title:          "데이터 분석가",
		Location:       "서울 판교",
		ExperienceText: "신입",
		Description:    "Python과 SQL을 활용한 데이터 분석",
		URL:            "https://www.saramin.co.kr/job/1",
	}}}

	crawlService, matchService, notifier, comments := newPipeline(t, adapter,
		[]entities.Profile{analystProfile()}, defaultMatcherConfig())
	ctx := context.Background()

	summaries, err := crawlService.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summaries["saramin"].New)

	emitted, err := matchService.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, emitted)

	require.NoError(t, notifier.Flush(ctx))
	require.Len(t, comments.posted, 1)
	assert.Equal(t, 12, comments.posted[0].issueNumber)
	assert.True(t, strings.Contains(comments.posted[0].comment, "카카오"))
}

func Test_SecondRunIsSilent(t *testing.T) {

	adapter := &fakeSite{source: "saramin", postings: []crawler.RawPosting{{
		Source:         "saramin",
		Company:        "카카오",
		Title:          "데이터 분석가",
		Location:       "서울",
		ExperienceText: "신입",
		Description:    "python, sql",
		URL:            "https://www.saramin.co.kr/job/1",
	}}}

	crawlService, matchService, notifier, comments := newPipeline(t, adapter,
		[]entities.Profile{analystProfile()}, defaultMatcherConfig())
	ctx := context.Background()

	_, err := crawlService.Run(ctx)
	require.NoError(t, err)
	_, err = matchService.Run(ctx)
	require.NoError(t, err)
	require.NoError(t, notifier.Flush(ctx))
	require.Len(t, comments.posted, 1)

	// identical crawl and match again
	summaries, err := crawlService.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, summaries["saramin"].New)
	assert.Zero(t, summaries["saramin"].Updated)

	emitted, err := matchService.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, emitted)

	require.NoError(t, notifier.Flush(ctx))
	assert.Len(t, comments.posted, 1, "an unchanged posting must not be re-delivered")
}

func Test_DisappearedPostingLeavesSnapshot(t *testing.T) {

	adapter := &fakeSite{source: "saramin", postings: []crawler.RawPosting{{
		Source:         "saramin",
		Company:        "카카오",
		Title:          "데이터 분석가",
		Location:       "서울",
		ExperienceText: "신입",
		URL:            "https://www.saramin.co.kr/job/1",
	}}}

	crawlService, _, _, _ := newPipeline(t, adapter, nil, defaultMatcherConfig())
	ctx := context.Background()

	_, err := crawlService.Run(ctx)
	require.NoError(t, err)

	adapter.postings = nil
	summaries, err := crawlService.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summaries["saramin"].Closed)
}
