package services

import (
	"context"
	"testing"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/GeonYul2/Recruitment-Auto/internal/events"
	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProfileSource struct {
	profiles []entities.Profile
}

func (m mockProfileSource) GetActive(ctx context.Context) ([]entities.Profile, error) {
	return m.profiles, nil
}

type mockPostings struct {
	postings []entities.Posting
}

func (m mockPostings) GetOpen(ctx context.Context) ([]entities.Posting, error) {
	return m.postings, nil
}

type mockMatches struct {
	mock.Mock
}

func (m *mockMatches) Get(ctx context.Context, identity, fingerprint string) (*entities.MatchRecord, error) {
	args := m.Called(ctx, identity, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MatchRecord), args.Error(1)
}

func (m *mockMatches) Upsert(ctx context.Context, record entities.MatchRecord, resetNotified bool) error {
	return m.Called(ctx, record, resetNotified).Error(0)
}

func collectMatchEvents(t *testing.T, bus EventBus.Bus) *[]events.MatchFound {
	var collected []events.MatchFound
	err := bus.Subscribe(events.MatchFoundTopic, func(event events.MatchFound) {
		collected = append(collected, event)
	})
	require.NoError(t, err)
	return &collected
}

func Test_MatchService_EmitsNewMatch(t *testing.T) {

	bus := EventBus.New()
	collected := collectMatchEvents(t, bus)

	posting := openPosting("카카오", "데이터 분석가", "서울", "python, sql")
	matches := &mockMatches{}
	matches.On("Get", mock.Anything, "jobseeker-kim", posting.Fingerprint).Return(nil, nil)
	matches.On("Upsert", mock.Anything, mock.Anything, false).Return(nil)

	service := NewMatchService(bus, matcherConfig(),
		mockProfileSource{profiles: []entities.Profile{dataProfile()}},
		mockPostings{postings: []entities.Posting{posting}}, matches)

	emitted, err := service.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, emitted)
	require.Len(t, *collected, 1)
	assert.Equal(t, posting.Fingerprint, (*collected)[0].Posting.Fingerprint)
	matches.AssertExpectations(t)
}

func Test_MatchService_SuppressesNotifiedPair(t *testing.T) {

	bus := EventBus.New()
	collected := collectMatchEvents(t, bus)

	posting := openPosting("카카오", "데이터 분석가", "서울", "python, sql")
	notifiedAt := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	existing := entities.NewMatchRecord("jobseeker-kim", posting.Fingerprint, 1.0,
		[]string{entities.MatchedOnRole}, posting.ContentHash)
	existing.NotifiedAt = &notifiedAt

	matches := &mockMatches{}
	matches.On("Get", mock.Anything, "jobseeker-kim", posting.Fingerprint).Return(&existing, nil)
	matches.On("Upsert", mock.Anything, mock.Anything, false).Return(nil)

	service := NewMatchService(bus, matcherConfig(),
		mockProfileSource{profiles: []entities.Profile{dataProfile()}},
		mockPostings{postings: []entities.Posting{posting}}, matches)

	emitted, err := service.Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, emitted)
	assert.Empty(t, *collected)
}

func Test_MatchService_ContentChangeWithoutRenotifyStaysSilent(t *testing.T) {

	bus := EventBus.New()
	collected := collectMatchEvents(t, bus)

	posting := openPosting("카카오", "데이터 분석가", "서울", "python, sql")
	notifiedAt := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	existing := entities.NewMatchRecord("jobseeker-kim", posting.Fingerprint, 1.0,
		[]string{entities.MatchedOnRole}, "stale-hash")
	existing.NotifiedAt = &notifiedAt

	matches := &mockMatches{}
	matches.On("Get", mock.Anything, "jobseeker-kim", posting.Fingerprint).Return(&existing, nil)
	matches.On("Upsert", mock.Anything, mock.Anything, false).Return(nil)

	service := NewMatchService(bus, matcherConfig(),
		mockProfileSource{profiles: []entities.Profile{dataProfile()}},
		mockPostings{postings: []entities.Posting{posting}}, matches)

	emitted, err := service.Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, emitted)
	assert.Empty(t, *collected)
}

func Test_MatchService_ContentChangeWithRenotifyRearms(t *testing.T) {

	bus := EventBus.New()
	collected := collectMatchEvents(t, bus)

	posting := openPosting("카카오", "데이터 분석가", "서울", "python, sql")
	notifiedAt := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	existing := entities.NewMatchRecord("jobseeker-kim", posting.Fingerprint, 1.0,
		[]string{entities.MatchedOnRole}, "stale-hash")
	existing.NotifiedAt = &notifiedAt

	matches := &mockMatches{}
	matches.On("Get", mock.Anything, "jobseeker-kim", posting.Fingerprint).Return(&existing, nil)
	matches.On("Upsert", mock.Anything, mock.Anything, true).Return(nil)

	cfg := matcherConfig()
	cfg.RenotifyOnChange = true

	service := NewMatchService(bus, cfg,
		mockProfileSource{profiles: []entities.Profile{dataProfile()}},
		mockPostings{postings: []entities.Posting{posting}}, matches)

	emitted, err := service.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, emitted)
	assert.Len(t, *collected, 1)
	matches.AssertExpectations(t)
}
