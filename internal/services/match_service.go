package services

import (
	"context"

	"github.com/GeonYul2/Recruitment-Auto/internal/config"
	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/GeonYul2/Recruitment-Auto/internal/events"
	"github.com/GeonYul2/Recruitment-Auto/internal/logger"
	"github.com/GeonYul2/Recruitment-Auto/internal/metrics"
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

type openPostingsRepository interface {
	GetOpen(ctx context.Context) ([]entities.Posting, error)
}

type matchRepository interface {
	Get(ctx context.Context, identity, fingerprint string) (*entities.MatchRecord, error)
	Upsert(ctx context.Context, record entities.MatchRecord, resetNotified bool) error
}

// MatchService scores every active profile against the open posting set and
// publishes a MatchFound event for each pair that should be delivered.
// Pairs already notified stay silent unless the posting content changed and
// re-notify-on-change is enabled.
type MatchService struct {
	bus      EventBus.Bus
	matcher  *Matcher
	profiles activeProfileSource
	postings openPostingsRepository
	matches  matchRepository
	renotify bool
}

func NewMatchService(bus EventBus.Bus, cfg config.MatcherConfig, profiles activeProfileSource,
	postings openPostingsRepository, matches matchRepository) *MatchService {

	return &MatchService{
		bus:      bus,
		matcher:  NewMatcher(cfg),
		profiles: profiles,
		postings: postings,
		matches:  matches,
		renotify: cfg.RenotifyOnChange,
	}
}

// Run returns the number of match events published.
func (s *MatchService) Run(ctx context.Context) (int, error) {

	profiles, err := s.profiles.GetActive(ctx)
	if err != nil {
		return 0, err
	}

	postings, err := s.postings.GetOpen(ctx)
	if err != nil {
		return 0, err
	}

	log.Infof("matching %v profiles against %v open postings", len(profiles), len(postings))

	emitted := 0
	for _, profile := range profiles {
		for _, candidate := range s.matcher.TopMatches(profile, postings) {

			delivered, err := s.handleCandidate(ctx, profile, candidate)
			if err != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
					Errorf("failed to handle match for %v/%v: %v",
						profile.Identity, candidate.Posting.Fingerprint, err)
				continue
			}
			if delivered {
				emitted++
				metrics.EmittedMatchesCounter.Inc()
			}
		}
	}

	log.Infof("emitted %v matches", emitted)
	return emitted, nil
}

func (s *MatchService) handleCandidate(ctx context.Context, profile entities.Profile, candidate Candidate) (bool, error) {

	record := entities.NewMatchRecord(profile.Identity, candidate.Posting.Fingerprint,
		candidate.Score, candidate.MatchedOn, candidate.Posting.ContentHash)

	existing, err := s.matches.Get(ctx, profile.Identity, candidate.Posting.Fingerprint)
	if err != nil {
		return false, err
	}

	contentChanged := existing != nil && existing.ContentHash != candidate.Posting.ContentHash
	alreadyNotified := existing != nil && existing.NotifiedAt != nil

	resetNotified := alreadyNotified && contentChanged && s.renotify
	if err = s.matches.Upsert(ctx, record, resetNotified); err != nil {
		return false, err
	}

	if alreadyNotified && !resetNotified {
		return false, nil
	}

	s.bus.Publish(events.MatchFoundTopic, events.MatchFound{
		Profile: profile,
		Posting: candidate.Posting,
		Record:  record,
	})
	return true, nil
}
