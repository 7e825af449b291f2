package services

import (
	"context"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/clients/github"
	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/GeonYul2/Recruitment-Auto/internal/logger"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

type issueClient interface {
	GetProfileIssues(ctx context.Context, label string) ([]github.Issue, error)
}

type profileRepository interface {
	SaveVersion(ctx context.Context, profile entities.Profile) error
}

// ProfileSource loads active profiles: open labeled issues, parsed and stored
// as immutable versions. Submissions that fail to parse are logged and
// skipped so one broken issue never blocks the rest.
type ProfileSource struct {
	client   issueClient
	parser   *ProfileParser
	profiles profileRepository
	label    string
}

func NewProfileSource(client issueClient, profiles profileRepository, label string) *ProfileSource {
	return &ProfileSource{
		client:   client,
		parser:   NewProfileParser(),
		profiles: profiles,
		label:    label,
	}
}

func (s *ProfileSource) GetActive(ctx context.Context) ([]entities.Profile, error) {

	issues, err := s.client.GetProfileIssues(ctx, s.label)
	if err != nil {
		return nil, err
	}

	var profiles []entities.Profile
	for _, issue := range issues {

		profile, err := s.parser.Parse(issue)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeParse).
				Errorf("skipping profile issue #%v: %v", issue.Number, err)
			continue
		}

		if err = s.profiles.SaveVersion(ctx, profile); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to store profile version for issue #%v: %v", issue.Number, err)
		}

		profiles = append(profiles, profile)
	}

	log.Infof("loaded %v profiles from %v issues", len(profiles), len(issues))
	return profiles, nil
}

const profilesCacheKey = "active"

type activeProfileSource interface {
	GetActive(ctx context.Context) ([]entities.Profile, error)
}

// CachedProfiles keeps the issue listing off the hot path when crawl and
// match run back to back.
type CachedProfiles struct {
	source activeProfileSource
	cache  *gocache.Cache
}

func NewCachedProfiles(source activeProfileSource, ttl time.Duration) *CachedProfiles {
	return &CachedProfiles{source: source, cache: gocache.New(ttl, 2*ttl)}
}

func (c *CachedProfiles) GetActive(ctx context.Context) ([]entities.Profile, error) {

	if value, found := c.cache.Get(profilesCacheKey); found {
		return value.([]entities.Profile), nil
	}

	profiles, err := c.source.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	if err = c.cache.Add(profilesCacheKey, profiles, gocache.DefaultExpiration); err != nil {
		return profiles, err
	}
	return profiles, nil
}
