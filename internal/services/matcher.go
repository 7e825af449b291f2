package services

import (
	"sort"
	"strings"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/config"
	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/samber/lo"
)

// Candidate is one scored profile/posting pair before suppression.
type Candidate struct {
	Posting   entities.Posting
	Score     float64
	MatchedOn []string
}

// Matcher scores postings against a profile with a fixed keyword-overlap
// rule set. Scoring is deterministic: the same profile and posting set always
// produce the same candidates in the same order.
type Matcher struct {
	cfg config.MatcherConfig
}

func NewMatcher(cfg config.MatcherConfig) *Matcher {
	return &Matcher{cfg: cfg}
}

// TopMatches returns the top-N postings above the score threshold, ordered
// by score descending with ties broken by deadline (earliest first, no
// deadline last), then FirstSeen, then fingerprint.
func (m *Matcher) TopMatches(profile entities.Profile, postings []entities.Posting) []Candidate {

	if profile.YearsExperience > m.cfg.EntryYearsCeiling {
		return nil
	}

	candidates := lo.FilterMap(postings, func(posting entities.Posting, _ int) (Candidate, bool) {
		candidate := m.score(profile, posting)
		return candidate, candidate.Score >= m.cfg.MinScore
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if byDeadline := compareDeadlines(a.Posting.Deadline, b.Posting.Deadline); byDeadline != 0 {
			return byDeadline < 0
		}
		if !a.Posting.FirstSeen.Equal(b.Posting.FirstSeen) {
			return a.Posting.FirstSeen.Before(b.Posting.FirstSeen)
		}
		return a.Posting.Fingerprint < b.Posting.Fingerprint
	})

	if len(candidates) > m.cfg.TopN {
		candidates = candidates[:m.cfg.TopN]
	}
	return candidates
}

func (m *Matcher) score(profile entities.Profile, posting entities.Posting) Candidate {

	postingText := strings.ToLower(posting.Title + " " + posting.Description)

	var score float64
	var matchedOn []string

	if m.roleMatches(profile.DesiredRoles, postingText) {
		score += m.cfg.RoleWeight
		matchedOn = append(matchedOn, entities.MatchedOnRole)
	}

	if overlap := skillOverlap(profile.Skills, postingText); overlap > 0 {
		score += m.cfg.SkillWeight * overlap
		matchedOn = append(matchedOn, entities.MatchedOnSkills)
	}

	if len(profile.DesiredLocations) == 0 {
		score += m.cfg.LocationWeight
	} else if locationMatches(profile.DesiredLocations, posting.Location) {
		score += m.cfg.LocationWeight
		matchedOn = append(matchedOn, entities.MatchedOnLocation)
	}

	return Candidate{Posting: posting, Score: score, MatchedOn: matchedOn}
}

// roleMatches checks the posting text against the keywords of each category
// a desired role belongs to, falling back to the literal role text when the
// role maps to no configured category.
func (m *Matcher) roleMatches(desiredRoles []string, postingText string) bool {
	for _, role := range desiredRoles {
		keywords, hasCategory := m.categoryFor(role)
		if !hasCategory {
			keywords = []string{role}
		}
		for _, keyword := range keywords {
			if strings.Contains(postingText, strings.ToLower(keyword)) {
				return true
			}
		}
	}
	return false
}

func (m *Matcher) categoryFor(role string) ([]string, bool) {

	if keywords, ok := m.cfg.RoleCategories[role]; ok {
		return keywords, true
	}

	// a role may also name a category keyword directly, e.g. "백엔드" when
	// the category key is "backend"
	roleLower := strings.ToLower(role)
	for _, keywords := range m.cfg.RoleCategories {
		if lo.ContainsBy(keywords, func(keyword string) bool {
			return strings.EqualFold(keyword, roleLower)
		}) {
			return keywords, true
		}
	}
	return nil, false
}

// skillOverlap is the fraction of the profile's skills mentioned in the
// posting text.
func skillOverlap(skills []string, postingText string) float64 {
	if len(skills) == 0 {
		return 0
	}
	matched := lo.CountBy(skills, func(skill string) bool {
		return strings.Contains(postingText, strings.ToLower(skill))
	})
	return float64(matched) / float64(len(skills))
}

func locationMatches(preferred []string, location string) bool {
	locationLower := strings.ToLower(location)
	return lo.ContainsBy(preferred, func(p string) bool {
		return strings.Contains(locationLower, strings.ToLower(p))
	})
}

// compareDeadlines orders earlier deadlines first and missing deadlines last.
func compareDeadlines(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case b.Before(*a):
		return 1
	default:
		return 0
	}
}
