package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/config"
	"github.com/GeonYul2/Recruitment-Auto/internal/crawler"
	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/pkg/errors"
)

// ErrFiltered marks a raw posting rejected by the hard filters. Rejection is
// not a failure: callers count it and move on.
var ErrFiltered = errors.New("posting filtered out")

var (
	collapseExpr = regexp.MustCompile(`\s+`)
	// "경력 1년", "1년 이상", "1~3년", "1-3년", "1년~" style requirements
	careerExprs = []*regexp.Regexp{
		regexp.MustCompile(`경력\s*(\d+)`),
		regexp.MustCompile(`(\d+)\s*년\s*이상`),
		regexp.MustCompile(`(\d+)\s*[~∼-]\s*(\d+)\s*년`),
		regexp.MustCompile(`(\d+)\s*년\s*[~∼]`),
	}
	parentheticalExpr = regexp.MustCompile(`[(（][^)）]*[)）]`)
)

// Normalizer converts site-shaped raw postings into canonical ones. It holds
// an immutable snapshot of the keyword configuration loaded at startup.
type Normalizer struct {
	filter config.FilterConfig
}

func New(filter config.FilterConfig) *Normalizer {
	return &Normalizer{filter: filter}
}

func clean(s string) string {
	return collapseExpr.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Normalize is pure apart from the supplied clock, which anchors deadline
// year inference. Postings outside the entry-friendly experience levels and
// postings hit by the keyword filters return ErrFiltered.
func (n *Normalizer) Normalize(raw crawler.RawPosting, now time.Time) (entities.Posting, error) {

	company := clean(raw.Company)
	title := clean(raw.Title)
	location := clean(raw.Location)
	description := clean(raw.Description)

	if company == "" || title == "" {
		return entities.Posting{}, errors.Wrap(ErrFiltered, "missing company or title")
	}

	titleLower := strings.ToLower(title)
	for _, keyword := range n.filter.ExcludeKeywords {
		if strings.Contains(titleLower, strings.ToLower(keyword)) {
			return entities.Posting{}, errors.Wrapf(ErrFiltered, "excluded keyword %q", keyword)
		}
	}

	if len(n.filter.JobKeywords) > 0 && !n.matchesJobKeywords(titleLower, strings.ToLower(description)) {
		return entities.Posting{}, errors.Wrap(ErrFiltered, "no job keyword matched")
	}

	experience := n.classifyExperience(raw.ExperienceText)
	if !experience.IsEntryFriendly() {
		return entities.Posting{}, errors.Wrapf(ErrFiltered, "experience level %q", experience)
	}

	deadline := parseDeadline(raw.DeadlineText, now)

	return entities.Posting{
		Fingerprint: entities.ComputeFingerprint(raw.Source, company, title, location),
		Source:      raw.Source,
		Company:     company,
		Title:       title,
		Location:    location,
		Experience:  experience,
		Deadline:    deadline,
		SourceURL:   strings.TrimSpace(raw.URL),
		Description: description,
		Status:      entities.PostingOpen,
		ContentHash: entities.ComputeContentHash(description, deadline),
	}, nil
}

func (n *Normalizer) matchesJobKeywords(titleLower, descriptionLower string) bool {
	searchText := titleLower + " " + descriptionLower
	for _, keyword := range n.filter.JobKeywords {
		if strings.Contains(searchText, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// classifyExperience maps free experience text onto the canonical enum using
// the configured vocabularies. Requirements naming a minimum of a year or
// more of experience classify as "other" and are filtered out upstream.
func (n *Normalizer) classifyExperience(text string) entities.ExperienceLevel {

	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return entities.ExperienceNoRequired
	}

	if containsAny(t, n.filter.InternshipKeywords) {
		return entities.ExperienceInternship
	}
	if containsAny(t, n.filter.NoExperienceKeywords) {
		return entities.ExperienceNoRequired
	}
	if containsAny(t, n.filter.EntryKeywords) {
		return entities.ExperienceEntry
	}

	for _, expr := range careerExprs {
		groups := expr.FindStringSubmatch(t)
		if groups == nil {
			continue
		}
		if minYears(groups[1:]) >= 1 {
			return entities.ExperienceOther
		}
		return entities.ExperienceEntry
	}

	if strings.Contains(t, "경력") {
		return entities.ExperienceOther
	}

	// unknown text does not name a requirement; treat as open to entry level
	return entities.ExperienceEntry
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func minYears(groups []string) int {
	min := -1
	for _, g := range groups {
		years, err := strconv.Atoi(g)
		if err != nil {
			continue
		}
		if min == -1 || years < min {
			min = years
		}
	}
	if min == -1 {
		return 0
	}
	return min
}

var deadlineLayouts = []string{"2006-01-02", "2006.01.02", "2006/01/02"}

var monthDayExpr = regexp.MustCompile(`^(\d{1,2})\s*[.//-]\s*(\d{1,2})$`)

// parseDeadline converts site deadline text into a calendar date. Anything
// unparseable, including rolling-recruitment markers, means "open until
// filled" and never fails the posting.
func parseDeadline(text string, now time.Time) *time.Time {

	t := strings.TrimSpace(text)
	t = parentheticalExpr.ReplaceAllString(t, "")
	t = strings.TrimPrefix(t, "~")
	t = strings.TrimSuffix(t, "마감")
	t = strings.TrimSpace(t)

	if t == "" || strings.Contains(t, "상시") || strings.Contains(t, "수시") || strings.Contains(t, "채용시") {
		return nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if t == "오늘" {
		return &today
	}
	if t == "내일" {
		tomorrow := today.AddDate(0, 0, 1)
		return &tomorrow
	}

	for _, layout := range deadlineLayouts {
		if parsed, err := time.Parse(layout, t); err == nil {
			d := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}

	if groups := monthDayExpr.FindStringSubmatch(t); groups != nil {
		month, _ := strconv.Atoi(groups[1])
		day, _ := strconv.Atoi(groups[2])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			d := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
			// deadlines are forward-looking; a month/day already behind us
			// belongs to the next year
			if d.Before(today) {
				d = d.AddDate(1, 0, 0)
			}
			return &d
		}
	}

	return nil
}
