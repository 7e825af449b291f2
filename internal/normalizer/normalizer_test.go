package normalizer

import (
	"testing"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/config"
	"github.com/GeonYul2/Recruitment-Auto/internal/crawler"
	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return New(config.FilterConfig{
		ExcludeKeywords:      []string{"시니어", "Senior", "Lead"},
		EntryKeywords:        []string{"신입", "entry", "junior", "주니어"},
		NoExperienceKeywords: []string{"경력무관", "경력 무관", "무관"},
		InternshipKeywords:   []string{"인턴", "intern"},
	})
}

func rawPosting(title, experience, deadline string) crawler.RawPosting {
	return crawler.RawPosting{
		Source:         "saramin",
		SourceID:       "1",
		Company:        "카카오",
		Title:          title,
		Location:       "서울 판교",
		ExperienceText: experience,
		DeadlineText:   deadline,
		Description:    "데이터 분석 업무",
		URL:            "https://example.com/1",
	}
}

func Test_Normalize_AcceptsEntryLevelPosting(t *testing.T) {

	posting, err := newTestNormalizer().Normalize(rawPosting("데이터 분석가", "신입", "~ 10/15(수)"), now)
	require.NoError(t, err)

	assert.Equal(t, entities.ExperienceEntry, posting.Experience)
	assert.Equal(t, entities.PostingOpen, posting.Status)
	assert.NotEmpty(t, posting.Fingerprint)
	require.NotNil(t, posting.Deadline)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), *posting.Deadline)
}

func Test_Normalize_CollapsesWhitespaceInFields(t *testing.T) {

	raw := rawPosting("  데이터\t 분석가 ", "신입", "")
	raw.Company = " 카카오 \n 엔터프라이즈 "
	raw.Location = "서울 \t 판교"

	posting, err := newTestNormalizer().Normalize(raw, now)
	require.NoError(t, err)

	assert.Equal(t, "데이터 분석가", posting.Title)
	assert.Equal(t, "카카오 엔터프라이즈", posting.Company)
	assert.Equal(t, "서울 판교", posting.Location)
}

func Test_Normalize_RejectsCareerOnlyPosting(t *testing.T) {

	_, err := newTestNormalizer().Normalize(rawPosting("데이터 엔지니어", "경력 3년↑", ""), now)
	assert.True(t, errors.Is(err, ErrFiltered))

	_, err = newTestNormalizer().Normalize(rawPosting("데이터 엔지니어", "경력", ""), now)
	assert.True(t, errors.Is(err, ErrFiltered))
}

func Test_Normalize_RejectsExcludedTitleKeyword(t *testing.T) {

	_, err := newTestNormalizer().Normalize(rawPosting("시니어 데이터 분석가", "신입", ""), now)
	assert.True(t, errors.Is(err, ErrFiltered))
}

func Test_Normalize_ClassifiesExperienceLevels(t *testing.T) {

	n := newTestNormalizer()

	cases := []struct {
		text  string
		level entities.ExperienceLevel
	}{
		{"신입", entities.ExperienceEntry},
		{"신입/경력", entities.ExperienceEntry},
		{"경력무관", entities.ExperienceNoRequired},
		{"", entities.ExperienceNoRequired},
		{"인턴", entities.ExperienceInternship},
		{"경력 1년 이상", entities.ExperienceOther},
		{"3~5년", entities.ExperienceOther},
	}

	for _, c := range cases {
		assert.Equal(t, c.level, n.classifyExperience(c.text), "text: %q", c.text)
	}
}

func Test_Normalize_FingerprintIgnoresDeadlineAndDescription(t *testing.T) {

	n := newTestNormalizer()

	a, err := n.Normalize(rawPosting("데이터 분석가", "신입", "~ 10/15(수)"), now)
	require.NoError(t, err)

	changed := rawPosting("데이터 분석가", "신입", "2025-10-31")
	changed.Description = "데이터 분석 업무, reworded"
	b, err := n.Normalize(changed, now)
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotEqual(t, a.ContentHash, b.ContentHash)
}

func Test_ParseDeadline_HandlesCommonForms(t *testing.T) {

	cases := []struct {
		text string
		want *time.Time
	}{
		{"상시채용", nil},
		{"채용시 마감", nil},
		{"", nil},
		{"gibberish", nil},
		{"2025-12-31", datePtr(2025, 12, 31)},
		{"2025.12.31", datePtr(2025, 12, 31)},
		{"~ 10/15(수)", datePtr(2025, 10, 15)},
		{"오늘마감", datePtr(2025, 9, 1)},
		{"내일마감", datePtr(2025, 9, 2)},
		// month/day already past rolls into next year
		{"01/15", datePtr(2026, 1, 15)},
	}

	for _, c := range cases {
		got := parseDeadline(c.text, now)
		if c.want == nil {
			assert.Nil(t, got, "text: %q", c.text)
		} else {
			require.NotNil(t, got, "text: %q", c.text)
			assert.Equal(t, *c.want, *got, "text: %q", c.text)
		}
	}
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
