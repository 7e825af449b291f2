package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

type ExperienceLevel string

const (
	ExperienceEntry      ExperienceLevel = "entry"
	ExperienceNoRequired ExperienceLevel = "no-experience-required"
	ExperienceInternship ExperienceLevel = "internship"
	ExperienceOther      ExperienceLevel = "other"
)

// IsEntryFriendly reports whether a posting with this level may reach the store.
func (e ExperienceLevel) IsEntryFriendly() bool {
	return e == ExperienceEntry || e == ExperienceNoRequired || e == ExperienceInternship
}

type PostingStatus string

const (
	PostingOpen   PostingStatus = "open"
	PostingClosed PostingStatus = "closed"
)

// Posting is one job posting tracked across crawl runs. Fingerprint is the
// immutable identity; every other field may be refreshed on re-observation.
type Posting struct {
	Fingerprint string `gorm:"primaryKey"`
	Source      string `gorm:"index"`
	Company     string
	Title       string
	Location    string
	Experience  ExperienceLevel
	Deadline    *time.Time
	SourceURL   string
	Description string
	FirstSeen   time.Time
	LastSeen    time.Time
	Status      PostingStatus `gorm:"index"`
	ContentHash string
}

var collapseSpaces = regexp.MustCompile(`\s+`)

func canonical(s string) string {
	return collapseSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// ComputeFingerprint derives posting identity from the fields that survive
// re-crawls unchanged. Deadline text and description wording deliberately do
// not participate, so a reworded posting still resolves to the same record.
func ComputeFingerprint(source, company, title, location string) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		canonical(source), canonical(company), canonical(title), canonical(location),
	}, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

// ComputeContentHash covers the volatile fields. A changed hash marks the
// posting as updated in a diff and can re-arm notifications when the
// renotify-on-change option is enabled.
func ComputeContentHash(description string, deadline *time.Time) string {
	d := ""
	if deadline != nil {
		d = deadline.Format("2006-01-02")
	}
	sum := sha256.Sum256([]byte(canonical(description) + "|" + d))
	return hex.EncodeToString(sum[:])[:16]
}

// DaysUntilDeadline returns the number of whole days between now and the
// deadline, or nil for open-until-filled postings.
func (p Posting) DaysUntilDeadline(now time.Time) *int {
	if p.Deadline == nil {
		return nil
	}
	days := int(p.Deadline.Sub(now.Truncate(24*time.Hour)).Hours() / 24)
	return &days
}
