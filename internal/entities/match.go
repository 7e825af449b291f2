package entities

import (
	"strings"
	"time"
)

// Match criterion tags recorded on a MatchRecord.
const (
	MatchedOnRole     = "role"
	MatchedOnSkills   = "skills"
	MatchedOnLocation = "location"
)

// MatchRecord is a scored association between one profile and one open
// posting. At most one record exists per (identity, fingerprint) pair;
// NotifiedAt is set exactly once and gates notification suppression.
type MatchRecord struct {
	ID              int    `gorm:"primaryKey;autoIncrement"`
	ProfileIdentity string `gorm:"uniqueIndex:idx_profile_posting"`
	Fingerprint     string `gorm:"uniqueIndex:idx_profile_posting"`
	Score           float64
	MatchedOn       string
	ContentHash     string
	NotifiedAt      *time.Time
	CreatedAt       time.Time
}

func NewMatchRecord(identity, fingerprint string, score float64, matchedOn []string, contentHash string) MatchRecord {
	return MatchRecord{
		ProfileIdentity: identity,
		Fingerprint:     fingerprint,
		Score:           score,
		MatchedOn:       strings.Join(matchedOn, ","),
		ContentHash:     contentHash,
	}
}

func (m *MatchRecord) MatchedOnTags() []string {
	if m.MatchedOn == "" {
		return []string{}
	}
	return strings.Split(m.MatchedOn, ",")
}
