package events

import "github.com/GeonYul2/Recruitment-Auto/internal/entities"

var MatchFoundTopic = "MatchFoundEvent"

// MatchFound is published once per profile/posting pair that cleared the
// score threshold and is not suppressed.
type MatchFound struct {
	Profile entities.Profile
	Posting entities.Posting
	Record  entities.MatchRecord
}
