package entities

import "time"

// Profile is one candidate profile parsed from a submission. Profiles are
// immutable snapshots: a re-submission is stored as a new version so match
// history stays auditable.
type Profile struct {
	ID               int `gorm:"primaryKey;autoIncrement"`
	IssueNumber      int `gorm:"index"`
	Identity         string
	DesiredRoles     []string `gorm:"serializer:json" validate:"required,min=1"`
	YearsExperience  int      `validate:"gte=0"`
	Skills           []string `gorm:"serializer:json"`
	DesiredLocations []string `gorm:"serializer:json"`
	IssueURL         string
	CreatedAt        time.Time
}
