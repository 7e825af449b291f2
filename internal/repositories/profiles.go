package repositories

import (
	"context"
	"slices"

	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Profiles struct {
	db *gorm.DB
}

func NewProfilesRepository(db *gorm.DB) *Profiles {
	return &Profiles{db: db}
}

// SaveVersion stores a profile snapshot. Profiles are immutable: a changed
// re-submission becomes a new row, an unchanged one is a no-op, so the match
// history stays auditable.
func (p *Profiles) SaveVersion(ctx context.Context, profile entities.Profile) error {

	latest, err := p.GetLatestByIssue(ctx, profile.IssueNumber)
	if err != nil {
		return err
	}

	if latest != nil && sameProfile(*latest, profile) {
		return nil
	}

	profile.ID = 0
	return p.db.WithContext(ctx).Create(&profile).Error
}

func (p *Profiles) GetLatestByIssue(ctx context.Context, issueNumber int) (*entities.Profile, error) {

	var profile entities.Profile
	err := p.db.WithContext(ctx).
		Where("issue_number = ?", issueNumber).
		Order("id DESC").
		First(&profile).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (p *Profiles) CountActive(ctx context.Context) (int64, error) {

	var count int64
	if err := p.db.WithContext(ctx).Model(&entities.Profile{}).
		Distinct("issue_number").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func sameProfile(a, b entities.Profile) bool {
	return a.Identity == b.Identity &&
		a.YearsExperience == b.YearsExperience &&
		slices.Equal(a.DesiredRoles, b.DesiredRoles) &&
		slices.Equal(a.Skills, b.Skills) &&
		slices.Equal(a.DesiredLocations, b.DesiredLocations)
}
