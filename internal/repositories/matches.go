package repositories

import (
	"context"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Matches struct {
	db *gorm.DB
}

func NewMatchesRepository(db *gorm.DB) *Matches {
	return &Matches{db: db}
}

func (m *Matches) Get(ctx context.Context, identity, fingerprint string) (*entities.MatchRecord, error) {

	var record entities.MatchRecord
	err := m.db.WithContext(ctx).
		Where("profile_identity = ? AND fingerprint = ?", identity, fingerprint).
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Upsert refreshes score, matched tags and content hash for the pair while
// preserving NotifiedAt. When resetNotified is set (re-notify-on-change) the
// pair becomes eligible for delivery again.
func (m *Matches) Upsert(ctx context.Context, record entities.MatchRecord, resetNotified bool) error {

	existing, err := m.Get(ctx, record.ProfileIdentity, record.Fingerprint)
	if err != nil {
		return err
	}

	if existing == nil {
		return m.db.WithContext(ctx).Create(&record).Error
	}

	updates := map[string]any{
		"score":        record.Score,
		"matched_on":   record.MatchedOn,
		"content_hash": record.ContentHash,
	}
	if resetNotified {
		updates["notified_at"] = nil
	}

	return m.db.WithContext(ctx).Model(&entities.MatchRecord{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error
}

// MarkNotified stamps the delivery time. The guard on notified_at keeps the
// stamp write-once.
func (m *Matches) MarkNotified(ctx context.Context, identity, fingerprint string, at time.Time) error {
	return m.db.WithContext(ctx).Model(&entities.MatchRecord{}).
		Where("profile_identity = ? AND fingerprint = ? AND notified_at IS NULL", identity, fingerprint).
		Update("notified_at", at).Error
}

func (m *Matches) CountNotified(ctx context.Context, since time.Time) (int64, error) {

	var count int64
	if err := m.db.WithContext(ctx).Model(&entities.MatchRecord{}).
		Where("notified_at >= ?", since).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
