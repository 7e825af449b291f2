package repositories

import (
	"context"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Postings struct {
	db *gorm.DB
}

func NewPostingsRepository(db *gorm.DB) *Postings {
	return &Postings{db: db}
}

// Reconcile merges one source's crawl result into the persisted state and
// returns the delta. The whole diff is computed in memory against a loaded
// snapshot and committed in a single transaction, so a failed run never
// leaves half-written state behind. Only postings of the given source
// participate; a source whose crawl failed is simply not reconciled.
func (r *Postings) Reconcile(ctx context.Context, source string, current []entities.Posting, now time.Time) (entities.Diff, error) {

	var existing []entities.Posting
	if err := r.db.WithContext(ctx).Find(&existing, "source = ?", source).Error; err != nil {
		return entities.Diff{}, errors.Wrapf(err, "failed to load state for source %v", source)
	}

	diff, toSave := computeDiff(existing, current, now)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range toSave {
			if err := tx.Save(&toSave[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return entities.Diff{}, errors.Wrapf(err, "failed to commit reconciliation for source %v", source)
	}

	return diff, nil
}

func computeDiff(existing []entities.Posting, current []entities.Posting, now time.Time) (entities.Diff, []entities.Posting) {

	prev := make(map[string]entities.Posting, len(existing))
	for _, p := range existing {
		prev[p.Fingerprint] = p
	}

	var diff entities.Diff
	var toSave []entities.Posting

	seen := make(map[string]struct{}, len(current))
	for _, c := range current {
		if _, ok := seen[c.Fingerprint]; ok {
			continue
		}
		seen[c.Fingerprint] = struct{}{}

		p, known := prev[c.Fingerprint]
		if !known {
			c.FirstSeen = now
			c.LastSeen = now
			c.Status = entities.PostingOpen
			diff.New = append(diff.New, c)
			toSave = append(toSave, c)
			continue
		}

		changed := p.ContentHash != c.ContentHash ||
			p.Experience != c.Experience ||
			p.SourceURL != c.SourceURL

		refreshed := p
		refreshed.LastSeen = now
		refreshed.Deadline = c.Deadline
		refreshed.Description = c.Description
		refreshed.Experience = c.Experience
		refreshed.SourceURL = c.SourceURL
		refreshed.ContentHash = c.ContentHash

		if p.Status == entities.PostingClosed {
			refreshed.Status = entities.PostingOpen
			diff.Reopened = append(diff.Reopened, refreshed)
		} else if changed {
			diff.Updated = append(diff.Updated, refreshed)
		}

		toSave = append(toSave, refreshed)
	}

	for fingerprint, p := range prev {
		if _, stillPresent := seen[fingerprint]; stillPresent {
			continue
		}
		if p.Status != entities.PostingOpen {
			continue
		}
		// closing is inferred from absence, so LastSeen keeps the time the
		// posting was actually last confirmed open
		p.Status = entities.PostingClosed
		diff.Closed = append(diff.Closed, p)
		toSave = append(toSave, p)
	}

	return diff, toSave
}

// GetOpen returns the currently open posting set in a stable order.
func (r *Postings) GetOpen(ctx context.Context) ([]entities.Posting, error) {

	var postings []entities.Posting
	if err := r.db.WithContext(ctx).
		Order("fingerprint").
		Find(&postings, "status = ?", entities.PostingOpen).Error; err != nil {
		return nil, err
	}
	return postings, nil
}

func (r *Postings) GetByFingerprint(ctx context.Context, fingerprint string) (*entities.Posting, error) {

	var posting entities.Posting
	err := r.db.WithContext(ctx).First(&posting, "fingerprint = ?", fingerprint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &posting, nil
}

func (r *Postings) CountByStatus(ctx context.Context, status entities.PostingStatus) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Posting{}).
		Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
