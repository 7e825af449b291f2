package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const lastRunID = "last_run"

// RunMetadata is a small key-value blob store for pipeline bookkeeping.
type RunMetadata struct {
	ID    string `gorm:"primaryKey"`
	Value []byte
}

// RunSummary describes the outcome of the most recent pipeline run.
type RunSummary struct {
	LastRunAt      time.Time                       `json:"last_run_at"`
	Sources        map[string]entities.DiffSummary `json:"sources"`
	MatchesEmitted int                             `json:"matches_emitted"`
}

type Runs struct {
	db *gorm.DB
}

func NewRunsRepository(db *gorm.DB) *Runs {
	return &Runs{db: db}
}

func (r *Runs) SaveSummary(ctx context.Context, summary RunSummary) error {

	data, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrap(err, "failed to marshal run summary")
	}

	return r.db.WithContext(ctx).Save(RunMetadata{
		ID:    lastRunID,
		Value: data,
	}).Error
}

func (r *Runs) GetSummary(ctx context.Context) (*RunSummary, error) {

	record := &RunMetadata{}
	err := r.db.WithContext(ctx).First(record, "id = ?", lastRunID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var summary RunSummary
	if err = json.Unmarshal(record.Value, &summary); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal run summary")
	}
	return &summary, nil
}
