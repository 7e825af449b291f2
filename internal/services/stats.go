package services

import (
	"context"

	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/GeonYul2/Recruitment-Auto/internal/repositories"
)

type statusCounter interface {
	CountByStatus(ctx context.Context, status entities.PostingStatus) (int64, error)
}

type profileCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

type runSummaryReader interface {
	GetSummary(ctx context.Context) (*repositories.RunSummary, error)
}

// Report aggregates the pipeline's current state for the stats command.
type Report struct {
	OpenPostings   int64
	ClosedPostings int64
	ActiveProfiles int64
	LastRun        *repositories.RunSummary
}

type StatsService struct {
	postings statusCounter
	profiles profileCounter
	runs     runSummaryReader
}

func NewStatsService(postings statusCounter, profiles profileCounter, runs runSummaryReader) *StatsService {
	return &StatsService{postings: postings, profiles: profiles, runs: runs}
}

func (s *StatsService) Collect(ctx context.Context) (Report, error) {

	var report Report
	var err error

	if report.OpenPostings, err = s.postings.CountByStatus(ctx, entities.PostingOpen); err != nil {
		return report, err
	}
	if report.ClosedPostings, err = s.postings.CountByStatus(ctx, entities.PostingClosed); err != nil {
		return report, err
	}
	if report.ActiveProfiles, err = s.profiles.CountActive(ctx); err != nil {
		return report, err
	}
	if report.LastRun, err = s.runs.GetSummary(ctx); err != nil {
		return report, err
	}

	return report, nil
}
