package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type openPostingsRepository interface {
	GetOpen(ctx context.Context) ([]entities.Posting, error)
}

// Job is one posting in the published snapshot.
type Job struct {
	Fingerprint       string `json:"id"`
	Source            string `json:"source"`
	Company           string `json:"company"`
	PositionTitle     string `json:"position_title"`
	Location          string `json:"location"`
	ExperienceLevel   string `json:"experience_level"`
	Deadline          string `json:"deadline,omitempty"`
	DaysUntilDeadline *int   `json:"days_until_deadline,omitempty"`
	SourceURL         string `json:"source_url"`
	FirstSeen         string `json:"first_seen"`
}

// Snapshot is the file-level envelope consumers read.
type Snapshot struct {
	GeneratedAt string `json:"generated_at"`
	Total       int    `json:"total"`
	Jobs        []Job  `json:"jobs"`
}

// Exporter writes the open posting set to a JSON file. Output is
// deterministic for a given store state: postings are ordered by deadline
// ascending with open-ended ones last, then by first observation.
type Exporter struct {
	postings   openPostingsRepository
	outputPath string
}

func NewExporter(postings openPostingsRepository, outputPath string) *Exporter {
	return &Exporter{postings: postings, outputPath: outputPath}
}

func (e *Exporter) Export(ctx context.Context, now time.Time) (int, error) {

	postings, err := e.postings.GetOpen(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load open postings")
	}

	sort.SliceStable(postings, func(i, j int) bool {
		a, b := postings[i], postings[j]
		switch {
		case a.Deadline == nil && b.Deadline != nil:
			return false
		case a.Deadline != nil && b.Deadline == nil:
			return true
		case a.Deadline != nil && b.Deadline != nil && !a.Deadline.Equal(*b.Deadline):
			return a.Deadline.Before(*b.Deadline)
		case !a.FirstSeen.Equal(b.FirstSeen):
			return a.FirstSeen.Before(b.FirstSeen)
		default:
			return a.Fingerprint < b.Fingerprint
		}
	})

	snapshot := Snapshot{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Total:       len(postings),
		Jobs: lo.Map(postings, func(p entities.Posting, _ int) Job {
			return toJob(p, now)
		}),
	}

	if err = e.write(snapshot); err != nil {
		return 0, err
	}

	log.Infof("exported %v open postings to %v", len(postings), e.outputPath)
	return len(postings), nil
}

func toJob(p entities.Posting, now time.Time) Job {

	job := Job{
		Fingerprint:       p.Fingerprint,
		Source:            p.Source,
		Company:           p.Company,
		PositionTitle:     p.Title,
		Location:          p.Location,
		ExperienceLevel:   string(p.Experience),
		DaysUntilDeadline: p.DaysUntilDeadline(now),
		SourceURL:         p.SourceURL,
		FirstSeen:         p.FirstSeen.UTC().Format(time.RFC3339),
	}
	if p.Deadline != nil {
		job.Deadline = p.Deadline.Format("2006-01-02")
	}
	return job
}

// write lands the snapshot atomically: readers of the previous file never
// observe a half-written one.
func (e *Exporter) write(snapshot Snapshot) error {

	if err := os.MkdirAll(filepath.Dir(e.outputPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create export directory")
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}

	tmpPath := e.outputPath + ".tmp"
	if err = os.WriteFile(tmpPath, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write snapshot")
	}

	if err = os.Rename(tmpPath, e.outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "failed to replace snapshot")
	}
	return nil
}
