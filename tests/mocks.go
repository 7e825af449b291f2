package tests

import (
	"context"
	"sync"

	"github.com/GeonYul2/Recruitment-Auto/internal/crawler"
	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
)

type fakeSite struct {
	source   string
	postings []crawler.RawPosting
}

func (f *fakeSite) Source() string { return f.source }

func (f *fakeSite) FetchPostings(ctx context.Context) (*crawler.FetchResult, error) {
	return &crawler.FetchResult{Postings: f.postings, PagesFetched: 1}, nil
}

type staticProfiles []entities.Profile

func (s staticProfiles) GetActive(ctx context.Context) ([]entities.Profile, error) {
	return s, nil
}

type postedComment struct {
	issueNumber int
	comment     string
}

type commentRecorder struct {
	mu     sync.Mutex
	posted []postedComment
}

func (c *commentRecorder) PostComment(ctx context.Context, issueNumber int, comment string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posted = append(c.posted, postedComment{issueNumber: issueNumber, comment: comment})
	return nil
}
