package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/GeonYul2/Recruitment-Auto/internal/events"
	"github.com/GeonYul2/Recruitment-Auto/internal/logger"
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

type commentClient interface {
	PostComment(ctx context.Context, issueNumber int, comment string) error
}

type notifiedMarker interface {
	MarkNotified(ctx context.Context, identity, fingerprint string, at time.Time) error
}

// Notifier collects MatchFound events during a match run and delivers them
// as one markdown comment per profile issue. A pair counts as notified only
// after its comment actually reached GitHub.
type Notifier struct {
	client  commentClient
	matches notifiedMarker

	mu      sync.Mutex
	pending map[int][]events.MatchFound
}

func NewNotifier(bus EventBus.Bus, client commentClient, matches notifiedMarker) (*Notifier, error) {

	n := &Notifier{
		client:  client,
		matches: matches,
		pending: make(map[int][]events.MatchFound),
	}

	if err := bus.Subscribe(events.MatchFoundTopic, n.onMatchFound); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Notifier) onMatchFound(event events.MatchFound) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending[event.Profile.IssueNumber] = append(n.pending[event.Profile.IssueNumber], event)
}

// Flush posts the collected matches grouped per profile issue. A failed
// comment leaves its pairs unmarked, so they are retried next run.
func (n *Notifier) Flush(ctx context.Context) error {

	n.mu.Lock()
	pending := n.pending
	n.pending = make(map[int][]events.MatchFound)
	n.mu.Unlock()

	issueNumbers := make([]int, 0, len(pending))
	for issueNumber := range pending {
		issueNumbers = append(issueNumbers, issueNumber)
	}
	sort.Ints(issueNumbers)

	now := time.Now().UTC()
	for _, issueNumber := range issueNumbers {

		matches := pending[issueNumber]
		comment := formatMatchComment(matches, now)

		if err := n.client.PostComment(ctx, issueNumber, comment); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeGithub).
				Errorf("failed to post match comment to issue #%v: %v", issueNumber, err)
			continue
		}

		for _, match := range matches {
			err := n.matches.MarkNotified(ctx, match.Profile.Identity, match.Posting.Fingerprint, now)
			if err != nil {
				log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
					Errorf("failed to mark match as notified: %v", err)
			}
		}
		log.Infof("notified issue #%v about %v matches", issueNumber, len(matches))
	}

	return nil
}

var matchedOnLabels = map[string]string{
	entities.MatchedOnRole:     "직무",
	entities.MatchedOnSkills:   "기술",
	entities.MatchedOnLocation: "근무지",
}

func formatMatchComment(matches []events.MatchFound, now time.Time) string {

	var b strings.Builder
	fmt.Fprintf(&b, "## 새로운 매칭 공고 (%v)\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "총 **%v건**의 공고가 프로필과 매칭되었습니다.\n\n", len(matches))
	b.WriteString("| 회사 | 포지션 | 매칭률 | 마감 | 매칭 기준 |\n")
	b.WriteString("|------|--------|--------|------|-----------|\n")

	for _, match := range matches {
		posting := match.Posting

		deadline := "상시"
		if posting.Deadline != nil {
			deadline = posting.Deadline.Format("2006-01-02")
		}

		criteria := make([]string, 0, len(match.Record.MatchedOnTags()))
		for _, tag := range match.Record.MatchedOnTags() {
			if label, ok := matchedOnLabels[tag]; ok {
				criteria = append(criteria, label)
			}
		}

		fmt.Fprintf(&b, "| [%v](%v) | %v | **%.0f%%** | %v | %v |\n",
			truncate(posting.Company, 10), posting.SourceURL, truncate(posting.Title, 25),
			match.Record.Score*100, deadline, strings.Join(criteria, ", "))
	}

	b.WriteString("\n---\n*자동 생성된 매칭 결과입니다.*\n")
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
