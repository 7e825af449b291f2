package inthiswork

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/GeonYul2/Recruitment-Auto/internal/crawler"
	"github.com/GeonYul2/Recruitment-Auto/internal/logger"
	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

const (
	SourceName = "inthiswork"
	baseURL    = "https://inthiswork.com"
)

// Posts follow the board convention "[회사명] 포지션 (~MM/DD)"; entries that do
// not carry a bracketed company name are not job postings and are dropped.
var (
	titleExpr    = regexp.MustCompile(`^\[([^\]]+)\]\s*(.+)$`)
	deadlineExpr = regexp.MustCompile(`[(（]\s*(~[^)）]*|상시[^)）]*)[)）]\s*$`)
	archiveExpr  = regexp.MustCompile(`/archives/(\d+)`)
)

// Client crawls the inthiswork WordPress archive. The board has no search
// API, so every recruit post is fetched and filtering happens downstream in
// the normalizer.
type Client struct {
	fetcher  *crawler.Fetcher
	maxPages int
}

func NewClient(fetcher *crawler.Fetcher, maxPages int) *Client {
	return &Client{fetcher: fetcher, maxPages: maxPages}
}

func (c *Client) Source() string {
	return SourceName
}

func (c *Client) FetchPostings(ctx context.Context) (*crawler.FetchResult, error) {

	result := &crawler.FetchResult{}
	seen := map[string]struct{}{}

	for page := 1; page <= c.maxPages; page++ {

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		doc, err := c.fetcher.Document(ctx, pageURL(page))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeSite).
				Errorf("inthiswork: skipping page %d: %v", page, err)
			result.PagesSkipped++
			continue
		}

		result.PagesFetched++

		if c.extractPostings(doc, seen, result) == 0 {
			break
		}
	}

	if result.PagesFetched == 0 && result.PagesSkipped > 0 {
		return nil, fmt.Errorf("inthiswork crawl failed: all %d pages skipped", result.PagesSkipped)
	}

	return result, nil
}

func (c *Client) extractPostings(doc *goquery.Document, seen map[string]struct{}, result *crawler.FetchResult) int {

	newItems := 0

	doc.Find("article").Each(func(_ int, article *goquery.Selection) {
		raw, err := parseArticle(article)
		if err != nil {
			log.Debugf("inthiswork: dropping entry: %v", err)
			result.ItemsDropped++
			return
		}

		if _, ok := seen[raw.SourceID]; ok {
			return
		}
		seen[raw.SourceID] = struct{}{}

		result.Postings = append(result.Postings, raw)
		newItems++
	})

	return newItems
}

func parseArticle(article *goquery.Selection) (crawler.RawPosting, error) {

	link := article.Find("h2 a, h3 a").First()
	fullTitle := strings.TrimSpace(link.Text())
	href, _ := link.Attr("href")

	id := archiveID(href)
	if id == "" {
		return crawler.RawPosting{}, fmt.Errorf("entry %q without archive id", fullTitle)
	}

	groups := titleExpr.FindStringSubmatch(fullTitle)
	if groups == nil {
		return crawler.RawPosting{}, fmt.Errorf("entry %q is not a posting", fullTitle)
	}
	company := strings.TrimSpace(groups[1])
	title := strings.TrimSpace(groups[2])

	deadline := ""
	if d := deadlineExpr.FindStringSubmatch(title); d != nil {
		deadline = strings.TrimSpace(d[1])
		title = strings.TrimSpace(deadlineExpr.ReplaceAllString(title, ""))
	}

	excerpt := strings.TrimSpace(article.Find(".entry-summary, .entry-content").First().Text())

	return crawler.RawPosting{
		Source:       SourceName,
		SourceID:     id,
		Company:      company,
		Title:        title,
		DeadlineText: deadline,
		Description:  excerpt,
		URL:          href,
	}, nil
}

func archiveID(href string) string {
	groups := archiveExpr.FindStringSubmatch(href)
	if groups == nil {
		return ""
	}
	return groups[1]
}

func pageURL(page int) string {
	if page == 1 {
		return baseURL + "/archives/category/recruit-info"
	}
	return fmt.Sprintf("%s/archives/category/recruit-info/page/%d", baseURL, page)
}
