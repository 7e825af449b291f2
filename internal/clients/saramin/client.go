package saramin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/GeonYul2/Recruitment-Auto/internal/crawler"
	"github.com/GeonYul2/Recruitment-Auto/internal/logger"
	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

const (
	SourceName = "saramin"
	searchURL  = "https://www.saramin.co.kr/zf_user/search/recruit"
)

// Client crawls Saramin keyword-search listing pages. One search is issued
// per configured job keyword; results are merged and deduplicated by the
// site's recruitment id.
type Client struct {
	fetcher  *crawler.Fetcher
	keywords []string
	maxPages int
}

func NewClient(fetcher *crawler.Fetcher, keywords []string, maxPages int) *Client {
	return &Client{fetcher: fetcher, keywords: keywords, maxPages: maxPages}
}

func (c *Client) Source() string {
	return SourceName
}

func (c *Client) FetchPostings(ctx context.Context) (*crawler.FetchResult, error) {

	// an empty crawl must not pass as a successful zero-posting observation
	if len(c.keywords) == 0 {
		return nil, fmt.Errorf("saramin: no job keywords configured")
	}

	result := &crawler.FetchResult{}
	seen := map[string]struct{}{}

	for _, keyword := range c.keywords {
		if err := c.crawlKeyword(ctx, keyword, seen, result); err != nil {
			return nil, err
		}
	}

	if result.PagesFetched == 0 && result.PagesSkipped > 0 {
		return nil, fmt.Errorf("saramin crawl failed: all %d pages skipped", result.PagesSkipped)
	}

	return result, nil
}

func (c *Client) crawlKeyword(ctx context.Context, keyword string, seen map[string]struct{}, result *crawler.FetchResult) error {

	for page := 1; page <= c.maxPages; page++ {

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		doc, err := c.fetcher.Document(ctx, pageURL(keyword, page))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeSite).
				Errorf("saramin: skipping page %d for %q: %v", page, keyword, err)
			result.PagesSkipped++
			continue
		}

		result.PagesFetched++

		newItems := c.extractPostings(doc, seen, result)
		if newItems == 0 {
			break
		}
	}

	return nil
}

func (c *Client) extractPostings(doc *goquery.Document, seen map[string]struct{}, result *crawler.FetchResult) int {

	newItems := 0

	doc.Find("div.item_recruit").Each(func(_ int, item *goquery.Selection) {
		raw, err := parseItem(item)
		if err != nil {
			log.Debugf("saramin: dropping item: %v", err)
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

func parseItem(item *goquery.Selection) (crawler.RawPosting, error) {

	titleLink := item.Find(".job_tit a").First()
	title := strings.TrimSpace(titleLink.AttrOr("title", ""))
	if title == "" {
		title = strings.TrimSpace(titleLink.Text())
	}
	if title == "" {
		return crawler.RawPosting{}, fmt.Errorf("item without title")
	}

	href, _ := titleLink.Attr("href")
	sourceID := recruitmentID(href)
	if sourceID == "" {
		return crawler.RawPosting{}, fmt.Errorf("item %q without rec_idx", title)
	}

	company := strings.TrimSpace(item.Find(".corp_name a").First().Text())
	if company == "" {
		return crawler.RawPosting{}, fmt.Errorf("item %q without company", title)
	}

	conditions := item.Find(".job_condition span")
	location := strings.TrimSpace(conditions.Eq(0).Text())
	experience := strings.TrimSpace(conditions.Eq(1).Text())

	deadline := strings.TrimSpace(item.Find(".job_date .date").First().Text())
	sector := strings.TrimSpace(item.Find(".job_sector").First().Text())

	return crawler.RawPosting{
		Source:         SourceName,
		SourceID:       sourceID,
		Company:        company,
		Title:          title,
		Location:       location,
		ExperienceText: experience,
		DeadlineText:   deadline,
		Description:    sector,
		URL:            absoluteURL(href),
	}, nil
}

func recruitmentID(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return parsed.Query().Get("rec_idx")
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return "https://www.saramin.co.kr" + href
}

func pageURL(keyword string, page int) string {
	params := url.Values{}
	params.Set("searchword", keyword)
	params.Set("recruitPage", strconv.Itoa(page))
	params.Set("recruitSort", "relation")
	params.Set("recruitPageCount", "40")
	return searchURL + "?" + params.Encode()
}
