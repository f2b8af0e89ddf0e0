// Package news looks up recent headlines for a symbol via the Google News
// RSS gateway, filtered to the main Vietnamese financial outlets. It is a
// plain lookup: no retry or fallback contract applies here.
package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"sharkwatch/internal/model"
)

const searchURL = "https://news.google.com/rss/search?q=%s&hl=vi&gl=VN&ceid=VN:vi"

var siteFilters = []string{"cafef.vn", "vietstock.vn", "tinnhanhchungkhoan.vn"}

// Client fetches and parses the news feed.
type Client struct {
	parser    *gofeed.Parser
	searchURL string
	maxItems  int
	now       func() time.Time
}

// NewClient creates a news client with the given fetch timeout and result cap.
func NewClient(timeout time.Duration, maxItems int) *Client {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	if maxItems <= 0 {
		maxItems = 10
	}
	return &Client{parser: p, searchURL: searchURL, maxItems: maxItems, now: time.Now}
}

// Search returns up to maxItems headlines mentioning the symbol.
func (c *Client) Search(ctx context.Context, symbol string) ([]model.NewsItem, error) {
	query := fmt.Sprintf("%q AND (site:%s OR site:%s OR site:%s)",
		symbol, siteFilters[0], siteFilters[1], siteFilters[2])
	feedURL := fmt.Sprintf(c.searchURL, url.QueryEscape(query))

	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch news feed: %w", err)
	}

	items := make([]model.NewsItem, 0, c.maxItems)
	for _, entry := range feed.Items {
		if len(items) >= c.maxItems {
			break
		}
		date := c.now().Format("2006-01-02")
		if entry.PublishedParsed != nil {
			date = entry.PublishedParsed.Format("2006-01-02")
		}
		items = append(items, model.NewsItem{
			Title:       entry.Title,
			Link:        entry.Link,
			PublishDate: date,
			Source:      "Google News",
		})
	}
	return items, nil
}
