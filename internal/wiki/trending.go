package wiki

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const trendingSize = 10

// TopPages returns the most viewed English Wikipedia articles for day,
// skipping the main page and special pages.
func (c *Client) TopPages(ctx context.Context, day time.Time) ([]TopArticle, error) {
	reqURL := fmt.Sprintf("%s/metrics/pageviews/top/en.wikipedia/all-access/%s",
		strings.TrimRight(c.restURL, "/"), day.UTC().Format("2006/01/02"))

	var result topResponse
	if err := c.getJSON(ctx, "pageviews-top", reqURL, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	var top []TopArticle
	for _, a := range result.Items[0].Articles {
		if a.Article == "Main_Page" || strings.HasPrefix(a.Article, "Special:") {
			continue
		}
		top = append(top, a)
		if len(top) == trendingSize {
			break
		}
	}
	return top, nil
}

// DisplayTitle turns an article path segment into a readable title.
func DisplayTitle(article string) string {
	return strings.ReplaceAll(article, "_", " ")
}

// ArticleURL returns the canonical link for a page id.
func ArticleURL(pageID int64) string {
	return fmt.Sprintf("https://en.wikipedia.org/?curid=%d", pageID)
}
