package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// maxTitlesPerQuery is the MediaWiki limit for titles= on anonymous requests.
const maxTitlesPerQuery = 50

// SearchCategory runs a full-text search restricted to one category and
// returns at most limit hits in search order.
func (c *Client) SearchCategory(ctx context.Context, category string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("list", "search")
	params.Set("srsearch", fmt.Sprintf("incategory:%q", category))
	params.Set("srlimit", strconv.Itoa(limit))

	var result searchResponse
	if err := c.getJSON(ctx, "search", c.actionURL(params), &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}

	hits := result.Query.Search
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// ResolveTitles looks up canonical page ids and titles for the given titles,
// maxTitlesPerQuery at a time. Missing pages are dropped. The result follows
// the order of titles where the API echoes them back unchanged; normalized
// titles are appended in API order.
func (c *Client) ResolveTitles(ctx context.Context, titles []string) ([]Page, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	var pages []Page
	seen := make(map[int64]bool, len(titles))
	for start := 0; start < len(titles); start += maxTitlesPerQuery {
		batch := titles[start:min(start+maxTitlesPerQuery, len(titles))]
		found, err := c.resolveBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			if !seen[p.PageID] {
				pages = append(pages, p)
				seen[p.PageID] = true
			}
		}
	}
	return pages, nil
}

func (c *Client) resolveBatch(ctx context.Context, titles []string) ([]Page, error) {
	params := url.Values{}
	params.Set("titles", strings.Join(titles, "|"))

	var result pagesResponse
	if err := c.getJSON(ctx, "titles", c.actionURL(params), &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}

	byTitle := make(map[string]Page, len(result.Query.Pages))
	var found []Page
	for _, p := range result.Query.Pages {
		if p.Missing || p.PageID <= 0 {
			continue
		}
		byTitle[p.Title] = p
		found = append(found, p)
	}

	pages := make([]Page, 0, len(found))
	seen := make(map[int64]bool, len(found))
	for _, t := range titles {
		if p, ok := byTitle[t]; ok && !seen[p.PageID] {
			pages = append(pages, p)
			seen[p.PageID] = true
		}
	}
	for _, p := range found {
		if !seen[p.PageID] {
			pages = append(pages, p)
			seen[p.PageID] = true
		}
	}
	return pages, nil
}
