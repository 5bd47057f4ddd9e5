package wiki

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const categoriesPerPage = 50

// categoryPrefix is the namespace prefix on category titles.
const categoryPrefix = "Category:"

// PageCategories returns the category names (namespace prefix stripped) of
// one page, following clcontinue until limit names are collected or the
// API has no more.
func (c *Client) PageCategories(ctx context.Context, pageID int64, limit int) ([]string, error) {
	if limit <= 0 {
		limit = categoriesPerPage
	}

	var names []string
	cont := ""
	for len(names) < limit {
		params := url.Values{}
		params.Set("prop", "categories")
		params.Set("pageids", strconv.FormatInt(pageID, 10))
		params.Set("cllimit", strconv.Itoa(categoriesPerPage))
		if cont != "" {
			params.Set("clcontinue", cont)
		}

		var result pagesResponse
		if err := c.getJSON(ctx, "categories", c.actionURL(params), &result); err != nil {
			return nil, err
		}
		if result.Error != nil {
			return nil, result.Error
		}

		for _, p := range result.Query.Pages {
			if p.PageID != pageID {
				continue
			}
			for _, cat := range p.Categories {
				names = append(names, strings.TrimPrefix(cat.Title, categoryPrefix))
			}
		}

		cont = result.Continue.CLContinue
		if cont == "" {
			break
		}
	}

	if len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}
