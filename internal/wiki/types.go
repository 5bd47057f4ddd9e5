package wiki

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
)

// Page is a page record as returned by prop/titles queries.
type Page struct {
	PageID     int64         `json:"pageid"`
	NS         int           `json:"ns"`
	Title      string        `json:"title"`
	Missing    FlexibleFlag  `json:"missing,omitempty"`
	Categories []CategoryRef `json:"categories,omitempty"`
}

// CategoryRef is one entry of a page's categories list ("Category:<name>").
type CategoryRef struct {
	NS    int    `json:"ns"`
	Title string `json:"title"`
}

// SearchHit is one list=search result.
type SearchHit struct {
	NS     int    `json:"ns"`
	Title  string `json:"title"`
	PageID int64  `json:"pageid"`
}

// FlexibleFlag decodes the MediaWiki boolean marker, which is an empty
// string in formatversion=1 and true in formatversion=2.
type FlexibleFlag bool

// UnmarshalJSON implements custom JSON unmarshaling for FlexibleFlag
func (f *FlexibleFlag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "false", "null":
		*f = false
	default:
		*f = true
	}
	return nil
}

// Pages decodes the "pages" member in either shape: an object keyed by page
// id (formatversion=1) or an array (formatversion=2). Object form is sorted
// by key so output order is deterministic.
type Pages []Page

// UnmarshalJSON implements custom JSON unmarshaling for Pages
func (p *Pages) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*p = nil
		return nil
	}

	if data[0] == '[' {
		var list []Page
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*p = list
		return nil
	}

	if data[0] != '{' {
		return fmt.Errorf("unexpected pages value: %s", string(data))
	}

	var byID map[string]Page
	if err := json.Unmarshal(data, &byID); err != nil {
		return err
	}
	keys := make([]string, 0, len(byID))
	for k := range byID {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]Page, 0, len(byID))
	for _, k := range keys {
		list = append(list, byID[k])
	}
	*p = list
	return nil
}

// APIError is the error object MediaWiki returns with a 200 status.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mediawiki error %s: %s", e.Code, e.Info)
}

type searchResponse struct {
	Error *APIError `json:"error"`
	Query struct {
		Search []SearchHit `json:"search"`
	} `json:"query"`
}

type pagesResponse struct {
	Error    *APIError `json:"error"`
	Continue struct {
		CLContinue string `json:"clcontinue"`
	} `json:"continue"`
	Query struct {
		Pages Pages `json:"pages"`
	} `json:"query"`
}

// TopArticle is one entry of the Wikimedia top-pageviews ranking.
type TopArticle struct {
	Article string `json:"article"`
	Views   int64  `json:"views"`
	Rank    int    `json:"rank"`
}

type topResponse struct {
	Items []struct {
		Articles []TopArticle `json:"articles"`
	} `json:"items"`
}
