package recommend

import (
	"github.com/goccy/go-json"
)

// Article is one suggestion. It is not modified after it enters a store.
type Article struct {
	ID                int64    `json:"id"`
	Title             string   `json:"title"`
	RelatedCategories []string `json:"relatedCategories"`
	CleanupMessages   []string `json:"cleanupMessages"`
	Relevance         float64  `json:"relevance"`
	Views             int64    `json:"views,omitempty"`

	// SearchRank is the zero-based position in the category search that
	// first produced the article.
	SearchRank int `json:"-"`
}

// CleanupCount is the number of cleanup messages, the unit of the score.
func (a Article) CleanupCount() int {
	return len(a.CleanupMessages)
}

// UnmarshalJSON accepts both the current field names and the older
// pageid/cleanup_messages spelling.
func (a *Article) UnmarshalJSON(data []byte) error {
	type plain Article
	var raw struct {
		plain
		PageID             int64    `json:"pageid"`
		LegacyCleanupNotes []string `json:"cleanup_messages"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = Article(raw.plain)
	if a.ID == 0 {
		a.ID = raw.PageID
	}
	if a.CleanupMessages == nil {
		a.CleanupMessages = raw.LegacyCleanupNotes
	}
	return nil
}

func cloneArticle(a Article) Article {
	a.RelatedCategories = append([]string(nil), a.RelatedCategories...)
	a.CleanupMessages = append([]string(nil), a.CleanupMessages...)
	return a
}
