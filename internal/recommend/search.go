package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/wikify/wikify/internal/logging"
	"github.com/wikify/wikify/internal/metrics"
	"github.com/wikify/wikify/internal/wiki"
)

const defaultSearchLimit = 10

// SearchSource is the part of the wiki client used by SearchFetcher.
type SearchSource interface {
	SearchCategory(ctx context.Context, category string, limit int) ([]wiki.SearchHit, error)
	ResolveTitles(ctx context.Context, titles []string) ([]wiki.Page, error)
}

// SearchFetcher queries the wiki search API once per interest and merges
// the results. Categories are queried one after another so the outbound
// rate limit applies in a steady order.
type SearchFetcher struct {
	source SearchSource
	limit  int
}

// NewSearchFetcher creates a direct-search fetcher. limit caps results per
// category (10 when zero).
func NewSearchFetcher(source SearchSource, limit int) *SearchFetcher {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return &SearchFetcher{source: source, limit: limit}
}

func (f *SearchFetcher) Strategy() Strategy { return StrategySearch }

// Fetch searches every interest. A category whose search or title lookup
// fails contributes nothing and is reported in Candidates.Degraded. If every
// category fails the whole fetch fails.
func (f *SearchFetcher) Fetch(ctx context.Context, interests []string) (Candidates, error) {
	var (
		merged   []Article
		degraded []DegradedResult
		causes   []error
	)

	for _, category := range interests {
		if err := ctx.Err(); err != nil {
			return Candidates{}, &FetchError{Err: err}
		}

		res := f.searchOne(ctx, category)
		if !res.OK() {
			logging.Warn().Str("unit", res.Degraded.Unit).Err(res.Degraded.Err).Msg("category search degraded")
			metrics.DegradedTotal.WithLabelValues("category").Inc()
			degraded = append(degraded, *res.Degraded)
			causes = append(causes, res.Degraded)
			continue
		}
		merged = append(merged, res.Value...)
	}

	if len(interests) > 0 && len(degraded) == len(interests) {
		return Candidates{Degraded: degraded}, &FetchError{Err: fmt.Errorf("all category searches failed: %w", errors.Join(causes...))}
	}

	return Candidates{Articles: dedupe(merged), Degraded: degraded}, nil
}

func (f *SearchFetcher) searchOne(ctx context.Context, category string) Result[[]Article] {
	unit := "category:" + category

	hits, err := f.source.SearchCategory(ctx, category, f.limit)
	if err != nil {
		return degrade[[]Article](unit, asParseError("search", err))
	}
	if len(hits) == 0 {
		return succeeded[[]Article](nil)
	}

	titles := make([]string, 0, len(hits))
	rank := make(map[string]int, len(hits))
	for i, h := range hits {
		titles = append(titles, h.Title)
		rank[h.Title] = i
	}

	pages, err := f.source.ResolveTitles(ctx, titles)
	if err != nil {
		return degrade[[]Article](unit, asParseError("titles", err))
	}

	articles := make([]Article, 0, len(pages))
	for i, p := range pages {
		r, ok := rank[p.Title]
		if !ok {
			r = i
		}
		articles = append(articles, Article{
			ID:                p.PageID,
			Title:             p.Title,
			RelatedCategories: []string{category},
			SearchRank:        r,
		})
	}
	return succeeded(articles)
}

// asParseError converts wiki decode failures into ParseError so every
// malformed-body case looks the same to callers.
func asParseError(source string, err error) error {
	var de *wiki.DecodeError
	if errors.As(err, &de) {
		return &ParseError{Source: source, Err: de.Err}
	}
	return err
}
