package recommend

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wikify/wikify/internal/logging"
	"github.com/wikify/wikify/internal/metrics"
)

const (
	defaultCategoryLimit     = 50
	defaultEnrichConcurrency = 8
)

// CategorySource returns the category names of a page, namespace stripped.
type CategorySource interface {
	PageCategories(ctx context.Context, pageID int64, limit int) ([]string, error)
}

// ViewCounter returns a view count for a page.
type ViewCounter interface {
	Views(ctx context.Context, pageID int64) (int64, error)
}

// DisabledViews is the view counter in use: the pageview integration is
// switched off and every article reports zero.
type DisabledViews struct{}

func (DisabledViews) Views(context.Context, int64) (int64, error) { return 0, nil }

// Enricher resolves each candidate's real categories, keeps the ones that
// match the user's interests, and collects cleanup messages from the
// maintenance categories.
type Enricher struct {
	categories  CategorySource
	views       ViewCounter
	limit       int
	concurrency int
}

// EnricherOption configures an Enricher
type EnricherOption func(*Enricher)

// WithCategoryLimit caps the categories read per article
func WithCategoryLimit(n int) EnricherOption {
	return func(e *Enricher) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithConcurrency caps the number of articles looked up at once
func WithConcurrency(n int) EnricherOption {
	return func(e *Enricher) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithViewCounter replaces the disabled view counter
func WithViewCounter(v ViewCounter) EnricherOption {
	return func(e *Enricher) {
		if v != nil {
			e.views = v
		}
	}
}

func NewEnricher(categories CategorySource, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		categories:  categories,
		views:       DisabledViews{},
		limit:       defaultCategoryLimit,
		concurrency: defaultEnrichConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type enrichment struct {
	categories []string
	views      int64
}

// Enrich returns one article per candidate, in candidate order. A failed
// lookup leaves that article with no related categories and no cleanup
// messages instead of dropping it.
func (e *Enricher) Enrich(ctx context.Context, interests []string, candidates []Article) ([]Article, []DegradedResult) {
	results := make([]Result[enrichment], len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, c := range candidates {
		g.Go(func() error {
			results[i] = e.lookup(gctx, c.ID)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Article, len(candidates))
	var lost []DegradedResult
	for i, c := range candidates {
		a := c
		res := results[i]
		if !res.OK() {
			logging.Warn().Int64("article_id", c.ID).Str("unit", res.Degraded.Unit).Err(res.Degraded.Err).Msg("article enrichment degraded")
			metrics.DegradedTotal.WithLabelValues("article").Inc()
			lost = append(lost, *res.Degraded)
		}
		a.RelatedCategories = MatchInterests(interests, res.Value.categories)
		a.CleanupMessages = CleanupMessages(res.Value.categories)
		a.Views = res.Value.views
		a.Relevance = Rank(a)
		out[i] = a
	}
	return out, lost
}

// lookup runs the category and view-count calls for one article in parallel.
func (e *Enricher) lookup(ctx context.Context, pageID int64) Result[enrichment] {
	var (
		inner errgroup.Group
		cats  []string
		views int64
	)
	inner.Go(func() error {
		var err error
		cats, err = e.categories.PageCategories(ctx, pageID, e.limit)
		return err
	})
	inner.Go(func() error {
		// A failed view count is not worth degrading the article for.
		views, _ = e.views.Views(ctx, pageID)
		return nil
	})
	if err := inner.Wait(); err != nil {
		return degrade[enrichment]("article:"+strconv.FormatInt(pageID, 10), asParseError("categories", err))
	}
	return succeeded(enrichment{categories: cats, views: views})
}

// MatchInterests returns the interests (in interest order and spelling)
// that equal at least one of categories under Normalize.
func MatchInterests(interests, categories []string) []string {
	have := make(map[string]bool, len(categories))
	for _, c := range categories {
		have[Normalize(StripNamespace(c))] = true
	}

	var matched []string
	for _, i := range interests {
		if have[Normalize(StripNamespace(i))] {
			matched = append(matched, i)
		}
	}
	return matched
}

// Maintenance category name prefixes that indicate an article needs work.
var cleanupPrefixes = []string{
	"articles needing ",
	"articles lacking ",
	"articles with unsourced statements",
	"articles with dead external links",
	"articles with multiple maintenance issues",
	"articles that may contain original research",
	"articles with topics of unclear notability",
	"articles with a promotional tone",
	"articles with obsolete information",
	"articles to be expanded",
	"articles to be merged",
	"articles to be split",
	"orphaned articles",
	"dead-end pages",
	"cleanup tagged articles",
	"wikipedia articles needing ",
	"wikipedia articles with style issues",
	"wikipedia articles that are too technical",
	"wikipedia introduction cleanup",
}

var datedSuffix = regexp.MustCompile(` from (January|February|March|April|May|June|July|August|September|October|November|December) \d{4}$`)

// CleanupMessages picks the maintenance categories out of a category list.
// Month stamps are dropped, "All ..." roll-up categories are skipped and
// repeats are removed.
func CleanupMessages(categories []string) []string {
	var msgs []string
	seen := make(map[string]bool)
	for _, c := range categories {
		name := StripNamespace(strings.ReplaceAll(c, "_", " "))
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "all ") || !isCleanupCategory(lower) {
			continue
		}
		msg := datedSuffix.ReplaceAllString(name, "")
		if seen[msg] {
			continue
		}
		seen[msg] = true
		msgs = append(msgs, msg)
	}
	return msgs
}

func isCleanupCategory(lower string) bool {
	for _, p := range cleanupPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// Rank scores a direct-search article: the earlier it appeared in search
// results the higher, plus a bonus for every extra matched interest.
func Rank(a Article) float64 {
	score := 100 - 10*a.SearchRank
	if score < 0 {
		score = 0
	}
	if n := len(a.RelatedCategories); n > 1 {
		score += 5 * (n - 1)
	}
	return float64(score)
}
