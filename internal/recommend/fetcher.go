package recommend

import "context"

// Strategy names a CandidateFetcher implementation.
type Strategy string

const (
	StrategyBackend Strategy = "backend"
	StrategySearch  Strategy = "search"
)

// Candidates is the output of one fetch: deduplicated articles plus the
// sub-calls that degraded along the way.
type Candidates struct {
	Articles []Article
	Degraded []DegradedResult
	// Enriched is true when the articles already carry authoritative
	// categories and cleanup messages (backend results).
	Enriched bool
}

// CandidateFetcher turns interests into a deduplicated candidate list.
type CandidateFetcher interface {
	Fetch(ctx context.Context, interests []string) (Candidates, error)
	Strategy() Strategy
}

// dedupe keeps the first occurrence of every id, preserving order.
func dedupe(articles []Article) []Article {
	seen := make(map[int64]bool, len(articles))
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out
}
