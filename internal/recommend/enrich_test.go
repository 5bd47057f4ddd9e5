package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedViews map[int64]int64

func (v fixedViews) Views(_ context.Context, id int64) (int64, error) {
	return v[id], nil
}

func TestEnrichRelatedCategories(t *testing.T) {
	src := &fakeWiki{pageCats: map[int64][]string{
		1: {"Category:Science", "Category:Mathematics"},
	}}

	out, lost := NewEnricher(src).Enrich(context.Background(),
		[]string{"Science", "Health"},
		[]Article{{ID: 1, Title: "Algebra", RelatedCategories: []string{"Health"}}},
	)

	assert.Empty(t, lost)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"Science"}, out[0].RelatedCategories)
	assert.Empty(t, out[0].CleanupMessages)
}

func TestEnrichKeepsDegradedArticles(t *testing.T) {
	src := &fakeWiki{
		pageCats: map[int64][]string{
			2: {"Category:Health", "Category:Articles needing additional references from March 2021"},
		},
		catsErr: map[int64]error{1: errors.New("503")},
	}

	out, lost := NewEnricher(src, WithConcurrency(1)).Enrich(context.Background(),
		[]string{"Health"},
		[]Article{
			{ID: 1, Title: "broken", RelatedCategories: []string{"Health"}, SearchRank: 0},
			{ID: 2, Title: "fine", RelatedCategories: []string{"Health"}, SearchRank: 1},
		},
	)

	require.Len(t, out, 2)
	assert.Equal(t, []string{"broken", "fine"}, titles(out))

	assert.Empty(t, out[0].RelatedCategories)
	assert.Empty(t, out[0].CleanupMessages)
	require.Len(t, lost, 1)
	assert.Equal(t, "article:1", lost[0].Unit)

	assert.Equal(t, []string{"Health"}, out[1].RelatedCategories)
	assert.Equal(t, []string{"Articles needing additional references"}, out[1].CleanupMessages)
	assert.Equal(t, 90.0, out[1].Relevance)
}

func TestEnrichViews(t *testing.T) {
	src := &fakeWiki{pageCats: map[int64][]string{}}

	out, _ := NewEnricher(src).Enrich(context.Background(), nil, []Article{{ID: 5}})
	assert.Zero(t, out[0].Views)

	out, _ = NewEnricher(src, WithViewCounter(fixedViews{5: 1200})).Enrich(context.Background(), nil, []Article{{ID: 5}})
	assert.Equal(t, int64(1200), out[0].Views)
}

func TestMatchInterests(t *testing.T) {
	got := MatchInterests(
		[]string{"Arts and Crafts", "Science", "History"},
		[]string{"Category:History", "Category:Arts_and_crafts"},
	)
	assert.Equal(t, []string{"Arts and Crafts", "History"}, got)
	assert.Empty(t, MatchInterests([]string{"Science"}, nil))
}

func TestCleanupMessages(t *testing.T) {
	got := CleanupMessages([]string{
		"Category:Science",
		"Category:All articles with unsourced statements",
		"Category:Articles with unsourced statements from May 2020",
		"Category:Articles with unsourced statements from June 2021",
		"Category:Wikipedia articles needing clarification from July 2019",
		"Category:Orphaned articles",
		"Category:Living people",
	})

	assert.Equal(t, []string{
		"Articles with unsourced statements",
		"Wikipedia articles needing clarification",
		"Orphaned articles",
	}, got)
}

func TestRank(t *testing.T) {
	tests := []struct {
		name string
		a    Article
		want float64
	}{
		{"top hit", Article{SearchRank: 0}, 100},
		{"fourth hit", Article{SearchRank: 3}, 70},
		{"floor", Article{SearchRank: 15}, 0},
		{"bonus per extra interest", Article{SearchRank: 1, RelatedCategories: []string{"a", "b", "c"}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rank(tt.a))
		})
	}
}
