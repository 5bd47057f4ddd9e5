package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher returns canned candidates; block, when set, holds Fetch until
// it is closed.
type stubFetcher struct {
	candidates Candidates
	err        error
	block      chan struct{}
	calls      int
}

func (f *stubFetcher) Fetch(ctx context.Context, _ []string) (Candidates, error) {
	f.calls++
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return Candidates{}, &FetchError{Err: ctx.Err()}
		}
	}
	return f.candidates, f.err
}

func (f *stubFetcher) Strategy() Strategy { return StrategyBackend }

func TestSessionRefresh(t *testing.T) {
	f := &stubFetcher{candidates: Candidates{
		Articles: []Article{article(1, "a", "b")},
		Enriched: true,
	}}
	s := NewSession(f, nil, nil)

	res, err := s.Refresh(context.Background(), []string{"History"})
	require.NoError(t, err)
	assert.Equal(t, Generation(1), res.Generation)
	assert.Equal(t, 1, s.Store().Len())
	assert.NotEmpty(t, s.ID)
}

func TestSessionGenerationDiscard(t *testing.T) {
	s := NewSession(&stubFetcher{}, nil, NewStore(DoneRetain))

	gen1 := s.Begin()
	first := CycleResult{Generation: gen1, Articles: []Article{article(1), article(2)}}

	gen2 := s.Begin()
	assert.Greater(t, gen2, gen1)

	second := CycleResult{Generation: gen2, Articles: []Article{article(3)}}
	assert.True(t, s.Apply(second))

	assert.False(t, s.Apply(first), "generation 1 finished after generation 2 started")
	assert.Equal(t, 1, s.Store().Len())
	_, ok := s.Store().Get(3)
	assert.True(t, ok)
}

func TestSessionStaleRefresh(t *testing.T) {
	f := &stubFetcher{
		candidates: Candidates{Articles: []Article{article(1)}, Enriched: true},
		block:      make(chan struct{}),
	}
	s := NewSession(f, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Refresh(context.Background(), []string{"Science"})
		done <- err
	}()

	// Wait for the first cycle to claim generation 1 before superseding it.
	require.Eventually(t, func() bool { return s.Current() == 1 }, time.Second, time.Millisecond)
	s.Begin()
	close(f.block)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.Zero(t, s.Store().Len())
}

func TestSessionRunEnrichesSearchResults(t *testing.T) {
	f := &stubFetcher{candidates: Candidates{Articles: []Article{
		{ID: 1, Title: "Algebra", RelatedCategories: []string{"Science"}},
	}}}
	src := &fakeWiki{pageCats: map[int64][]string{1: {"Category:Mathematics", "Category:Orphaned articles"}}}
	s := NewSession(f, NewEnricher(src), nil)

	res, err := s.Run(context.Background(), s.Begin(), []string{"Science"})
	require.NoError(t, err)
	require.Len(t, res.Articles, 1)
	assert.Empty(t, res.Articles[0].RelatedCategories)
	assert.Equal(t, []string{"Orphaned articles"}, res.Articles[0].CleanupMessages)
	assert.Zero(t, s.Store().Len(), "Run does not touch the store")
}

func TestSessionRunNoInterests(t *testing.T) {
	f := &stubFetcher{}
	s := NewSession(f, nil, nil)

	res, err := s.Run(context.Background(), s.Begin(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Articles)
	assert.Zero(t, f.calls)
}

func TestSessionRunFetchError(t *testing.T) {
	f := &stubFetcher{err: &FetchError{Status: "500 Internal Server Error"}}
	s := NewSession(f, nil, nil)
	s.Store().Replace([]Article{article(9)})

	_, err := s.Refresh(context.Background(), []string{"Science"})
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
	assert.Equal(t, 1, s.Store().Len(), "store keeps the previous list")

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "fetch failed: 500 Internal Server Error", fe.Error())
}

func TestSessionApplyRacesBegin(t *testing.T) {
	s := NewSession(&stubFetcher{}, nil, nil)

	// Each result carries its generation as the article id; when the store
	// changes, that generation must still be the current one.
	var mismatches atomic.Int32
	unsubscribe := s.Store().Subscribe(func(Summary) {
		articles := s.Store().Articles()
		if len(articles) == 1 && Generation(articles[0].ID) != s.Current() {
			mismatches.Add(1)
		}
	})
	defer unsubscribe()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			s.Begin()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			gen := s.Current()
			s.Apply(CycleResult{Generation: gen, Articles: []Article{{ID: int64(gen)}}})
		}
	}()
	wg.Wait()

	assert.Zero(t, mismatches.Load(), "a superseded result reached the store")
}
