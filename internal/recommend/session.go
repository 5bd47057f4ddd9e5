package recommend

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wikify/wikify/internal/logging"
	"github.com/wikify/wikify/internal/metrics"
)

// ErrStale is returned by Refresh when a newer generation started while the
// fetch was in flight.
var ErrStale = errors.New("result discarded: newer fetch cycle started")

// Generation identifies one fetch cycle. Larger is newer.
type Generation uint64

// CycleResult is the output of one fetch cycle before it is applied.
type CycleResult struct {
	Generation Generation
	Strategy   Strategy
	Articles   []Article
	Degraded   []DegradedResult
	Took       time.Duration
}

// Session ties a fetcher, an optional enricher and a store together and
// makes sure only the newest fetch cycle reaches the store.
type Session struct {
	ID string

	pipeline Pipeline
	store    *Store

	mu      sync.Mutex
	current Generation
	applyMu sync.Mutex
}

// NewSession creates a session. enricher may be nil when the fetcher
// returns enriched articles.
func NewSession(fetcher CandidateFetcher, enricher *Enricher, store *Store) *Session {
	if store == nil {
		store = NewStore(DoneRetain)
	}
	return &Session{
		ID:       uuid.NewString(),
		pipeline: Pipeline{Fetcher: fetcher, Enricher: enricher},
		store:    store,
	}
}

func (s *Session) Store() *Store {
	return s.store
}

// Begin starts a new generation; results of all older ones will be dropped.
// It waits for an Apply in progress, so store observers must not call it.
func (s *Session) Begin() Generation {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current++
	return s.current
}

// Current returns the newest generation.
func (s *Session) Current() Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Run fetches and enriches candidates for gen without touching the store.
// It is safe to call from a goroutine.
func (s *Session) Run(ctx context.Context, gen Generation, interests []string) (CycleResult, error) {
	log := logging.With().Str("session", s.ID).Uint64("generation", uint64(gen)).Logger()
	start := time.Now()
	res := CycleResult{Generation: gen, Strategy: s.pipeline.Fetcher.Strategy()}

	candidates, err := s.pipeline.Aggregate(ctx, interests)
	res.Degraded = candidates.Degraded
	res.Took = time.Since(start)
	if err != nil {
		log.Error().Err(err).Strs("interests", interests).Msg("fetch cycle failed")
		return res, err
	}
	res.Articles = candidates.Articles

	log.Info().
		Int("articles", len(res.Articles)).
		Int("degraded", len(res.Degraded)).
		Dur("took", res.Took).
		Msg("fetch cycle finished")

	return res, nil
}

// Apply replaces the store contents with res if res belongs to the current
// generation. It reports whether the result was applied.
func (s *Session) Apply(res CycleResult) bool {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if cur := s.Current(); res.Generation != cur {
		metrics.StaleGenerationsTotal.Inc()
		logging.Debug().
			Str("session", s.ID).
			Uint64("generation", uint64(res.Generation)).
			Uint64("current", uint64(cur)).
			Msg("discarding stale fetch result")
		return false
	}

	s.store.Replace(res.Articles)
	return true
}

// Refresh runs a whole cycle: begin, fetch, enrich and apply.
func (s *Session) Refresh(ctx context.Context, interests []string) (CycleResult, error) {
	gen := s.Begin()
	res, err := s.Run(ctx, gen, interests)
	if err != nil {
		return res, err
	}
	if !s.Apply(res) {
		return res, ErrStale
	}
	return res, nil
}

// Pipeline is one fetch followed, when needed, by enrichment. It keeps no
// state and is shared by Session and the HTTP server.
type Pipeline struct {
	Fetcher  CandidateFetcher
	Enricher *Enricher
}

// Aggregate returns enriched, deduplicated articles for interests. No
// interests means no suggestions and no outbound calls.
func (p Pipeline) Aggregate(ctx context.Context, interests []string) (Candidates, error) {
	strategy := string(p.Fetcher.Strategy())
	if len(interests) == 0 {
		return Candidates{Enriched: true}, nil
	}

	candidates, err := p.Fetcher.Fetch(ctx, interests)
	if err != nil {
		metrics.FetchCyclesTotal.WithLabelValues(strategy, "error").Inc()
		return candidates, err
	}

	if !candidates.Enriched && p.Enricher != nil {
		articles, lost := p.Enricher.Enrich(ctx, interests, candidates.Articles)
		candidates.Articles = articles
		candidates.Degraded = append(candidates.Degraded, lost...)
		candidates.Enriched = true
	}

	status := "ok"
	if len(candidates.Degraded) > 0 {
		status = "partial"
	}
	metrics.FetchCyclesTotal.WithLabelValues(strategy, status).Inc()
	return candidates, nil
}
