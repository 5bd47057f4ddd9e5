package recommend

import (
	"fmt"
	"sync"
)

// DonePolicy decides what happens to done ids when the article list is
// replaced.
type DonePolicy string

const (
	// DoneRetain keeps every done id across replacements. Ids that are not
	// in the current list are remembered but never counted.
	DoneRetain DonePolicy = "retain"
	// DonePurge drops done ids that are not in the new list.
	DonePurge DonePolicy = "purge"
)

// ParseDonePolicy validates a policy name; empty means retain.
func ParseDonePolicy(s string) (DonePolicy, error) {
	switch DonePolicy(s) {
	case "", DoneRetain:
		return DoneRetain, nil
	case DonePurge:
		return DonePurge, nil
	default:
		return "", fmt.Errorf("unknown done policy %q (want retain or purge)", s)
	}
}

// Summary is the derived progress of a session.
type Summary struct {
	DoneCount  int `json:"doneCount"`
	TotalCount int `json:"totalCount"`
	Score      int `json:"score"`
}

// Store holds the articles of the current fetch cycle and the set of ids
// the user marked done. Observers get the new Summary synchronously after
// every mutation.
type Store struct {
	mu       sync.Mutex
	policy   DonePolicy
	articles []Article
	index    map[int64]int
	done     map[int64]bool
	summary  Summary

	nextSub   int
	observers []observer
}

type observer struct {
	id int
	fn func(Summary)
}

// NewStore creates an empty store.
func NewStore(policy DonePolicy) *Store {
	if policy == "" {
		policy = DoneRetain
	}
	return &Store{
		policy: policy,
		index:  make(map[int64]int),
		done:   make(map[int64]bool),
	}
}

// Replace swaps in a new article list. Later duplicates of an id are
// ignored. Done ids are kept or purged according to the policy.
func (s *Store) Replace(articles []Article) Summary {
	s.mu.Lock()
	list := make([]Article, 0, len(articles))
	index := make(map[int64]int, len(articles))
	for _, a := range articles {
		if _, dup := index[a.ID]; dup {
			continue
		}
		index[a.ID] = len(list)
		list = append(list, cloneArticle(a))
	}
	s.articles = list
	s.index = index

	if s.policy == DonePurge {
		for id := range s.done {
			if _, ok := index[id]; !ok {
				delete(s.done, id)
			}
		}
	}
	sum, obs := s.recomputeLocked()
	s.mu.Unlock()

	notify(obs, sum)
	return sum
}

// ToggleDone flips the done state of id and returns the new state. Ids that
// are not in the current list are accepted.
func (s *Store) ToggleDone(id int64) bool {
	s.mu.Lock()
	now := !s.done[id]
	if now {
		s.done[id] = true
	} else {
		delete(s.done, id)
	}
	sum, obs := s.recomputeLocked()
	s.mu.Unlock()

	notify(obs, sum)
	return now
}

// IsDone reports whether id is marked done.
func (s *Store) IsDone(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done[id]
}

// Get returns the article with id from the current list.
func (s *Store) Get(id int64) (Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return Article{}, false
	}
	return cloneArticle(s.articles[i]), true
}

// Articles returns a copy of the current list in store order.
func (s *Store) Articles() []Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Article, len(s.articles))
	for i, a := range s.articles {
		out[i] = cloneArticle(a)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.articles)
}

// DoneIDs returns the number of remembered done ids, including stale ones.
func (s *Store) DoneIDs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.done)
}

// Summary returns the current done/total/score.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Subscribe registers fn for summary updates and returns a function that
// removes it. fn is not called on registration.
func (s *Store) Subscribe(fn func(Summary)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// recomputeLocked derives the summary from scratch; callers hold mu.
func (s *Store) recomputeLocked() (Summary, []observer) {
	sum := Summary{TotalCount: len(s.articles)}
	for _, a := range s.articles {
		if s.done[a.ID] {
			sum.DoneCount++
			sum.Score += a.CleanupCount()
		}
	}
	s.summary = sum

	obs := make([]observer, len(s.observers))
	copy(obs, s.observers)
	return sum, obs
}

func notify(obs []observer, sum Summary) {
	for _, o := range obs {
		o.fn(sum)
	}
}
