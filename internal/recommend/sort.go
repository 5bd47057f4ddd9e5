package recommend

import (
	"cmp"
	"slices"
)

// SortKey selects the numeric field a view is ordered by.
type SortKey int

const (
	SortNone SortKey = iota
	SortCleanupCount
	SortRelevance
)

func (k SortKey) String() string {
	switch k {
	case SortCleanupCount:
		return "cleanupCount"
	case SortRelevance:
		return "relevance"
	default:
		return "none"
	}
}

// Direction is ascending or descending.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortSpec is the view ordering chosen by the user.
type SortSpec struct {
	Key SortKey
	Dir Direction
}

// Click returns the spec after the user picks key: the same key flips the
// direction, another key starts ascending.
func (s SortSpec) Click(key SortKey) SortSpec {
	if s.Key == key {
		if s.Dir == Ascending {
			s.Dir = Descending
		} else {
			s.Dir = Ascending
		}
		return s
	}
	return SortSpec{Key: key, Dir: Ascending}
}

// SortedView returns a sorted copy of articles. Equal keys keep their input
// order; SortNone returns the input order unchanged.
func SortedView(articles []Article, spec SortSpec) []Article {
	out := slices.Clone(articles)
	if spec.Key == SortNone {
		return out
	}

	value := func(a Article) float64 {
		if spec.Key == SortCleanupCount {
			return float64(a.CleanupCount())
		}
		return a.Relevance
	}

	slices.SortStableFunc(out, func(a, b Article) int {
		c := cmp.Compare(value(a), value(b))
		if spec.Dir == Descending {
			return -c
		}
		return c
	})
	return out
}
