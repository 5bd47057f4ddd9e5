package recommend

import (
	"errors"
	"fmt"
)

// FetchError is a failure of the primary recommendation or search call. It
// ends the fetch cycle; the caller shows it and waits for a manual refresh.
type FetchError struct {
	Status string // HTTP status text, empty for transport failures
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status != "" && e.Err != nil:
		return fmt.Sprintf("fetch failed: %s: %v", e.Status, e.Err)
	case e.Status != "":
		return "fetch failed: " + e.Status
	case e.Err != nil:
		return "fetch failed: " + e.Err.Error()
	default:
		return "fetch failed"
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError marks a malformed JSON body. Call sites treat it like a
// transport failure.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DegradedResult records a sub-call (one category search, one article
// lookup) that failed and contributed nothing.
type DegradedResult struct {
	Unit string // "category:<name>" or "article:<id>"
	Err  error
}

func (d DegradedResult) Error() string {
	return fmt.Sprintf("%s degraded: %v", d.Unit, d.Err)
}

func (d DegradedResult) Unwrap() error { return d.Err }

// Result carries the outcome of one sub-call: a value, or the empty value
// plus the reason it degraded.
type Result[T any] struct {
	Value    T
	Degraded *DegradedResult
}

// OK reports whether the sub-call succeeded.
func (r Result[T]) OK() bool {
	return r.Degraded == nil
}

func succeeded[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func degrade[T any](unit string, err error) Result[T] {
	return Result[T]{Degraded: &DegradedResult{Unit: unit, Err: err}}
}

// IsFetchError reports whether err ended a fetch cycle.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
