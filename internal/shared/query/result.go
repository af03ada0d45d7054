// Package query models the tri-state lifecycle of a cached remote read.
package query

import "time"

// Status enumerates the lifecycle of a cached query.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusSuccess Status = "success"
)

// Metadata captures when the cached data was last fetched.
type Metadata struct {
	FetchedAt time.Time
	Source    string
}

// Result is a cached read: the data of the last successful fetch plus the
// status of the most recent attempt. Data survives a later failure so callers
// may still render it; Err is only set while Status is StatusError.
type Result[T any] struct {
	Data     T
	Status   Status
	Err      error
	Metadata Metadata
}

// Loading marks a fetch in flight. Any stale error is cleared.
func (r Result[T]) Loading() Result[T] {
	r.Status = StatusLoading
	r.Err = nil
	return r
}

// Failed records a failed attempt, keeping previously fetched data.
func (r Result[T]) Failed(err error) Result[T] {
	r.Status = StatusError
	r.Err = err
	return r
}

// Succeeded stores freshly fetched data.
func Succeeded[T any](data T, source string, at time.Time) Result[T] {
	return Result[T]{
		Data:     data,
		Status:   StatusSuccess,
		Metadata: Metadata{FetchedAt: at, Source: source},
	}
}

// Patched replaces the data without touching status or fetch metadata.
func (r Result[T]) Patched(data T) Result[T] {
	r.Data = data
	return r
}

// HasData reports whether a fetch ever succeeded for this result.
func (r Result[T]) HasData() bool {
	return !r.Metadata.FetchedAt.IsZero()
}
