// Package view implements the tri-state contract every data page follows:
// exactly one fetch per parameter change, Loading while outstanding, Error
// clears stale data, Ready distinguishes empty windows from populated ones.
// Each Load supersedes in-flight ones via a generation tag, so a slow old
// response can never overwrite a newer result.
package view

import (
	"context"
	"sync"
)

// Phase is the rendering state of a view.
type Phase int

const (
	PhaseLoading Phase = iota + 1
	PhaseError
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseReady:
		return "ready"
	}
	return "unknown"
}

// Snapshot is the view state at one instant. Exactly one of the phases
// holds; Data is meaningful only in PhaseReady with Empty false.
type Snapshot[T any] struct {
	Phase Phase
	Err   error
	Data  T
	Empty bool
}

// Loader drives one view's fetch lifecycle.
type Loader[T any] struct {
	lock    sync.Mutex
	gen     uint64
	snap    Snapshot[T]
	isEmpty func(T) bool
}

// LoaderOption modifies the Loader instance.
type LoaderOption[T any] func(*Loader[T])

// WithEmptyCheck sets the predicate deciding whether a successful payload
// signals a zero-volume window. Without one, no payload is considered empty.
func WithEmptyCheck[T any](isEmpty func(T) bool) LoaderOption[T] {
	return func(l *Loader[T]) {
		l.isEmpty = isEmpty
	}
}

func NewLoader[T any](options ...LoaderOption[T]) *Loader[T] {
	loader := &Loader[T]{}
	for _, opt := range options {
		opt(loader)
	}
	return loader
}

// Load issues one fetch. It publishes PhaseLoading, runs fetch, and commits
// the outcome only if no newer Load started in the meantime; superseded
// results are discarded. Call it on mount, on every filter change, and after
// a page-local mutation.
func (l *Loader[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) {
	l.lock.Lock()
	l.gen++
	gen := l.gen
	l.snap = Snapshot[T]{Phase: PhaseLoading}
	l.lock.Unlock()

	data, err := fetch(ctx)

	l.lock.Lock()
	defer l.lock.Unlock()
	if gen != l.gen {
		return
	}
	if err != nil {
		// Error clears previously displayed data for the page.
		l.snap = Snapshot[T]{Phase: PhaseError, Err: err}
		return
	}
	l.snap = Snapshot[T]{
		Phase: PhaseReady,
		Data:  data,
		Empty: l.isEmpty != nil && l.isEmpty(data),
	}
}

// Snapshot returns the current view state.
func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.snap
}
