// Package task serialises a view's state and runs its background work in
// cancellable generations. Once a run is cancelled, nothing it started can
// mutate state again: every mutation goes through Run.Commit, which checks
// the generation under the same lock that Cancel advances it with.
package task

import (
	"context"
	"sync"
)

type Scope struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
	bc     Broadcaster
}

func NewScope() *Scope {
	return &Scope{}
}

// Tx is handed to functions running with the scope locked.
type Tx struct {
	s *Scope
}

// Begin cancels the current run, if any, and starts a new generation
// derived from parent.
func (tx *Tx) Begin(parent context.Context) *Run {
	s := tx.s
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	return &Run{s: s, gen: s.gen, ctx: ctx}
}

// Cancel ends the current run. Its pending commits become no-ops.
func (tx *Tx) Cancel() {
	s := tx.s
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

// Do runs fn with the scope locked, then notifies subscribers.
func (s *Scope) Do(fn func(tx *Tx)) {
	s.mu.Lock()
	fn(&Tx{s: s})
	s.mu.Unlock()
	s.bc.Notify()
}

// View runs fn with the scope locked without notifying anyone.
func (s *Scope) View(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Wait blocks until every goroutine started through Run.Go has returned.
func (s *Scope) Wait() {
	s.wg.Wait()
}

func (s *Scope) Subscribe() (<-chan struct{}, func()) {
	return s.bc.Subscribe()
}

type Run struct {
	s   *Scope
	gen uint64
	ctx context.Context
}

func (r *Run) Context() context.Context { return r.ctx }

// Current reports whether the run has not been superseded or cancelled.
func (r *Run) Current() bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.gen == r.gen
}

// Go starts fn in a tracked goroutine bound to the run's context.
func (r *Run) Go(fn func(ctx context.Context)) {
	r.s.wg.Add(1)
	go func() {
		defer r.s.wg.Done()
		fn(r.ctx)
	}()
}

// Commit applies fn only while the run is current and reports whether it
// did.
func (r *Run) Commit(fn func(tx *Tx)) bool {
	r.s.mu.Lock()
	if r.s.gen != r.gen {
		r.s.mu.Unlock()
		return false
	}
	fn(&Tx{s: r.s})
	r.s.mu.Unlock()
	r.s.bc.Notify()
	return true
}
