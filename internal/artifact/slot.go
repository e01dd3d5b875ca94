package artifact

import (
	"context"
	"sync"
)

// Slot holds at most one live artifact for a view.
type Slot struct {
	reg   *Registry
	owner string

	mu  sync.Mutex
	cur *Artifact
}

func (r *Registry) NewSlot(owner string) *Slot {
	return &Slot{reg: r, owner: owner}
}

// Put releases the current artifact, then stores audio as the new one.
func (s *Slot) Put(ctx context.Context, audio []byte, contentType string) (Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.releaseLocked(ctx); err != nil {
		return Artifact{}, err
	}
	a, err := s.reg.Create(ctx, s.owner, audio, contentType)
	if err != nil {
		return Artifact{}, err
	}
	s.cur = &a
	return a, nil
}

func (s *Slot) Release(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseLocked(ctx)
}

// ReleaseIf releases the current artifact only if it is id.
func (s *Slot) ReleaseIf(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil || s.cur.ID != id {
		return nil
	}
	return s.releaseLocked(ctx)
}

func (s *Slot) Current() (Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return Artifact{}, false
	}
	return *s.cur, true
}

func (s *Slot) releaseLocked(ctx context.Context) error {
	if s.cur == nil {
		return nil
	}
	id := s.cur.ID
	s.cur = nil
	return s.reg.Release(ctx, id)
}
