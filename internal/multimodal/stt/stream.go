package stt

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrClosed       = errors.New("recognition stream closed")
	ErrNoRecognizer = errors.New("no speech recognizer configured")
	ErrNoLanguage   = errors.New("recognition language required")
)

// Event is either a recognised utterance or a recognition error.
type Event struct {
	Result Result
	Err    error
}

// Stream is a continuous recognition session. Utterances fed to it are
// recognised one at a time, in order, and reported on Events. Utterances
// without speech produce no event.
type Stream struct {
	rec      Recognizer
	language string

	ctx    context.Context
	cancel context.CancelFunc
	in     chan []byte
	events chan Event

	closeOnce sync.Once
}

func NewStream(ctx context.Context, rec Recognizer, language string) (*Stream, error) {
	if rec == nil {
		return nil, ErrNoRecognizer
	}
	if language == "" {
		return nil, ErrNoLanguage
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		rec:      rec,
		language: language,
		ctx:      ctx,
		cancel:   cancel,
		in:       make(chan []byte, 8),
		events:   make(chan Event, 8),
	}
	go s.run()
	return s, nil
}

func (s *Stream) Language() string { return s.language }

// Events is closed once the stream has shut down.
func (s *Stream) Events() <-chan Event { return s.events }

func (s *Stream) Feed(ctx context.Context, audio []byte) error {
	if s.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case s.in <- audio:
		return nil
	case <-s.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Stream) Close() {
	s.closeOnce.Do(s.cancel)
}

func (s *Stream) run() {
	defer close(s.events)
	for {
		select {
		case <-s.ctx.Done():
			return
		case audio := <-s.in:
			if s.ctx.Err() != nil {
				return
			}
			res, err := s.rec.Recognize(s.ctx, Request{Audio: audio, Language: s.language})
			var ev Event
			switch {
			case err != nil:
				if s.ctx.Err() != nil {
					return
				}
				ev.Err = err
			case res == nil || res.Text == "":
				continue
			default:
				ev.Result = *res
			}
			select {
			case s.events <- ev:
			case <-s.ctx.Done():
				return
			}
		}
	}
}
