package stt

import "context"

// Request is one finalized utterance of audio.
type Request struct {
	Audio       []byte
	ContentType string // default: "audio/wav"
	Language    string // BCP-47 tag, e.g. "te-IN"
}

type Result struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration,omitempty"`
}

// Recognizer turns audio into text. An utterance with no recognisable
// speech yields an empty Text and a nil error.
type Recognizer interface {
	Recognize(ctx context.Context, req Request) (*Result, error)
	Name() string
}
