package tts

import "context"

type SynthesisRequest struct {
	Input string  `json:"input"`
	Voice string  `json:"voice,omitempty"` // e.g. "te-IN-ShrutiNeural"
	Speed float64 `json:"speed,omitempty"`
}

type SynthesisResult struct {
	Audio       []byte
	ContentType string
}

// Synthesizer is the interface for text-to-speech backends.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
	Name() string
}
