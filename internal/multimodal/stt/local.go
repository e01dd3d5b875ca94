package stt

// NewLocal points the Whisper client at a local whisper.cpp server started
// with its OpenAI-compatible API, e.g.
// ./server -m models/ggml-base.bin --port 8178 --inference-path /v1/audio/transcriptions
func NewLocal(baseURL string) *OpenAI {
	if baseURL == "" {
		baseURL = "http://localhost:8178"
	}
	o := NewOpenAI(OpenAIConfig{BaseURL: baseURL + "/v1"})
	o.name = "local-whisper"
	return o
}
