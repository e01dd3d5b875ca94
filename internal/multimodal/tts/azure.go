package tts

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type AzureConfig struct {
	Key          string
	Region       string
	Endpoint     string // overrides https://{region}.tts.speech.microsoft.com
	OutputFormat string // default: "riff-24khz-16bit-mono-pcm"
}

// Azure synthesizes speech through the Speech service REST endpoint.
type Azure struct {
	cfg        AzureConfig
	httpClient *http.Client
}

func NewAzure(cfg AzureConfig) *Azure {
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("https://%s.tts.speech.microsoft.com", cfg.Region)
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "riff-24khz-16bit-mono-pcm"
	}
	return &Azure{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *Azure) Name() string { return "azure-speech" }

func (a *Azure) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	if req.Voice == "" {
		return nil, fmt.Errorf("voice is required")
	}

	ssml, err := buildSSML(req.Input, req.Voice)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint+"/cognitiveservices/v1", strings.NewReader(ssml))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/ssml+xml")
	httpReq.Header.Set("X-Microsoft-OutputFormat", a.cfg.OutputFormat)
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", a.cfg.Key)
	httpReq.Header.Set("User-Agent", "lingua")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts failed (status %d): %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts returned no audio")
	}

	return &SynthesisResult{
		Audio:       audio,
		ContentType: contentTypeFor(a.cfg.OutputFormat),
	}, nil
}

func buildSSML(text, voice string) (string, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(text)); err != nil {
		return "", fmt.Errorf("escape text: %w", err)
	}
	return fmt.Sprintf(
		`<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="%s"><voice name="%s">%s</voice></speak>`,
		voiceLocale(voice), voice, escaped.String()), nil
}

// voiceLocale extracts "te-IN" from "te-IN-ShrutiNeural".
func voiceLocale(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) < 3 {
		return "en-US"
	}
	return parts[0] + "-" + parts[1]
}

func contentTypeFor(format string) string {
	switch {
	case strings.HasPrefix(format, "riff-"):
		return "audio/wav"
	case strings.Contains(format, "mp3"):
		return "audio/mpeg"
	case strings.Contains(format, "opus"):
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}
