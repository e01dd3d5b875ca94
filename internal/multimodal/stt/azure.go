package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type AzureConfig struct {
	Key      string
	Region   string
	Endpoint string // overrides https://{region}.stt.speech.microsoft.com
}

// Azure uses the Speech service short-audio REST endpoint, one request per
// utterance.
type Azure struct {
	cfg        AzureConfig
	httpClient *http.Client
}

func NewAzure(cfg AzureConfig) *Azure {
	if cfg.Endpoint == "" {
		cfg.Endpoint = fmt.Sprintf("https://%s.stt.speech.microsoft.com", cfg.Region)
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &Azure{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *Azure) Name() string { return "azure-speech" }

type azureRecognition struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	DisplayText       string `json:"DisplayText"`
	Offset            int64  `json:"Offset"`
	Duration          int64  `json:"Duration"`
}

func (a *Azure) Recognize(ctx context.Context, req Request) (*Result, error) {
	q := url.Values{}
	q.Set("language", req.Language)
	q.Set("format", "simple")
	endpoint := a.cfg.Endpoint + "/speech/recognition/conversation/cognitiveservices/v1?" + q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(req.Audio))
	if err != nil {
		return nil, err
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "audio/wav; codecs=audio/pcm; samplerate=16000"
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", a.cfg.Key)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("recognition request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognition failed (status %d): %s", resp.StatusCode, string(body))
	}

	var r azureRecognition
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	switch r.RecognitionStatus {
	case "Success":
		// Duration is reported in 100ns ticks.
		return &Result{
			Text:     r.DisplayText,
			Language: req.Language,
			Duration: float64(r.Duration) / 1e7,
		}, nil
	case "NoMatch", "InitialSilenceTimeout", "BabbleTimeout":
		return &Result{Language: req.Language}, nil
	default:
		return nil, fmt.Errorf("recognition status %s", r.RecognitionStatus)
	}
}
