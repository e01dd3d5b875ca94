package translate

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
	Endpoint string // default: "https://api.cognitive.microsofttranslator.com"
	Key      string
	Region   string
}

// Azure talks to the Translator v3 REST API.
type Azure struct {
	cfg        AzureConfig
	httpClient *http.Client
}

func NewAzure(cfg AzureConfig) *Azure {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.cognitive.microsofttranslator.com"
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &Azure{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type azureText struct {
	Text string `json:"Text"`
}

type azureTranslation struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

type azureDetection struct {
	Language string  `json:"language"`
	Score    float64 `json:"score"`
}

type azureError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Translate returns the first translation, or "" when the service returned
// none.
func (a *Azure) Translate(ctx context.Context, text, from, to string) (string, error) {
	return translateChunks(ctx, text, func(ctx context.Context, chunk string) (string, error) {
		q := url.Values{}
		q.Set("api-version", "3.0")
		if from != "" {
			q.Set("from", azureCode(from))
		}
		q.Set("to", azureCode(to))

		var out []azureTranslation
		if err := a.post(ctx, "/translate?"+q.Encode(), chunk, &out); err != nil {
			return "", fmt.Errorf("translate: %w", err)
		}
		if len(out) == 0 || len(out[0].Translations) == 0 {
			return "", nil
		}
		return out[0].Translations[0].Text, nil
	})
}

func (a *Azure) Detect(ctx context.Context, text string) (string, error) {
	var out []azureDetection
	if err := a.post(ctx, "/detect?api-version=3.0", text, &out); err != nil {
		return "", fmt.Errorf("detect: %w", err)
	}
	if len(out) == 0 || out[0].Language == "" {
		return "", fmt.Errorf("detect: empty response")
	}
	return out[0].Language, nil
}

func (a *Azure) post(ctx context.Context, path, text string, dest any) error {
	body, err := json.Marshal([]azureText{{Text: text}})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", a.cfg.Key)
	if a.cfg.Region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", a.cfg.Region)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var ae azureError
		if json.Unmarshal(respBody, &ae) == nil && ae.Error.Message != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, ae.Error.Message)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// azureCode maps the catalog codes onto the codes Translator expects.
func azureCode(code string) string {
	switch strings.ToLower(code) {
	case "zh", "zh-cn":
		return "zh-Hans"
	case "zh-tw":
		return "zh-Hant"
	}
	return code
}
