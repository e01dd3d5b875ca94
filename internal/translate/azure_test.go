package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestAzure_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("path = %q, want /translate", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api-version") != "3.0" || q.Get("from") != "en" || q.Get("to") != "zh-Hans" {
			t.Errorf("query = %v", q)
		}
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "key" {
			t.Errorf("subscription key = %q", r.Header.Get("Ocp-Apim-Subscription-Key"))
		}
		if r.Header.Get("Ocp-Apim-Subscription-Region") != "eastus" {
			t.Errorf("subscription region = %q", r.Header.Get("Ocp-Apim-Subscription-Region"))
		}

		var body []map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body) != 1 || body[0]["Text"] != "hello" {
			t.Errorf("body = %v, err %v", body, err)
		}

		_, _ = w.Write([]byte(`[{"translations":[{"text":"你好","to":"zh-Hans"}]}]`))
	}))
	defer srv.Close()

	a := NewAzure(AzureConfig{Endpoint: srv.URL, Key: "key", Region: "eastus"})
	got, err := a.Translate(context.Background(), "hello", "en", "zh")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "你好" {
		t.Errorf("Translate() = %q, want 你好", got)
	}
}

func TestAzure_TranslateEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"translations":[]}]`))
	}))
	defer srv.Close()

	got, err := NewAzure(AzureConfig{Endpoint: srv.URL}).Translate(context.Background(), "x", "", "id")
	if err != nil || got != "" {
		t.Errorf("Translate() = %q, %v; want empty, nil", got, err)
	}
}

func TestAzure_ErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401000,"message":"credentials are missing"}}`))
	}))
	defer srv.Close()

	_, err := NewAzure(AzureConfig{Endpoint: srv.URL}).Translate(context.Background(), "x", "en", "fr")
	if err == nil || !strings.Contains(err.Error(), "credentials are missing") {
		t.Errorf("Translate() error = %v", err)
	}
}

func TestAzure_Detect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" {
			t.Errorf("path = %q, want /detect", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"language":"te","score":0.98}]`))
	}))
	defer srv.Close()

	got, err := NewAzure(AzureConfig{Endpoint: srv.URL + "/"}).Detect(context.Background(), "నమస్కారం")
	if err != nil || got != "te" {
		t.Errorf("Detect() = %q, %v; want te", got, err)
	}
}

func TestAzure_DetectEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := NewAzure(AzureConfig{Endpoint: srv.URL}).Detect(context.Background(), "?"); err == nil {
		t.Error("Detect() error = nil, want error")
	}
}

func TestAzure_LongTextIsChunked(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[{"translations":[{"text":"ok"}]}]`))
	}))
	defer srv.Close()

	text := strings.Repeat(strings.Repeat("a", 99)+". ", 120)
	got, err := NewAzure(AzureConfig{Endpoint: srv.URL}).Translate(context.Background(), text, "en", "fr")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if n := calls.Load(); n < 2 {
		t.Errorf("calls = %d, want several", n)
	}
	if !strings.HasPrefix(got, "ok ok") {
		t.Errorf("Translate() = %q", got)
	}
}
