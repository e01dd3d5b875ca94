package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("AUTH_BASE_URL", "")
	t.Setenv("ARTIFACT_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.BaseURL != "http://localhost:5038" {
		t.Errorf("Auth.BaseURL = %q, want %q", cfg.Auth.BaseURL, "http://localhost:5038")
	}
	if cfg.Storage.ArtifactTTL != 30*time.Minute {
		t.Errorf("Storage.ArtifactTTL = %v, want 30m", cfg.Storage.ArtifactTTL)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want %q", cfg.Addr(), "0.0.0.0:8080")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SERVER_PORT", "eighty"},
		{"REDIS_DB", "x"},
		{"ARTIFACT_TTL", "soon"},
		{"WORKSPACE_IDLE_TIMEOUT", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.key)
			}
		})
	}
}

func TestLoad_SharedSpeechCredentials(t *testing.T) {
	t.Setenv("SPEECH_KEY", "speech-key")
	t.Setenv("SPEECH_REGION", "westeurope")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TTS.Key != "speech-key" || cfg.Speech.Key != "speech-key" {
		t.Errorf("speech key not shared: stt=%q tts=%q", cfg.Speech.Key, cfg.TTS.Key)
	}
	if cfg.TTS.Region != "westeurope" {
		t.Errorf("TTS.Region = %q, want westeurope", cfg.TTS.Region)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Auth:       AuthConfig{BaseURL: "http://auth"},
		Translator: TranslatorConfig{Backend: "azure"},
		Storage:    StorageConfig{Backend: "minio"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"TRANSLATOR_KEY", "S3_ENDPOINT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q missing %s", err, want)
		}
	}

	cfg.Translator.Key = "k"
	cfg.Storage.S3Endpoint = "s3.local"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateAuthd(t *testing.T) {
	cfg := &Config{Authd: AuthdConfig{DBDriver: "mysql", DSN: "x", JWTSecret: "s"}}
	if err := cfg.ValidateAuthd(); err == nil {
		t.Error("ValidateAuthd() accepted unsupported driver")
	}

	cfg.Authd.DBDriver = "sqlite"
	cfg.Authd.JWTSecret = ""
	if err := cfg.ValidateAuthd(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("ValidateAuthd() = %v, want JWT_SECRET error", err)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{Log: LogConfig{Level: in}}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("splitList() = %v", got)
	}
}
