package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Session    SessionConfig
	Auth       AuthConfig
	Speech     SpeechConfig
	TTS        TTSConfig
	Translator TranslatorConfig
	LLM        LLMConfig
	Storage    StorageConfig
	Workspace  WorkspaceConfig
	Sentry     SentryConfig
	Authd      AuthdConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	CORSOrigins  []string
	RateLimitRPM int
}

type LogConfig struct {
	Level string
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Backend string // "redis" or "memory"
}

// AuthConfig points at the authentication backend consumed by the login view.
type AuthConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SpeechConfig struct {
	Backend       string // "azure", "openai" or "local"
	Key           string
	Region        string
	Endpoint      string // overrides the regional Azure STT host
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	LocalBaseURL  string // default: "http://localhost:8178"
}

type TTSConfig struct {
	Backend       string // "azure", "openai" or "local"
	Key           string
	Region        string
	Endpoint      string // overrides the regional Azure TTS host
	OutputFormat  string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIVoice   string
	LocalBinPath  string // default: "piper"
	LocalModelDir string // directory holding <voice>.onnx models
}

type TranslatorConfig struct {
	Backend  string // "azure" or "llm"
	Key      string
	Region   string
	Endpoint string
}

type LLMConfig struct {
	Provider         string // "anthropic", "openai" or "ollama"
	FallbackProvider string
	Model            string
	AnthropicKey     string
	OpenAIKey        string
	OllamaURL        string
	MaxRetries       int
}

type StorageConfig struct {
	Backend     string // "memory", "minio" or "supabase"
	Bucket      string
	SupabaseURL string
	SupabaseKey string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Region    string
	S3Secure    bool
	ArtifactTTL time.Duration
}

type WorkspaceConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

type SentryConfig struct {
	DSN         string
	Environment string
}

// AuthdConfig configures the development authentication backend.
type AuthdConfig struct {
	Addr      string
	DBDriver  string // "postgres" or "sqlite"
	DSN       string
	JWTSecret string
	JWTExpiry time.Duration
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	rpm, err := getEnvInt("RATE_LIMIT_RPM", 600)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPM: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	authTimeout, err := getEnvDuration("AUTH_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TIMEOUT: %w", err)
	}

	artifactTTL, err := getEnvDuration("ARTIFACT_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid ARTIFACT_TTL: %w", err)
	}

	idleTimeout, err := getEnvDuration("WORKSPACE_IDLE_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid WORKSPACE_IDLE_TIMEOUT: %w", err)
	}

	jwtExpiry, err := getEnvDuration("JWT_EXPIRY", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY: %w", err)
	}

	openAIKey := getEnv("OPENAI_API_KEY", "")
	speechKey := getEnv("SPEECH_KEY", "")
	speechRegion := getEnv("SPEECH_REGION", "")

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         port,
			CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
			RateLimitRPM: rpm,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Session: SessionConfig{
			Backend: getEnv("SESSION_BACKEND", "redis"),
		},
		Auth: AuthConfig{
			BaseURL: getEnv("AUTH_BASE_URL", "http://localhost:5038"),
			Timeout: authTimeout,
		},
		Speech: SpeechConfig{
			Backend:       getEnv("SPEECH_BACKEND", "azure"),
			Key:           speechKey,
			Region:        speechRegion,
			Endpoint:      getEnv("SPEECH_ENDPOINT", ""),
			OpenAIKey:     openAIKey,
			OpenAIBaseURL: getEnv("STT_OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("STT_OPENAI_MODEL", ""),
			LocalBaseURL:  getEnv("STT_LOCAL_BASE_URL", "http://localhost:8178"),
		},
		TTS: TTSConfig{
			Backend:       getEnv("TTS_BACKEND", "azure"),
			Key:           speechKey,
			Region:        speechRegion,
			Endpoint:      getEnv("TTS_ENDPOINT", ""),
			OutputFormat:  getEnv("TTS_OUTPUT_FORMAT", "riff-24khz-16bit-mono-pcm"),
			OpenAIKey:     openAIKey,
			OpenAIBaseURL: getEnv("TTS_OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("TTS_OPENAI_MODEL", ""),
			OpenAIVoice:   getEnv("TTS_OPENAI_VOICE", "alloy"),
			LocalBinPath:  getEnv("TTS_LOCAL_PIPER_BIN", "piper"),
			LocalModelDir: getEnv("TTS_LOCAL_MODEL_DIR", ""),
		},
		Translator: TranslatorConfig{
			Backend:  getEnv("TRANSLATOR_BACKEND", "azure"),
			Key:      getEnv("TRANSLATOR_KEY", ""),
			Region:   getEnv("TRANSLATOR_REGION", ""),
			Endpoint: getEnv("TRANSLATOR_ENDPOINT", "https://api.cognitive.microsofttranslator.com"),
		},
		LLM: LLMConfig{
			Provider:         getEnv("LLM_PROVIDER", "anthropic"),
			FallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", ""),
			Model:            getEnv("LLM_MODEL", ""),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			OpenAIKey:        openAIKey,
			OllamaURL:        getEnv("OLLAMA_URL", ""),
			MaxRetries:       maxRetries,
		},
		Storage: StorageConfig{
			Backend:     getEnv("STORAGE_BACKEND", "memory"),
			Bucket:      getEnv("STORAGE_BUCKET", "lingua-audio"),
			SupabaseURL: getEnv("SUPABASE_URL", ""),
			SupabaseKey: getEnv("SUPABASE_SERVICE_KEY", ""),
			S3Endpoint:  getEnv("S3_ENDPOINT", ""),
			S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey: getEnv("S3_SECRET_KEY", ""),
			S3Region:    getEnv("S3_REGION", ""),
			S3Secure:    getEnv("S3_SECURE", "true") == "true",
			ArtifactTTL: artifactTTL,
		},
		Workspace: WorkspaceConfig{
			IdleTimeout:   idleTimeout,
			SweepInterval: time.Minute,
		},
		Sentry: SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Authd: AuthdConfig{
			Addr:      getEnv("AUTHD_ADDR", ":5038"),
			DBDriver:  getEnv("AUTHD_DB_DRIVER", "sqlite"),
			DSN:       getEnv("AUTHD_DSN", "authd.db"),
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTExpiry: jwtExpiry,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate reports the variables the API server cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.Auth.BaseURL == "" {
		missing = append(missing, "AUTH_BASE_URL")
	}
	if c.Translator.Backend == "azure" && c.Translator.Key == "" {
		missing = append(missing, "TRANSLATOR_KEY")
	}
	if c.Storage.Backend == "minio" && c.Storage.S3Endpoint == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if c.Storage.Backend == "supabase" && c.Storage.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateAuthd reports the variables the development auth backend needs.
func (c *Config) ValidateAuthd() error {
	var missing []string
	if c.Authd.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Authd.DSN == "" {
		missing = append(missing, "AUTHD_DSN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if c.Authd.DBDriver != "postgres" && c.Authd.DBDriver != "sqlite" {
		return fmt.Errorf("unsupported AUTHD_DB_DRIVER %q", c.Authd.DBDriver)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
