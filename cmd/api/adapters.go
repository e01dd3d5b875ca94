package main

import (
	"log/slog"

	"github.com/nikhilbhutani/lingua/internal/config"
	"github.com/nikhilbhutani/lingua/internal/llm"
	"github.com/nikhilbhutani/lingua/internal/multimodal/stt"
	"github.com/nikhilbhutani/lingua/internal/multimodal/tts"
	"github.com/nikhilbhutani/lingua/internal/translate"
)

// newRecognizer returns nil when no speech backend is usable, which the
// speech views report as unsupported.
func newRecognizer(cfg config.SpeechConfig) stt.Recognizer {
	switch cfg.Backend {
	case "azure":
		if cfg.Key == "" {
			slog.Warn("SPEECH_KEY not set, speech recognition disabled")
			return nil
		}
		return stt.NewAzure(stt.AzureConfig{Key: cfg.Key, Region: cfg.Region, Endpoint: cfg.Endpoint})
	case "openai":
		if cfg.OpenAIKey == "" && cfg.OpenAIBaseURL == "" {
			slog.Warn("OPENAI_API_KEY not set, speech recognition disabled")
			return nil
		}
		return stt.NewOpenAI(stt.OpenAIConfig{APIKey: cfg.OpenAIKey, BaseURL: cfg.OpenAIBaseURL, Model: cfg.OpenAIModel})
	case "local":
		return stt.NewLocal(cfg.LocalBaseURL)
	default:
		slog.Warn("speech recognition disabled", "backend", cfg.Backend)
		return nil
	}
}

func newSynthesizer(cfg config.TTSConfig) tts.Synthesizer {
	switch cfg.Backend {
	case "azure":
		if cfg.Key == "" {
			slog.Warn("SPEECH_KEY not set, speech synthesis disabled")
			return nil
		}
		return tts.NewAzure(tts.AzureConfig{
			Key:          cfg.Key,
			Region:       cfg.Region,
			Endpoint:     cfg.Endpoint,
			OutputFormat: cfg.OutputFormat,
		})
	case "openai":
		return tts.NewOpenAI(tts.OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Voice:   cfg.OpenAIVoice,
		})
	case "local":
		return tts.NewLocal(tts.LocalConfig{PiperBinPath: cfg.LocalBinPath, ModelDir: cfg.LocalModelDir})
	default:
		slog.Warn("speech synthesis disabled", "backend", cfg.Backend)
		return nil
	}
}

func newTranslator(cfg *config.Config) translate.Translator {
	switch cfg.Translator.Backend {
	case "llm":
		return translate.NewLLM(llm.NewGateway(cfg.LLM))
	default:
		return translate.NewAzure(translate.AzureConfig{
			Endpoint: cfg.Translator.Endpoint,
			Key:      cfg.Translator.Key,
			Region:   cfg.Translator.Region,
		})
	}
}
