package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

type LocalConfig struct {
	PiperBinPath string // default: "piper"
	ModelDir     string // holds one <voice>.onnx model per voice
	DefaultVoice string // model used when a voice has none, default: "en-US-AriaNeural"
}

// Local synthesizes speech with the Piper binary. Voices map onto model
// files in ModelDir.
type Local struct {
	cfg LocalConfig
}

func NewLocal(cfg LocalConfig) *Local {
	if cfg.PiperBinPath == "" {
		cfg.PiperBinPath = "piper"
	}
	if cfg.DefaultVoice == "" {
		cfg.DefaultVoice = "en-US-AriaNeural"
	}
	return &Local{cfg: cfg}
}

func (l *Local) Name() string { return "local-piper" }

func (l *Local) modelPath(voice string) (string, error) {
	if l.cfg.ModelDir == "" {
		return "", fmt.Errorf("piper model directory is required (set TTS_LOCAL_MODEL_DIR)")
	}
	for _, v := range []string{voice, l.cfg.DefaultVoice} {
		if v == "" {
			continue
		}
		p := filepath.Join(l.cfg.ModelDir, filepath.Base(v)+".onnx")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no piper model for voice %q in %s", voice, l.cfg.ModelDir)
}

// Synthesize pipes text into Piper via stdin and returns the WAV file it
// writes.
func (l *Local) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	model, err := l.modelPath(req.Voice)
	if err != nil {
		return nil, err
	}

	out, err := os.CreateTemp("", "lingua-piper-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	out.Close()
	defer os.Remove(out.Name())

	cmd := exec.CommandContext(ctx, l.cfg.PiperBinPath, "--model", model, "--output_file", out.Name())
	cmd.Stdin = strings.NewReader(req.Input)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("piper failed: %w (stderr: %s)", err, stderr.String())
	}

	audio, err := os.ReadFile(out.Name())
	if err != nil {
		return nil, fmt.Errorf("read piper output: %w", err)
	}

	return &SynthesisResult{
		Audio:       audio,
		ContentType: "audio/wav",
	}, nil
}
