// Package openaistt transcribes audio with the OpenAI transcription API.
package openaistt

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/xpanvictor/meetsec/internal/config"
	"github.com/xpanvictor/meetsec/pkg/io/stt"
)

const (
	DefaultModel = "gpt-4o-mini-transcribe"
	// MaxChunk keeps a 16 kHz mono WAV below the 25 MB upload limit.
	MaxChunk = 10 * time.Minute
)

const DefaultPrompt = "Представлено совещание о сроках выполнения, задачах и выполняющих в научно-деловом стиле. " +
	"В данном совещании обрати особое внимание на диалоги между собеседниками, в диалогах указывай, кто говорит, если собеседники представляются."

type Engine struct {
	client   openai.Client
	model    string
	language string
	prompt   string
}

func New(api config.OpenAIConfig, cfg config.TranscriptionConfig) (*Engine, error) {
	if api.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key is empty", stt.ErrNotConfigured)
	}
	opts := []option.RequestOption{option.WithAPIKey(api.APIKey), option.WithMaxRetries(0)}
	if api.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(api.BaseURL))
	}
	e := &Engine{
		client:   openai.NewClient(opts...),
		model:    cfg.Model,
		language: cfg.Language,
		prompt:   cfg.Prompt,
	}
	if e.model == "" {
		e.model = DefaultModel
	}
	if e.prompt == "" {
		e.prompt = DefaultPrompt
	}
	return e, nil
}

func (e *Engine) Name() string { return "openai" }

func (e *Engine) MaxChunk() time.Duration { return MaxChunk }

func (e *Engine) TranscribeChunk(ctx context.Context, chunk stt.Chunk) (string, error) {
	params := openai.AudioTranscriptionNewParams{
		File:   openai.File(bytes.NewReader(chunk.WAV), fmt.Sprintf("chunk_%03d.wav", chunk.Index), "audio/wav"),
		Model:  openai.AudioModel(e.model),
		Prompt: openai.String(e.prompt),
	}
	if e.language != "" {
		params.Language = openai.String(e.language)
	}
	resp, err := e.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
