package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/meetsec/internal/config"
	"github.com/xpanvictor/meetsec/internal/domains/audit"
	"github.com/xpanvictor/meetsec/pkg/Logger"
	"github.com/xpanvictor/meetsec/pkg/assistant"
)

func baseSettings(t *testing.T) *config.Settings {
	t.Helper()
	return &config.Settings{
		WorkDir: t.TempDir(),
		OpenAI:  config.OpenAIConfig{APIKey: "sk-test"},
		Transcription: config.TranscriptionConfig{
			Engine:       "whisper",
			SampleRate:   16000,
			ChunkSeconds: 45,
			FFmpegPath:   "ffmpeg",
			Whisper:      config.WhisperConfig{URL: "http://localhost:9000"},
		},
		Extraction: config.ExtractionConfig{Engine: "openai", Model: "gpt-4", Temperature: 0.3},
		Audit:      config.AuditConfig{Sink: "file", Dir: t.TempDir()},
	}
}

func TestNewAppDefaults(t *testing.T) {
	a, err := NewApp(context.Background(), baseSettings(t), Logger.NewNop(), nil)
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Secretary)
	assert.Empty(t, a.TrackerName())
	assert.Nil(t, a.DB)
	assert.Nil(t, a.RC)
}

func TestNewAppWithWeeekTracker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"user":{"id":"u1","email":"a@b.c"}}`))
	}))
	defer srv.Close()

	cfg := baseSettings(t)
	cfg.Tracker = config.TrackerConfig{Kind: "weeek", Weeek: config.WeeekConfig{BaseURL: srv.URL, Token: "t", ProjectID: "1"}}
	a, err := NewApp(context.Background(), cfg, Logger.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, "weeek", a.TrackerName())
}

func TestNewAppTrackerUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := baseSettings(t)
	cfg.Tracker = config.TrackerConfig{Kind: "jira", Jira: config.JiraConfig{URL: srv.URL, Token: "bad", ProjectKey: "TS"}}
	_, err := NewApp(context.Background(), cfg, Logger.NewNop(), nil)
	assert.Error(t, err)
}

func TestLoadTemplate(t *testing.T) {
	a := &App{Config: baseSettings(t)}
	doc, err := a.loadTemplate()
	require.NoError(t, err)
	assert.Equal(t, "PK", string(doc[:2]))

	path := filepath.Join(t.TempDir(), "t.docx")
	require.NoError(t, os.WriteFile(path, []byte("custom"), 0o644))
	a.Config.Protocol.TemplatePath = path
	doc, err = a.loadTemplate()
	require.NoError(t, err)
	assert.Equal(t, []byte("custom"), doc)

	a.Config.Protocol.TemplatePath = filepath.Join(t.TempDir(), "missing.docx")
	_, err = a.loadTemplate()
	assert.Error(t, err)
}

func TestCreateAuditSink(t *testing.T) {
	a := &App{Config: baseSettings(t)}
	sink, err := a.createAuditSink()
	require.NoError(t, err)
	assert.IsType(t, &audit.FileSink{}, sink)

	a.Config.Audit.Sink = ""
	sink, err = a.createAuditSink()
	require.NoError(t, err)
	assert.Nil(t, sink)
}

func TestCreateTranscriberEngines(t *testing.T) {
	a := &App{Config: baseSettings(t), Logger: Logger.NewNop()}
	tr, err := a.createTranscriber()
	require.NoError(t, err)
	assert.Equal(t, "whisper", tr.Name())

	a.Config.Transcription.Engine = "openai"
	a.Config.Transcription.VAD.Enabled = true
	tr, err = a.createTranscriber()
	require.NoError(t, err)
	assert.Equal(t, "openai", tr.Name())

	a.Config.OpenAI.APIKey = ""
	_, err = a.createTranscriber()
	assert.Error(t, err)
}

func TestLLMFactory(t *testing.T) {
	cfg := baseSettings(t)
	f := NewLLMFactory(cfg, Logger.NewNop())
	a, err := f.CreateAssistant(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "openai", a.Name())

	cfg.OpenAI.APIKey = ""
	_, err = f.CreateAssistant(context.Background())
	assert.ErrorIs(t, err, assistant.ErrNotConfigured)

	cfg.Extraction.Engine = "gemini"
	_, err = f.CreateAssistant(context.Background())
	assert.Error(t, err)

	cfg.Extraction.Engine = "ollama"
	_, err = f.CreateAssistant(context.Background())
	assert.Error(t, err, "no ollama urls")

	cfg.Extraction.Engine = "claude"
	_, err = f.CreateAssistant(context.Background())
	assert.Error(t, err)
	assert.NoError(t, f.Close())
}
