package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xpanvictor/meetsec/internal/config"
	"github.com/xpanvictor/meetsec/pkg/Logger"
	"github.com/xpanvictor/meetsec/pkg/io/stt"
)

// MaxChunk keeps requests well inside the webservice upload limits.
const MaxChunk = 10 * time.Minute

// TranscriptionResponse is the JSON output of the ASR webservice.
type TranscriptionResponse struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}

type TranscriptionSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	ID    int     `json:"id"`
}

// Client talks to a whisper ASR webservice (/asr endpoint).
type Client struct {
	baseURL    string
	language   string
	prompt     string
	httpClient *http.Client
	logger     *Logger.Logger
}

func New(cfg config.TranscriptionConfig, logger *Logger.Logger) (*Client, error) {
	if cfg.Whisper.URL == "" {
		return nil, fmt.Errorf("%w: whisper url is empty", stt.ErrNotConfigured)
	}
	timeout := cfg.Whisper.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.Whisper.URL, "/"),
		language:   cfg.Language,
		prompt:     cfg.Prompt,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

func (w *Client) Name() string { return "whisper" }

func (w *Client) MaxChunk() time.Duration { return MaxChunk }

func (w *Client) requestURL() string {
	q := url.Values{}
	q.Set("encode", "true")
	q.Set("task", "transcribe")
	q.Set("output", "json")
	if w.language != "" {
		q.Set("language", w.language)
	}
	if w.prompt != "" {
		q.Set("initial_prompt", w.prompt)
	}
	return w.baseURL + "/asr?" + q.Encode()
}

// TranscribeChunk uploads one WAV chunk and returns its trimmed text.
func (w *Client) TranscribeChunk(ctx context.Context, chunk stt.Chunk) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio_file", fmt.Sprintf("chunk_%03d.wav", chunk.Index))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(chunk.WAV); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.requestURL(), &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		w.logger.Errorf("whisper service error (status %d): %s", resp.StatusCode, string(raw))
		return "", fmt.Errorf("whisper service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out TranscriptionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// Some deployments answer with plain text regardless of output=json.
		w.logger.Debugf("treating whisper response as plain text")
		return strings.TrimSpace(string(raw)), nil
	}
	return strings.TrimSpace(out.Text), nil
}
