package vad

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xpanvictor/meetsec/pkg/Logger"
	"github.com/xpanvictor/meetsec/pkg/io/stt"
)

const minSpeech = 100 * time.Millisecond

type segment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

type sileroResponse struct {
	HasVoice         bool      `json:"has_voice"`
	Confidence       float32   `json:"confidence"`
	Segments         []segment `json:"segments"`
	ProcessingTimeMs float64   `json:"processing_time_ms"`
}

// Silero calls a Silero VAD HTTP service and falls back to an energy check
// when the service is missing or failing.
type Silero struct {
	cfg        Config
	httpClient *http.Client
	logger     *Logger.Logger
}

func New(cfg Config, logger *Logger.Logger) *Silero {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.5
	}
	return &Silero{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (s *Silero) Detect(ctx context.Context, pcm []byte, sampleRate int) (Result, error) {
	if sampleRate <= 0 || time.Duration(len(pcm)/2)*time.Second/time.Duration(sampleRate) < minSpeech {
		return Result{}, nil
	}
	if s.cfg.URL == "" {
		return Energy(pcm, s.energyThreshold()), nil
	}
	res, err := s.callService(ctx, pcm, sampleRate)
	if err != nil {
		s.logger.Warnf("silero vad unavailable, using energy check: %v", err)
		return Energy(pcm, s.energyThreshold()), nil
	}
	return res, nil
}

// HasVoice adapts Detect to the transcriber's voice gate.
func (s *Silero) HasVoice(ctx context.Context, pcm []byte, sampleRate int) (bool, error) {
	res, err := s.Detect(ctx, pcm, sampleRate)
	return res.HasVoice, err
}

// energyThreshold maps the configured threshold onto mean-square energy when
// it was given as a probability.
func (s *Silero) energyThreshold() float32 {
	if s.cfg.URL != "" || s.cfg.Threshold >= 0.01 {
		return DefaultEnergyThreshold
	}
	return s.cfg.Threshold
}

// DefaultEnergyThreshold separates room noise from speech for 16-bit PCM.
const DefaultEnergyThreshold = 0.0001

// Energy is the mean-square detector used without a VAD service.
func Energy(pcm []byte, threshold float32) Result {
	n := len(pcm) / 2
	if n == 0 {
		return Result{}
	}
	var sum float64
	for i := 0; i+1 < len(pcm); i += 2 {
		v := float64(int16(binary.LittleEndian.Uint16(pcm[i:])))
		sum += v * v
	}
	energy := float32(sum / float64(n) / (32768.0 * 32768.0))
	conf := energy / threshold
	if conf > 1 {
		conf = 1
	}
	return Result{HasVoice: energy > threshold, Confidence: conf}
}

func (s *Silero) callService(ctx context.Context, pcm []byte, sampleRate int) (Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(stt.EncodeWAV(pcm, sampleRate)); err != nil {
		return Result{}, fmt.Errorf("failed to write audio data: %w", err)
	}
	_ = writer.WriteField("threshold", fmt.Sprintf("%.3f", s.cfg.Threshold))
	_ = writer.WriteField("min_speech_duration_ms", strconv.Itoa(s.cfg.MinSpeechMs))
	_ = writer.WriteField("min_silence_duration_ms", strconv.Itoa(s.cfg.MinSilenceMs))
	_ = writer.WriteField("sampling_rate", strconv.Itoa(sampleRate))
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.cfg.URL, "/")+"/vad", &body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to call VAD service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("VAD service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out sileroResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}
	s.logger.Debugf("silero vad: voice=%v confidence=%.3f segments=%d (%.1fms)",
		out.HasVoice, out.Confidence, len(out.Segments), out.ProcessingTimeMs)
	return Result{HasVoice: out.HasVoice || len(out.Segments) > 0, Confidence: out.Confidence}, nil
}
