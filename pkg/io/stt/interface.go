package stt

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrAudioNotFound = errors.New("audio file not found")
	ErrDecodeFailed  = errors.New("audio decoding failed")
	ErrNotConfigured = errors.New("speech engine not configured")
)

// Transcriber turns a recording on disk into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	Name() string
}

// Chunk is one WAV-wrapped slice of the decoded recording.
type Chunk struct {
	Index    int
	Offset   time.Duration
	Duration time.Duration
	WAV      []byte
}

// ChunkEngine is a speech backend that transcribes bounded pieces of audio.
type ChunkEngine interface {
	Name() string
	// MaxChunk caps the chunk length the engine accepts; zero means no cap.
	MaxChunk() time.Duration
	TranscribeChunk(ctx context.Context, chunk Chunk) (string, error)
}

// VoiceDetector lets the transcriber skip chunks without speech.
type VoiceDetector interface {
	HasVoice(ctx context.Context, pcm []byte, sampleRate int) (bool, error)
}

// Decoder produces 16-bit little-endian mono PCM at sampleRate from any
// audio file.
type Decoder interface {
	Decode(ctx context.Context, path string, sampleRate int) (io.ReadCloser, error)
}
