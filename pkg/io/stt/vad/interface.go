package vad

import "context"

// Result is the outcome of voice activity detection on one chunk.
type Result struct {
	HasVoice   bool
	Confidence float32
}

// Detector decides whether a PCM chunk contains speech.
type Detector interface {
	Detect(ctx context.Context, pcm []byte, sampleRate int) (Result, error)
}

type Config struct {
	URL          string  // Silero VAD service; empty uses the energy check only
	Threshold    float32 // speech probability for Silero, mean-square energy for the fallback
	MinSpeechMs  int
	MinSilenceMs int
}
