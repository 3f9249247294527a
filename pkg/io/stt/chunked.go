package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xpanvictor/meetsec/pkg/Logger"
	audioring "github.com/xpanvictor/meetsec/pkg/io/stt/audioRing"
)

const frameDuration = time.Second

type Options struct {
	SampleRate int
	Chunk      time.Duration
	// Voice, when set, drops chunks it reports as silent.
	Voice VoiceDetector
}

// ChunkedTranscriber decodes a recording, slices it into chunks through a
// frame buffer and transcribes the chunks in order.
type ChunkedTranscriber struct {
	engine     ChunkEngine
	decoder    Decoder
	voice      VoiceDetector
	sampleRate int
	chunk      time.Duration
	logger     *Logger.Logger
}

func NewChunkedTranscriber(engine ChunkEngine, decoder Decoder, opts Options, logger *Logger.Logger) *ChunkedTranscriber {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 16000
	}
	if opts.Chunk <= 0 {
		opts.Chunk = 45 * time.Second
	}
	if limit := engine.MaxChunk(); limit > 0 && limit < opts.Chunk {
		opts.Chunk = limit
	}
	return &ChunkedTranscriber{
		engine:     engine,
		decoder:    decoder,
		voice:      opts.Voice,
		sampleRate: opts.SampleRate,
		chunk:      opts.Chunk,
		logger:     logger,
	}
}

func (c *ChunkedTranscriber) Name() string { return c.engine.Name() }

func (c *ChunkedTranscriber) ChunkDuration() time.Duration { return c.chunk }

func (c *ChunkedTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrAudioNotFound, audioPath)
	}

	stream, err := c.decoder.Decode(ctx, audioPath, c.sampleRate)
	if err != nil {
		return "", err
	}
	text, err := c.transcribeStream(ctx, stream)
	if cerr := stream.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	c.logger.Infof("%s transcription finished: %d characters", c.engine.Name(), len([]rune(text)))
	return text, nil
}

func (c *ChunkedTranscriber) transcribeStream(ctx context.Context, pcm io.Reader) (string, error) {
	frameBytes := int(frameDuration.Seconds() * float64(c.sampleRate) * 2)
	framesPerChunk := int((c.chunk + frameDuration - 1) / frameDuration)
	ring := audioring.New(audioring.SizeFor(framesPerChunk, frameBytes))

	var (
		parts  []string
		index  int
		offset time.Duration
	)
	flush := func() error {
		frames := ring.Drain()
		if len(frames) == 0 {
			return nil
		}
		chunk, pcm := c.buildChunk(index, frames)
		index++
		if c.voice != nil {
			voiced, err := c.voice.HasVoice(ctx, pcm, c.sampleRate)
			if err != nil {
				c.logger.Warnf("voice detection failed for chunk %d: %v", chunk.Index, err)
			} else if !voiced {
				c.logger.Debugf("skipping silent chunk %d at %s", chunk.Index, chunk.Offset)
				return nil
			}
		}
		c.logger.Debugf("transcribing chunk %d at %s (%s)", chunk.Index, chunk.Offset, chunk.Duration)
		text, err := c.engine.TranscribeChunk(ctx, chunk)
		if err != nil {
			return fmt.Errorf("chunk %d at %s: %w", chunk.Index, chunk.Offset, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
		return nil
	}

	buf := make([]byte, frameBytes)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := io.ReadFull(pcm, buf)
		if n > 0 {
			frame := audioring.Frame{PCM: append([]byte(nil), buf[:n]...), Offset: offset, SampleRate: int32(c.sampleRate), Channels: 1}
			offset += frame.Duration()
			if qerr := ring.Enqueue(frame); qerr != nil {
				return "", qerr
			}
			if ring.Frames() >= framesPerChunk {
				if ferr := flush(); ferr != nil {
					return "", ferr
				}
			}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrDecodeFailed, err)
		}
	}
	if err := flush(); err != nil {
		return "", err
	}
	return strings.Join(parts, " "), nil
}

func (c *ChunkedTranscriber) buildChunk(index int, frames []audioring.Frame) (Chunk, []byte) {
	size := 0
	for _, f := range frames {
		size += len(f.PCM)
	}
	pcm := make([]byte, 0, size)
	var dur time.Duration
	for _, f := range frames {
		pcm = append(pcm, f.PCM...)
		dur += f.Duration()
	}
	return Chunk{
		Index:    index,
		Offset:   frames[0].Offset,
		Duration: dur,
		WAV:      EncodeWAV(pcm, c.sampleRate),
	}, pcm
}
