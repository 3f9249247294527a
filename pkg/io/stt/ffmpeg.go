package stt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpegDecoder shells out to ffmpeg and streams its raw PCM output.
type FFmpegDecoder struct {
	Path string
}

func NewFFmpegDecoder(path string) *FFmpegDecoder {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpegDecoder{Path: path}
}

func (d *FFmpegDecoder) Decode(ctx context.Context, path string, sampleRate int) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, d.Path,
		"-nostdin", "-hide_banner", "-loglevel", "error",
		"-i", path,
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "s16le", "-acodec", "pcm_s16le",
		"pipe:1",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: failed to start %s: %v", ErrDecodeFailed, d.Path, err)
	}
	return &ffmpegStream{ReadCloser: stdout, cmd: cmd, stderr: &stderr}, nil
}

type ffmpegStream struct {
	io.ReadCloser
	cmd    *exec.Cmd
	stderr *bytes.Buffer
}

// Close waits for ffmpeg and reports a non-zero exit with its stderr.
func (s *ffmpegStream) Close() error {
	_, _ = io.Copy(io.Discard, s.ReadCloser)
	if err := s.cmd.Wait(); err != nil {
		msg := strings.TrimSpace(s.stderr.String())
		return fmt.Errorf("%w: %v: %s", ErrDecodeFailed, err, msg)
	}
	return nil
}
