package secretary

import (
	"context"
	"fmt"
	"strings"

	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
)

func wrap(err error) error {
	return fmt.Errorf("%w: %w", ErrProcessingFailed, err)
}

// Transcribe runs only the transcription stage.
func (s *Secretary) Transcribe(ctx context.Context, job Job) (string, error) {
	r, err := s.newRun()
	if err != nil {
		return "", s.failEarly(err)
	}
	defer r.close()

	var transcript string
	err = r.stage(ctx, s, evTranscribe, StageTranscribe, func() error {
		var err error
		transcript, err = s.transcribe(ctx, r, job)
		return err
	})
	if err := r.finish(ctx, s, err); err != nil {
		return "", err
	}
	return transcript, nil
}

// Extract analyses an existing transcript. Blank transcripts are rejected
// before the engine is called.
func (s *Secretary) Extract(ctx context.Context, transcript string) (meeting.Record, error) {
	if strings.TrimSpace(transcript) == "" {
		return meeting.Record{}, wrap(ErrEmptyTranscript)
	}
	r, err := s.newRun()
	if err != nil {
		return meeting.Record{}, s.failEarly(err)
	}
	defer r.close()

	var rec meeting.Record
	err = r.stage(ctx, s, evExtract, StageExtract, func() error {
		rec = s.extract(ctx, r, transcript)
		return nil
	})
	if err := r.finish(ctx, s, err); err != nil {
		return meeting.Record{}, err
	}
	return rec, nil
}

// Render assembles a protocol for rec. An empty template selects the
// configured default.
func (s *Secretary) Render(rec meeting.Record, template []byte) ([]byte, error) {
	doc, err := s.render(rec.Normalize(), template)
	if err != nil {
		s.logger.Errorf("protocol rendering failed: %v", err)
		return nil, wrap(err)
	}
	return doc, nil
}

// Publish sends an existing record to the tracker.
func (s *Secretary) Publish(ctx context.Context, rec meeting.Record) (*tracker.Result, error) {
	if s.publisher == nil {
		return tracker.Skipped(trackerNotConfigured, s.opts.Now()), nil
	}
	r, err := s.newRun()
	if err != nil {
		return nil, s.failEarly(err)
	}
	defer r.close()

	var res *tracker.Result
	err = r.stage(ctx, s, evPublish, StagePublish, func() error {
		res = s.publish(ctx, r, rec.Normalize())
		return nil
	})
	if err := r.finish(ctx, s, err); err != nil {
		return nil, err
	}
	return res, nil
}
