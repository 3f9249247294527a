package secretary

import (
	"context"
	"strings"

	"github.com/xpanvictor/meetsec/internal/domains/audit"
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
	"github.com/xpanvictor/meetsec/internal/metrics"
)

// Process runs the full pipeline for job. The returned error, if any, is
// always ErrProcessingFailed wrapping the stage error; a partially built
// outcome is never returned.
func (s *Secretary) Process(ctx context.Context, job Job) (*Outcome, error) {
	r, err := s.newRun()
	if err != nil {
		return nil, s.failEarly(err)
	}
	defer r.close()

	out := &Outcome{RunID: r.id}
	audioFile := job.AudioPath
	if job.Audio != nil {
		audioFile = job.Filename
	}
	r.logger.Infof("processing meeting audio %q", audioFile)

	err = s.pipeline(ctx, r, job, out)
	runErr := r.finish(ctx, s, err)
	out.Timings = r.timings
	s.writeAudit(ctx, r, audioFile, out, err)
	if runErr != nil {
		return nil, runErr
	}
	r.logger.Infof("processing finished in %s", out.Timings[StageTotal])
	return out, nil
}

func (s *Secretary) pipeline(ctx context.Context, r *run, job Job, out *Outcome) error {
	var transcript string
	err := r.stage(ctx, s, evTranscribe, StageTranscribe, func() error {
		var err error
		transcript, err = s.transcribe(ctx, r, job)
		return err
	})
	if err != nil {
		return err
	}

	if err := r.stage(ctx, s, evExtract, StageExtract, func() error {
		out.Record = s.extract(ctx, r, transcript)
		return nil
	}); err != nil {
		return err
	}

	if err := r.stage(ctx, s, evAssemble, StageAssemble, func() error {
		doc, err := s.render(out.Record, job.Template)
		out.Document = doc
		return err
	}); err != nil {
		return err
	}

	if !job.Publish {
		return nil
	}
	if s.publisher == nil {
		r.logger.Warn("publishing requested but no tracker is configured")
		out.Tracker = tracker.Skipped(trackerNotConfigured, s.opts.Now())
		return nil
	}
	return r.stage(ctx, s, evPublish, StagePublish, func() error {
		out.Tracker = s.publish(ctx, r, out.Record)
		return nil
	})
}

func (s *Secretary) transcribe(ctx context.Context, r *run, job Job) (string, error) {
	path, err := r.audioPath(job)
	if err != nil {
		return "", err
	}
	transcript, err := s.transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}
	r.logger.Infof("transcribed %d chars with %s", len([]rune(transcript)), s.transcriber.Name())
	return transcript, nil
}

func (s *Secretary) extract(ctx context.Context, r *run, transcript string) meeting.Record {
	rec := s.extractor.Extract(ctx, transcript)
	s.metrics.Record(rec.Valid)
	if !rec.Valid {
		issues := meeting.Check(rec)
		msgs := make([]string, 0, len(issues))
		for _, i := range issues {
			msgs = append(msgs, i.String())
		}
		r.logger.Warnf("meeting record is incomplete, continuing: %s", strings.Join(msgs, "; "))
	}
	return rec
}

func (s *Secretary) render(rec meeting.Record, template []byte) ([]byte, error) {
	if len(template) == 0 {
		template = s.opts.Template
	}
	return s.renderer.Render(template, rec)
}

func (s *Secretary) publish(ctx context.Context, r *run, rec meeting.Record) *tracker.Result {
	res := s.publisher.Publish(ctx, rec)
	s.metrics.Tasks(res.Tracker, len(res.Created), len(res.Failed))
	if res.Status == tracker.StatusError {
		r.logger.Warnf("tracker %s reported an error: %s", res.Tracker, res.Message)
	}
	return res
}

func (s *Secretary) writeAudit(ctx context.Context, r *run, audioFile string, out *Outcome, runErr error) {
	if s.sink == nil {
		return
	}
	entry := audit.Entry{
		Metadata: audit.Metadata{
			RunID:       r.id,
			Timestamp:   s.opts.Now(),
			AudioFile:   audioFile,
			Transcriber: s.transcriber.Name(),
			Valid:       out.Record.Valid,
			TimingsMs:   audit.Timings(r.timings),
		},
		Record:  out.Record.Normalize(),
		Tracker: out.Tracker,
	}
	if runErr != nil {
		entry.Metadata.Error = runErr.Error()
	}
	if err := s.sink.Write(ctx, entry); err != nil {
		r.logger.Errorf("failed to write audit entry to %s: %v", s.sink.Name(), err)
	}
}

func (s *Secretary) failEarly(err error) error {
	s.metrics.Run(metrics.OutcomeFailed)
	s.logger.Errorf("processing failed before start: %v", err)
	return wrap(err)
}
