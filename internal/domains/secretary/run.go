package secretary

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/xpanvictor/meetsec/internal/metrics"
	"github.com/xpanvictor/meetsec/pkg/Logger"
)

// run is the state of a single invocation. Its directory is removed by
// close whatever the outcome.
type run struct {
	id      string
	dir     string
	machine *fsm.FSM
	started time.Time
	timings map[string]time.Duration
	logger  *Logger.Logger
}

func (s *Secretary) newRun() (*run, error) {
	id := uuid.NewString()
	base := s.opts.WorkDir
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "meetsec-"+id)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create run workspace: %w", err)
	}
	logger := s.logger.With("run_id", id)
	return &run{
		id:      id,
		dir:     dir,
		machine: newMachine(logger),
		started: time.Now(),
		timings: make(map[string]time.Duration),
		logger:  logger,
	}, nil
}

func (r *run) close() {
	if err := os.RemoveAll(r.dir); err != nil {
		r.logger.Warnf("failed to remove run workspace %s: %v", r.dir, err)
	}
}

func (r *run) State() string { return r.machine.Current() }

// stage moves the machine with event and times fn under name.
func (r *run) stage(ctx context.Context, s *Secretary, event, name string, fn func() error) error {
	if err := r.machine.Event(ctx, event); err != nil {
		return fmt.Errorf("invalid transition %s from %s: %w", event, r.machine.Current(), err)
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.timings[name] = elapsed
	s.metrics.ObserveStage(name, elapsed)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	r.logger.Infof("stage %s finished in %s", name, elapsed.Round(time.Millisecond))
	return nil
}

// finish closes the machine and stamps the total time. A non-nil err moves
// the run to failed and is returned wrapped in ErrProcessingFailed.
func (r *run) finish(ctx context.Context, s *Secretary, err error) error {
	r.timings[StageTotal] = time.Since(r.started)
	if err == nil {
		if ferr := r.machine.Event(ctx, evFinish); ferr != nil {
			r.logger.Warnf("could not close run state machine: %v", ferr)
		}
		s.metrics.Run(metrics.OutcomeSuccess)
		return nil
	}
	state := r.State()
	if ferr := r.machine.Event(ctx, evFail); ferr != nil {
		r.logger.Warnf("could not mark run failed from %s: %v", state, ferr)
	}
	s.metrics.Run(metrics.OutcomeFailed)
	r.logger.Errorf("processing failed in %s after %s: %v", state, r.timings[StageTotal].Round(time.Millisecond), err)
	return wrap(err)
}

// audioPath returns a path to the job's audio, copying a stream into the
// run workspace when needed.
func (r *run) audioPath(job Job) (string, error) {
	if job.Audio == nil {
		if job.AudioPath == "" {
			return "", ErrNoAudio
		}
		return job.AudioPath, nil
	}
	name := filepath.Base(job.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "audio"
	}
	path := filepath.Join(r.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	defer f.Close()
	n, err := io.Copy(f, job.Audio)
	if err != nil {
		return "", fmt.Errorf("failed to store audio: %w", err)
	}
	if n == 0 {
		return "", ErrNoAudio
	}
	return path, nil
}
