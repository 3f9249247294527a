package secretary

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/xpanvictor/meetsec/internal/domains/audit"
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/internal/domains/meeting/extractor"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
	"github.com/xpanvictor/meetsec/internal/metrics"
	"github.com/xpanvictor/meetsec/pkg/Logger"
	"github.com/xpanvictor/meetsec/pkg/io/stt"
)

var (
	// ErrProcessingFailed is the only error class Process returns; the stage
	// error is wrapped alongside it.
	ErrProcessingFailed = errors.New("meeting processing failed")

	ErrNoAudio         = errors.New("no audio provided")
	ErrEmptyTranscript = errors.New("пустая транскрипция - проверьте аудиофайл")
)

// Stage names used for timings and metrics.
const (
	StageTranscribe = "transcribe"
	StageExtract    = "extract"
	StageAssemble   = "assemble"
	StagePublish    = "publish"
	StageTotal      = "total"
)

const trackerNotConfigured = "трекер задач не настроен"

// Renderer renders a record into a DOCX template.
type Renderer interface {
	Render(template []byte, rec meeting.Record) ([]byte, error)
}

type Publisher interface {
	Name() string
	Publish(ctx context.Context, rec meeting.Record) *tracker.Result
}

// Job is one processing request. Exactly one of AudioPath or Audio is used;
// Audio is copied into the run workspace under Filename.
type Job struct {
	AudioPath string
	Audio     io.Reader
	Filename  string
	Publish   bool
	// Template overrides the default protocol template.
	Template []byte
}

type Outcome struct {
	RunID    string
	Record   meeting.Record
	Document []byte
	Tracker  *tracker.Result
	Timings  map[string]time.Duration
}

type Options struct {
	// WorkDir is where per-run directories are created; os.TempDir when empty.
	WorkDir  string
	Template []byte
	Now      func() time.Time
}

type Deps struct {
	Transcriber stt.Transcriber
	Extractor   extractor.Extractor
	Renderer    Renderer
	// Publisher and Sink are optional.
	Publisher Publisher
	Sink      audit.Sink
	Metrics   *metrics.Metrics
}

// Secretary sequences transcription, extraction, protocol assembly and
// publishing for one meeting at a time per call. It keeps no state between
// runs and is safe for concurrent use when its collaborators are.
type Secretary struct {
	transcriber stt.Transcriber
	extractor   extractor.Extractor
	renderer    Renderer
	publisher   Publisher
	sink        audit.Sink
	metrics     *metrics.Metrics
	opts        Options
	logger      *Logger.Logger
}

func New(deps Deps, opts Options, logger *Logger.Logger) *Secretary {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Secretary{
		transcriber: deps.Transcriber,
		extractor:   deps.Extractor,
		renderer:    deps.Renderer,
		publisher:   deps.Publisher,
		sink:        deps.Sink,
		metrics:     deps.Metrics,
		opts:        opts,
		logger:      logger.Named("secretary"),
	}
}

// PublisherName is empty when no tracker is configured.
func (s *Secretary) PublisherName() string {
	if s.publisher == nil {
		return ""
	}
	return s.publisher.Name()
}
