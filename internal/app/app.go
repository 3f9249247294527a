package app

import (
	"context"
	"fmt"
	"os"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/meetsec/internal/config"
	"github.com/xpanvictor/meetsec/internal/database"
	"github.com/xpanvictor/meetsec/internal/domains/audit"
	"github.com/xpanvictor/meetsec/internal/domains/meeting/extractor"
	"github.com/xpanvictor/meetsec/internal/domains/protocol"
	"github.com/xpanvictor/meetsec/internal/domains/secretary"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
	"github.com/xpanvictor/meetsec/internal/domains/tracker/jira"
	"github.com/xpanvictor/meetsec/internal/domains/tracker/weeek"
	"github.com/xpanvictor/meetsec/internal/metrics"
	auditRepo "github.com/xpanvictor/meetsec/internal/repository/audit"
	"github.com/xpanvictor/meetsec/pkg/Logger"
	"github.com/xpanvictor/meetsec/pkg/io/stt"
	"github.com/xpanvictor/meetsec/pkg/io/stt/openaistt"
	"github.com/xpanvictor/meetsec/pkg/io/stt/vad"
	"github.com/xpanvictor/meetsec/pkg/io/stt/whisper"
	"gorm.io/gorm"
)

// App represents the application with all its dependencies
type App struct {
	Config    *config.Settings
	Logger    *Logger.Logger
	DB        *gorm.DB
	RC        *redis.Client
	Metrics   *metrics.Metrics
	Secretary *secretary.Secretary

	llm *LLMFactory
}

// NewApp builds every collaborator from cfg. Tracker connectivity is
// checked here; a tracker that cannot authenticate fails startup.
func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger, m *metrics.Metrics) (*App, error) {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		llm:     NewLLMFactory(cfg, logger),
	}
	if err := app.setupDependencies(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) setupDependencies(ctx context.Context) error {
	transcriber, err := a.createTranscriber()
	if err != nil {
		return err
	}

	engine, err := a.llm.CreateAssistant(ctx)
	if err != nil {
		return err
	}
	ext, err := extractor.New(engine, extractor.Options{
		Model:       a.Config.Extraction.Model,
		Temperature: a.Config.Extraction.Temperature,
	}, a.Logger.Named("extractor"))
	if err != nil {
		return err
	}

	template, err := a.loadTemplate()
	if err != nil {
		return err
	}

	publisher, err := a.createPublisher(ctx)
	if err != nil {
		return err
	}

	sink, err := a.createAuditSink()
	if err != nil {
		return err
	}

	deps := secretary.Deps{
		Transcriber: transcriber,
		Extractor:   ext,
		Renderer:    protocol.NewAssembler(a.Logger.Named("protocol")),
		Sink:        sink,
		Metrics:     a.Metrics,
	}
	// a nil *tracker.Publisher must not become a non-nil interface
	if publisher != nil {
		deps.Publisher = publisher
	}
	a.Secretary = secretary.New(deps, secretary.Options{
		WorkDir:  a.Config.WorkDir,
		Template: template,
	}, a.Logger)
	return nil
}

func (a *App) createTranscriber() (stt.Transcriber, error) {
	cfg := a.Config.Transcription
	var engine stt.ChunkEngine
	switch cfg.Engine {
	case "whisper":
		c, err := whisper.New(cfg, a.Logger.Named("whisper"))
		if err != nil {
			return nil, err
		}
		engine = c
	case "openai":
		e, err := openaistt.New(a.Config.OpenAI, cfg)
		if err != nil {
			return nil, err
		}
		engine = e
	default:
		return nil, fmt.Errorf("unknown transcription engine %q", cfg.Engine)
	}

	opts := stt.Options{
		SampleRate: cfg.SampleRate,
		Chunk:      cfg.ChunkDuration(),
	}
	if cfg.VAD.Enabled {
		opts.Voice = vad.New(vad.Config{
			URL:          cfg.VAD.URL,
			Threshold:    cfg.VAD.Threshold,
			MinSpeechMs:  cfg.VAD.MinSpeechMs,
			MinSilenceMs: cfg.VAD.MinSilenceMs,
		}, a.Logger.Named("vad"))
	}
	t := stt.NewChunkedTranscriber(engine, stt.NewFFmpegDecoder(cfg.FFmpegPath), opts, a.Logger.Named("stt"))
	a.Logger.Infof("transcriber %s ready, chunk %s", t.Name(), t.ChunkDuration())
	return t, nil
}

func (a *App) loadTemplate() ([]byte, error) {
	path := a.Config.Protocol.TemplatePath
	if path == "" {
		return protocol.DefaultTemplate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read protocol template: %w", err)
	}
	return data, nil
}

// createPublisher returns nil when no tracker is configured.
func (a *App) createPublisher(ctx context.Context) (*tracker.Publisher, error) {
	var backend tracker.Backend
	switch a.Config.Tracker.Kind {
	case "":
		return nil, nil
	case "weeek":
		backend = weeek.New(a.Config.Tracker.Weeek)
	case "jira":
		backend = jira.New(a.Config.Tracker.Jira)
	default:
		return nil, fmt.Errorf("unknown tracker kind %q", a.Config.Tracker.Kind)
	}
	return tracker.New(ctx, backend, a.Logger.Named(backend.Name()))
}

func (a *App) createAuditSink() (audit.Sink, error) {
	switch a.Config.Audit.Sink {
	case "":
		return nil, nil
	case "file":
		return audit.NewFileSink(a.Config.Audit.Dir), nil
	case "mysql":
		db, err := database.InitDB(a.Config.DB)
		if err != nil {
			return nil, err
		}
		a.DB = db
		if err := database.MigrateDB(db); err != nil {
			return nil, err
		}
		return auditRepo.NewGormAuditRepo(db), nil
	case "redis":
		rc, err := database.NewRedis(a.Config.Redis)
		if err != nil {
			return nil, err
		}
		a.RC = rc
		return auditRepo.NewRedisSink(rc, a.Config.Audit.RedisTTL), nil
	default:
		return nil, fmt.Errorf("unknown audit sink %q", a.Config.Audit.Sink)
	}
}

// TrackerName is empty when publishing is disabled.
func (a *App) TrackerName() string {
	if a.Secretary == nil {
		return ""
	}
	return a.Secretary.PublisherName()
}

func (a *App) Close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	keep(a.llm.Close())
	if a.RC != nil {
		keep(a.RC.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			keep(sqlDB.Close())
		}
	}
	return first
}
