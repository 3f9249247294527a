// Package cli implements the meetsec command-line front end.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/xpanvictor/meetsec/internal/app"
	"github.com/xpanvictor/meetsec/internal/config"
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/internal/domains/secretary"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
	"github.com/xpanvictor/meetsec/internal/metrics"
	"github.com/xpanvictor/meetsec/pkg/Logger"
)

// Service is the orchestrator surface the commands drive.
type Service interface {
	Process(ctx context.Context, job secretary.Job) (*secretary.Outcome, error)
	Extract(ctx context.Context, transcript string) (meeting.Record, error)
	Render(rec meeting.Record, template []byte) ([]byte, error)
	Publish(ctx context.Context, rec meeting.Record) (*tracker.Result, error)
}

// CommandDeps holds the dependencies for the commands. Tests replace
// LoadConfig and NewService.
type CommandDeps struct {
	LoadConfig func() (*config.Settings, error)
	NewService func(ctx context.Context, cfg *config.Settings, logger *Logger.Logger) (Service, func() error, error)
	Out        io.Writer
}

// DefaultDeps returns the dependencies for production use.
func DefaultDeps() *CommandDeps {
	return &CommandDeps{
		LoadConfig: config.Load,
		NewService: func(ctx context.Context, cfg *config.Settings, logger *Logger.Logger) (Service, func() error, error) {
			// the CLI is one-shot; nothing scrapes its metrics
			a, err := app.NewApp(ctx, cfg, logger, metrics.New(prometheus.NewRegistry()))
			if err != nil {
				return nil, nil, err
			}
			return a.Secretary, a.Close, nil
		},
		Out: os.Stdout,
	}
}

type globalFlags struct {
	output   string
	template string
	outDir   string
}

// session is the loaded configuration and service for one command run.
type session struct {
	cfg    *config.Settings
	svc    Service
	close  func() error
	logger *Logger.Logger
}

func (d *CommandDeps) open(ctx context.Context) (*session, error) {
	cfg, err := d.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := Logger.BuildLogger(cfg.Debug, cfg.LogLevel)
	svc, closeFn, err := d.NewService(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise: %w", err)
	}
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return &session{cfg: cfg, svc: svc, close: closeFn, logger: logger}, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		s.logger.Warnf("shutdown: %v", err)
	}
	_ = s.logger.Sync()
}

// NewRootCommand creates the meetsec root command with all subcommands.
func NewRootCommand(deps *CommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "meetsec",
		Short: "Digital meeting secretary",
		Long: `meetsec turns meeting recordings into protocols and tracker tasks.

The pipeline transcribes the audio, extracts a structured meeting record
(summary, tasks, hypotheses, decisions, participants), renders a DOCX
protocol from a template and optionally publishes the tasks to Weeek or Jira.

Configuration is read from config_<MEETSEC_ENV>.yaml in the working
directory; every key can be overridden with MEETSEC_ environment variables.`,
		Example: `  # Full pipeline, protocol written to protocol.output_dir
  meetsec process meeting.ogg --publish

  # Analyse an existing transcript
  meetsec extract transcript.txt -o json > record.json

  # Re-render a protocol with a custom template
  meetsec render record.json --template company.docx`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(deps.Out)
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", "text", "Output format: text or json")
	root.PersistentFlags().StringVar(&flags.template, "template", "", "DOCX protocol template (default: configured or built-in)")
	root.PersistentFlags().StringVar(&flags.outDir, "out", "", "Directory for generated protocols (default: protocol.output_dir)")

	root.AddCommand(
		newProcessCommand(deps, flags),
		newExtractCommand(deps, flags),
		newRenderCommand(deps, flags),
		newPublishCommand(deps, flags),
		newTemplateCommand(deps),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, deps *CommandDeps, args []string) int {
	root := NewRootCommand(deps)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}
