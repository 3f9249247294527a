package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/xpanvictor/meetsec/internal/constants/prompts"
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/pkg/Logger"
	"github.com/xpanvictor/meetsec/pkg/assistant"
	"github.com/xpanvictor/meetsec/pkg/assistant/adapters"
)

// Extractor turns transcripts into meeting records.
type Extractor interface {
	Extract(ctx context.Context, transcript string) meeting.Record
}

type Options struct {
	Model       string
	Temperature float64
}

type extractor struct {
	engine assistant.Assistant
	schema adapters.ContractTool
	opts   Options
	logger *Logger.Logger
}

func New(engine assistant.Assistant, opts Options, logger *Logger.Logger) (Extractor, error) {
	schema, err := BuildSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction schema: %w", err)
	}
	return &extractor{
		engine: engine,
		schema: schema,
		opts:   opts,
		logger: logger,
	}, nil
}

// Extract never fails: engine and decode errors degrade to an empty record
// whose summary carries the error.
func (e *extractor) Extract(ctx context.Context, transcript string) meeting.Record {
	if strings.TrimSpace(transcript) == "" {
		e.logger.Warn("empty transcript, skipping analysis")
		return e.finish(meeting.NewEmptyRecord(transcript, ""))
	}

	e.logger.Infof("analysing transcript with %s (%d chars)", e.engine.Name(), len([]rune(transcript)))

	input := assistant.NewAssistantInput(
		prompts.MEETING_ANALYST.GetCurrentPrompt().Content,
		prompts.MEETING_ANALYSIS_REQUEST.GetCurrentPrompt().Render(transcript),
		&e.schema,
		e.opts.Temperature,
	)
	input.Model = adapters.ContractSelectedModel{Name: e.opts.Model}

	out, err := e.engine.ProcessPrompt(ctx, input)
	if err != nil {
		e.logger.Errorf("analysis request failed: %v", err)
		return e.finish(meeting.NewEmptyRecord(transcript, err.Error()))
	}

	payload, err := FirstPayload(out)
	if err != nil {
		e.logger.Errorf("analysis response unusable: %v", err)
		return e.finish(meeting.NewEmptyRecord(transcript, err.Error()))
	}

	rec, err := Decode(transcript, payload)
	if err != nil {
		e.logger.Errorf("analysis response unusable: %v", err)
		return e.finish(meeting.NewEmptyRecord(transcript, err.Error()))
	}

	e.logger.Infof("analysis done: %d tasks, %d decisions, %d hypotheses",
		len(rec.Tasks), len(rec.Decisions), len(rec.Hypotheses))
	return e.finish(rec)
}

func (e *extractor) finish(rec meeting.Record) meeting.Record {
	issues := meeting.Check(rec)
	rec.Valid = len(issues) == 0
	for _, issue := range issues {
		e.logger.Warnf("record validation: %s", issue)
	}
	return rec
}
