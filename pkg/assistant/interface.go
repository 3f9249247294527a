package assistant

import (
	"context"
	"errors"
	"time"

	"github.com/xpanvictor/meetsec/pkg/assistant/adapters"
)

type Role = adapters.MsgRole

const (
	USER      = adapters.USER
	ASSISTANT = adapters.ASSISTANT
	SYSTEM    = adapters.SYSTEM
)

var (
	ErrNoChoices     = errors.New("assistant returned no choices")
	ErrNotConfigured = errors.New("assistant is not configured")
)

type AssistantMessage struct {
	Content   string
	CreatedAt time.Time
	MsgRole   Role
}

// AssistantInput is one structured-output request. When Tool is set the
// engine is asked to answer with arguments matching its schema; ForceTool
// makes that mandatory where the engine supports it.
type AssistantInput struct {
	Msgs        []AssistantMessage
	Tool        *adapters.ContractTool
	ForceTool   bool
	Temperature float64
	Model       adapters.ContractSelectedModel
}

// ToolCall carries the raw JSON arguments exactly as the engine produced them.
type ToolCall struct {
	Id        string
	Name      string
	Arguments string
}

type AssistantOutput struct {
	Id        string
	Response  AssistantMessage
	ToolCalls []ToolCall
}

type Assistant interface {
	ProcessPrompt(ctx context.Context, input AssistantInput) (*AssistantOutput, error)
	Name() string
}
