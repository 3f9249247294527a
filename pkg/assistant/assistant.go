package assistant

import (
	"time"

	"github.com/xpanvictor/meetsec/pkg/assistant/adapters"
)

// NewAssistantInput builds the common system + user exchange for a forced
// tool call.
func NewAssistantInput(system, user string, tool *adapters.ContractTool, temperature float64) AssistantInput {
	now := time.Now()
	msgs := make([]AssistantMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, AssistantMessage{Content: system, CreatedAt: now, MsgRole: SYSTEM})
	}
	msgs = append(msgs, AssistantMessage{Content: user, CreatedAt: now, MsgRole: USER})
	return AssistantInput{
		Msgs:        msgs,
		Tool:        tool,
		ForceTool:   tool != nil,
		Temperature: temperature,
	}
}

// SplitSystem separates system instructions from the conversation, for
// engines that take them out of band.
func SplitSystem(msgs []AssistantMessage) (system string, rest []AssistantMessage) {
	for _, m := range msgs {
		if m.MsgRole == SYSTEM {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
