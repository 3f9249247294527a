package prompts

import (
	"fmt"
	"time"

	"github.com/xpanvictor/meetsec/pkg/assistant"
)

type PromptDefinition struct {
	Content string
	Version float32
}

type SYS_PROMPT struct {
	Intent         string
	CurrentVersion float32
	Items          map[float32]PromptDefinition // version-content
}

func (sp *SYS_PROMPT) GetVersion(version float32) (PromptDefinition, bool) {
	i, ok := sp.Items[version]
	return i, ok
}

func (sp *SYS_PROMPT) GetCurrentPrompt() PromptDefinition {
	return sp.Items[sp.CurrentVersion]
}

func (pd PromptDefinition) ToMessage(role assistant.Role) assistant.AssistantMessage {
	return assistant.AssistantMessage{
		MsgRole:   role,
		Content:   pd.Content,
		CreatedAt: time.Now(),
	}
}

// Render fills a template prompt's %s verbs.
func (pd PromptDefinition) Render(args ...any) string {
	return fmt.Sprintf(pd.Content, args...)
}
