package adapters

import (
	"time"
)

type MsgRole string

const (
	USER      MsgRole = "user"
	ASSISTANT MsgRole = "assistant"
	SYSTEM    MsgRole = "system"
)

type ContractMessage struct {
	Role      MsgRole
	Content   string
	CreatedAt time.Time
}

// ContractToolProperty is one node of a JSON schema. Items is set for arrays,
// Properties and Required for objects.
type ContractToolProperty struct {
	Type        string                          `json:"type"`
	Description string                          `json:"description,omitempty"`
	Enum        []string                        `json:"enum,omitempty"`
	Items       *ContractToolProperty           `json:"items,omitempty"`
	Properties  map[string]ContractToolProperty `json:"properties,omitempty"`
	Required    []string                        `json:"required,omitempty"`
}

type ContractToolIOType struct {
	Type       string                          `json:"type"` // "object" default
	Properties map[string]ContractToolProperty `json:"properties"`
}

type ContractToolFn struct {
	Parameters    ContractToolIOType `json:"parameters"`
	RequiredProps []string           `json:"required"`
}

type ContractTool struct {
	Name         string
	Type         string // function default
	Description  string
	ToolFunction ContractToolFn
}

// ContractSelectedModel names the model a request is routed to.
type ContractSelectedModel struct {
	Name    string
	Version string
}
