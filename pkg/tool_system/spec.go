package toolsystem

import "github.com/xpanvictor/meetsec/pkg/assistant/adapters"

type JSONType string

const (
	JSONString JSONType = "string"
	JSONObject JSONType = "object"
	JSONArray  JSONType = "array"
)

// String builds a string schema node.
func String(description string, enum ...string) adapters.ContractToolProperty {
	return adapters.ContractToolProperty{Type: string(JSONString), Description: description, Enum: enum}
}

// ArrayOf builds an array schema node with the given item schema.
func ArrayOf(description string, item adapters.ContractToolProperty) adapters.ContractToolProperty {
	return adapters.ContractToolProperty{Type: string(JSONArray), Description: description, Items: &item}
}
