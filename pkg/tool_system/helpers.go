package toolsystem

import (
	"fmt"

	"github.com/xpanvictor/meetsec/pkg/assistant/adapters"
)

// ToolBuilder helps create function schemas with a fluent interface
type ToolBuilder struct {
	name        string
	description string
	properties  map[string]adapters.ContractToolProperty
	required    []string
}

// NewToolBuilder creates a new tool builder
func NewToolBuilder(name, description string) *ToolBuilder {
	return &ToolBuilder{
		name:        name,
		description: description,
		properties:  make(map[string]adapters.ContractToolProperty),
		required:    make([]string, 0),
	}
}

// AddProperty adds an arbitrary schema node
func (tb *ToolBuilder) AddProperty(name string, prop adapters.ContractToolProperty, required bool) *ToolBuilder {
	tb.properties[name] = prop
	if required {
		tb.required = append(tb.required, name)
	}
	return tb
}

// AddStringParameter adds a string parameter
func (tb *ToolBuilder) AddStringParameter(name, description string, required bool, enum ...string) *ToolBuilder {
	return tb.AddProperty(name, String(description, enum...), required)
}

// AddArrayParameter adds an array parameter with typed items
func (tb *ToolBuilder) AddArrayParameter(name, description string, required bool, items adapters.ContractToolProperty) *ToolBuilder {
	return tb.AddProperty(name, ArrayOf(description, items), required)
}

// AddObjectArrayParameter adds an array of objects built by ob
func (tb *ToolBuilder) AddObjectArrayParameter(name, description string, required bool, ob *ObjectBuilder) *ToolBuilder {
	return tb.AddArrayParameter(name, description, required, ob.Build())
}

// Build creates the final function schema
func (tb *ToolBuilder) Build() (adapters.ContractTool, error) {
	if tb.name == "" {
		return adapters.ContractTool{}, fmt.Errorf("tool name is required")
	}
	if len(tb.properties) == 0 {
		return adapters.ContractTool{}, fmt.Errorf("tool %s has no parameters", tb.name)
	}
	for _, r := range tb.required {
		if _, ok := tb.properties[r]; !ok {
			return adapters.ContractTool{}, fmt.Errorf("tool %s: required parameter %s is not declared", tb.name, r)
		}
	}

	props := make(map[string]adapters.ContractToolProperty, len(tb.properties))
	for k, v := range tb.properties {
		props[k] = v
	}
	return adapters.ContractTool{
		Name:        tb.name,
		Type:        "function",
		Description: tb.description,
		ToolFunction: adapters.ContractToolFn{
			Parameters: adapters.ContractToolIOType{
				Type:       string(JSONObject),
				Properties: props,
			},
			RequiredProps: append([]string(nil), tb.required...),
		},
	}, nil
}

// ObjectBuilder builds nested object schemas such as array items.
type ObjectBuilder struct {
	description string
	properties  map[string]adapters.ContractToolProperty
	required    []string
}

func NewObjectBuilder(description string) *ObjectBuilder {
	return &ObjectBuilder{
		description: description,
		properties:  make(map[string]adapters.ContractToolProperty),
	}
}

func (ob *ObjectBuilder) AddStringParameter(name, description string, required bool, enum ...string) *ObjectBuilder {
	ob.properties[name] = String(description, enum...)
	if required {
		ob.required = append(ob.required, name)
	}
	return ob
}

func (ob *ObjectBuilder) Build() adapters.ContractToolProperty {
	props := make(map[string]adapters.ContractToolProperty, len(ob.properties))
	for k, v := range ob.properties {
		props[k] = v
	}
	return adapters.ContractToolProperty{
		Type:        string(JSONObject),
		Description: ob.description,
		Properties:  props,
		Required:    append([]string(nil), ob.required...),
	}
}
