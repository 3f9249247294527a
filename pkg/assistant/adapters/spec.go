package adapters

// ParametersSchema renders the tool parameters as a plain JSON-schema map,
// the shape OpenAI function definitions and Ollama format hints expect.
func (t ContractTool) ParametersSchema() map[string]any {
	props := make(map[string]any, len(t.ToolFunction.Parameters.Properties))
	for name, p := range t.ToolFunction.Parameters.Properties {
		props[name] = p.Schema()
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(t.ToolFunction.RequiredProps) > 0 {
		schema["required"] = append([]string(nil), t.ToolFunction.RequiredProps...)
	}
	return schema
}

// Schema renders a single property node.
func (p ContractToolProperty) Schema() map[string]any {
	out := map[string]any{"type": p.Type}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if len(p.Enum) > 0 {
		out["enum"] = append([]string(nil), p.Enum...)
	}
	if p.Items != nil {
		out["items"] = p.Items.Schema()
	}
	if len(p.Properties) > 0 {
		props := make(map[string]any, len(p.Properties))
		for name, child := range p.Properties {
			props[name] = child.Schema()
		}
		out["properties"] = props
	}
	if len(p.Required) > 0 {
		out["required"] = append([]string(nil), p.Required...)
	}
	return out
}
