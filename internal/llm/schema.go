package llm

import (
	"sort"

	"github.com/google/generative-ai-go/genai"
)

// FunctionDeclaration builds a Gemini function declaration from a JSON Schema
// object describing the function parameters
func FunctionDeclaration(name, description string, parameters map[string]any) *genai.FunctionDeclaration {
	decl := &genai.FunctionDeclaration{
		Name:        name,
		Description: description,
	}
	// Gemini rejects object schemas without properties
	if props, _ := parameters["properties"].(map[string]any); len(props) > 0 {
		decl.Parameters = SchemaFromJSON(parameters)
	}
	return decl
}

// SchemaFromJSON converts the subset of JSON Schema used by the tool
// definitions (type, description, enum, items, properties, required) into a
// genai.Schema. Keywords Gemini does not understand are dropped.
func SchemaFromJSON(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}

	s := &genai.Schema{Type: schemaType(m["type"])}
	if desc, ok := m["description"].(string); ok {
		s.Description = desc
	}
	s.Enum = stringList(m["enum"])

	if items, ok := m["items"].(map[string]any); ok {
		s.Items = SchemaFromJSON(items)
	}

	if props, ok := m["properties"].(map[string]any); ok && len(props) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if prop, ok := raw.(map[string]any); ok {
				s.Properties[name] = SchemaFromJSON(prop)
			}
		}
	}

	if required := stringList(m["required"]); len(required) > 0 {
		sort.Strings(required)
		s.Required = required
	}
	return s
}

func schemaType(v any) genai.Type {
	name, _ := v.(string)
	switch name {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
