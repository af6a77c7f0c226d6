package llm

import (
	"encoding/json"

	"google.golang.org/genai"
)

// Schema types.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Schema is the subset of JSON Schema the generators need to describe
// structured output.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	// Nullable lets the value be null. Required nullable properties must
	// still appear in the output.
	Nullable    bool               `json:"-"`
}

// Object builds an object schema requiring every listed property.
func Object(props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: props, Required: required}
}

// ArrayOf builds an array schema.
func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// String builds a string schema.
func String(desc string) *Schema {
	return &Schema{Type: TypeString, Description: desc}
}

// Number builds a number schema.
func Number(desc string) *Schema {
	return &Schema{Type: TypeNumber, Description: desc}
}

// NullableNumber builds a number schema that also accepts null.
func NullableNumber(desc string) *Schema {
	return &Schema{Type: TypeNumber, Description: desc, Nullable: true}
}

// MarshalJSON renders a nullable type as a [type, "null"] union.
func (s Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	out := struct {
		Type any `json:"type"`
		plain
	}{Type: s.Type, plain: plain(s)}
	if s.Nullable {
		out.Type = []string{s.Type, "null"}
	}
	return json.Marshal(out)
}

// JSON renders s as a JSON Schema document.
func (s *Schema) JSON() json.RawMessage {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return b
}

// Genai converts s to the Gen AI SDK schema.
func (s *Schema) Genai() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}
	if s.Nullable {
		out.Nullable = genai.Ptr(true)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v.Genai()
		}
		// Generated keys follow the Required order.
		if len(s.Required) > 0 {
			out.PropertyOrdering = s.Required
		}
	}
	if s.Items != nil {
		out.Items = s.Items.Genai()
	}
	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case TypeObject:
		return genai.TypeObject
	case TypeArray:
		return genai.TypeArray
	case TypeNumber:
		return genai.TypeNumber
	case TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
