package jsonschema

import (
	"bytes"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Draft202012 is the dialect URI for JSON Schema 2020-12.
const Draft202012 = "https://json-schema.org/draft/2020-12/schema"

// Schema is the subset of JSON Schema produced by structural inference.
//
// A non-nil Properties map marks an object-typed schema: properties and
// required are then always written, even when empty. An Items schema with no
// fields is written as {} and accepts any element.
type Schema struct {
	Dialect string `json:"$schema,omitempty"`
	Type    Types  `json:"type,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`
}

// marshal leaves <, > and & unescaped so property names print as written.
func marshal(v any) ([]byte, error) {
	return json.MarshalWithOption(v, json.DisableHTMLEscape())
}

// Types is the "type" keyword. A single entry is written as a bare string,
// several as an array.
type Types []string

func (t Types) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return marshal(t[0])
	}
	return marshal([]string(t))
}

func (t *Types) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*t = Types{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*t = Types(many)
	return nil
}

// wireSchema fixes the keyword order of the encoded document.
type wireSchema struct {
	Dialect              string              `json:"$schema,omitempty"`
	Type                 Types               `json:"type,omitempty"`
	Properties           *map[string]*Schema `json:"properties,omitempty"`
	Required             *[]string           `json:"required,omitempty"`
	AdditionalProperties json.RawMessage     `json:"additionalProperties,omitempty"`
	Items                *Schema             `json:"items,omitempty"`
}

func (s Schema) MarshalJSON() ([]byte, error) {
	w := wireSchema{
		Dialect: s.Dialect,
		Type:    s.Type,
		Items:   s.Items,
	}
	if s.AdditionalProperties != nil {
		ap, err := marshal(s.AdditionalProperties)
		if err != nil {
			return nil, err
		}
		w.AdditionalProperties = ap
	}
	if s.Properties != nil {
		props := s.Properties
		req := s.Required
		if req == nil {
			req = []string{}
		}
		w.Properties = &props
		w.Required = &req
	} else if s.Required != nil {
		req := s.Required
		w.Required = &req
	}
	return marshal(w)
}

func (s *Schema) UnmarshalJSON(b []byte) error {
	type plain Schema
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = Schema(p)
	return nil
}

// MarshalIndent encodes s with two-space indentation. Identical schemas
// always encode to identical bytes.
func MarshalIndent(s *Schema) ([]byte, error) {
	raw, err := marshal(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalYAML encodes s as a YAML document with the same keyword order as
// the JSON form.
func MarshalYAML(s *Schema) ([]byte, error) {
	raw, err := marshal(s)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	blockStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle clears the flow and quoting styles inherited from the JSON text.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
