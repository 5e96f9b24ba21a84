package jsonschema_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	js "github.com/reoring/inferskema/jsonschema"
)

// normalize marshals v to JSON and unmarshals back into interface{} to remove ordering effects.
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	_ = json.Unmarshal(b, &out)
	return out
}

func objectSchema() *js.Schema {
	return &js.Schema{
		Type: js.Types{"object"},
		Properties: map[string]*js.Schema{
			"b": {Type: js.Types{"null", "string"}},
			"a": {Type: js.Types{"integer"}},
		},
		Required:             []string{"a"},
		AdditionalProperties: false,
	}
}

func TestMarshal_KeywordOrder(t *testing.T) {
	b, err := json.Marshal(objectSchema())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"object","properties":{"a":{"type":"integer"},"b":{"type":["null","string"]}},"required":["a"],"additionalProperties":false}`
	if string(b) != want {
		t.Fatalf("unexpected encoding\n got=%s\nwant=%s", b, want)
	}
}

func TestMarshal_ObjectAlwaysCarriesRequired(t *testing.T) {
	s := &js.Schema{Type: js.Types{"object"}, Properties: map[string]*js.Schema{}, AdditionalProperties: false}
	got := normalize(s)
	want := normalize(map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"required":             []any{},
		"additionalProperties": false,
	})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("object schema mismatch\n got=%v\nwant=%v", got, want)
	}
}

func TestMarshal_EmptyItems(t *testing.T) {
	s := &js.Schema{Type: js.Types{"array"}, Items: &js.Schema{}}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"type":"array","items":{}}` {
		t.Fatalf("unexpected encoding: %s", b)
	}
}

func TestMarshal_Dialect(t *testing.T) {
	s := &js.Schema{Dialect: js.Draft202012, Type: js.Types{"string"}}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"string"}`
	if string(b) != want {
		t.Fatalf("unexpected encoding\n got=%s\nwant=%s", b, want)
	}
}

func TestUnmarshal_RoundTrip(t *testing.T) {
	in := objectSchema()
	in.Items = &js.Schema{Type: js.Types{"boolean"}}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out js.Schema
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, &out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalIndent_Deterministic(t *testing.T) {
	first, err := js.MarshalIndent(objectSchema())
	if err != nil {
		t.Fatalf("indent: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := js.MarshalIndent(objectSchema())
		if err != nil {
			t.Fatalf("indent: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("non-deterministic output\nfirst=%s\nagain=%s", first, again)
		}
	}
	want := `{
  "type": "object",
  "properties": {
    "a": {
      "type": "integer"
    },
    "b": {
      "type": [
        "null",
        "string"
      ]
    }
  },
  "required": [
    "a"
  ],
  "additionalProperties": false
}`
	if string(first) != want {
		t.Fatalf("unexpected indentation\n got=%s\nwant=%s", first, want)
	}
}

func TestMarshalIndent_KeepsHTMLCharacters(t *testing.T) {
	s := &js.Schema{
		Type:                 js.Types{"object"},
		Properties:           map[string]*js.Schema{"<a&b>": {Type: js.Types{"string"}}},
		Required:             []string{"<a&b>"},
		AdditionalProperties: false,
	}
	b, err := js.MarshalIndent(s)
	if err != nil {
		t.Fatalf("indent: %v", err)
	}
	got := string(b)
	if strings.Contains(got, `\u003c`) || strings.Contains(got, `\u0026`) {
		t.Fatalf("HTML characters escaped: %s", got)
	}
	if !strings.Contains(got, `"<a&b>": {`) || !strings.Contains(got, `"<a&b>"
  ]`) {
		t.Fatalf("property name not written as is: %s", got)
	}
}

func TestMarshalYAML(t *testing.T) {
	b, err := js.MarshalYAML(objectSchema())
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var got any
	if err := yaml.Unmarshal(b, &got); err != nil {
		t.Fatalf("yaml decode: %v\n%s", err, b)
	}
	want := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "integer"},
			"b": map[string]any{"type": []any{"null", "string"}},
		},
		"required":             []any{"a"},
		"additionalProperties": false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s\n%s", diff, b)
	}
}
