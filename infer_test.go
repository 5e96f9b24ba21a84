package inferskema_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inferskema "github.com/reoring/inferskema"
	"github.com/reoring/inferskema/internal/validation"
	js "github.com/reoring/inferskema/jsonschema"
)

var corpus = []string{
	`{"id": 1, "name": "a", "tags": ["x"], "meta": {"score": 1}}`,
	`{"id": 2, "name": null, "tags": [], "meta": {"score": 2.5, "note": "n"}}`,
	`{"id": 3, "tags": ["y", 7], "meta": {"score": 3, "extra": [{"k": true}]}}`,
	`{"id": 4, "name": "d", "tags": [null], "meta": {"score": 0, "extra": []}}`,
}

func TestInfer_EmptyInput(t *testing.T) {
	_, err := inferskema.Infer(nil)
	assert.True(t, errors.Is(err, inferskema.ErrEmptyInput))

	_, err = inferskema.InferBytes(nil, inferskema.Options{})
	assert.True(t, errors.Is(err, inferskema.ErrEmptyInput))

	_, err = inferskema.NewBuilder(inferskema.Options{}).Schema()
	assert.True(t, errors.Is(err, inferskema.ErrEmptyInput))
}

func TestInfer_MatchesBuilder(t *testing.T) {
	values := make([]inferskema.Value, len(corpus))
	docs := make([][]byte, len(corpus))
	for i, doc := range corpus {
		values[i] = mustParse(t, doc)
		docs[i] = []byte(doc)
	}
	fromValues, err := inferskema.Infer(values)
	require.NoError(t, err)
	fromBytes, err := inferskema.InferBytes(docs, inferskema.Options{})
	require.NoError(t, err)
	assert.Equal(t, fromValues, fromBytes)

	assert.Equal(t, []string{"id", "meta", "tags"}, fromValues.Required)
	assert.Equal(t, js.Types{"null", "string"}, fromValues.Properties["name"].Type)
	assert.Equal(t, js.Types{"number"}, fromValues.Properties["meta"].Properties["score"].Type)
	assert.Equal(t, js.Types{"null", "integer", "string"}, fromValues.Properties["tags"].Items.Type)
}

func TestInferBytes_FailsWholeRun(t *testing.T) {
	docs := [][]byte{[]byte(`{"a":1}`), []byte(`{"a":`), []byte(`{"b":2}`)}
	s, err := inferskema.InferBytes(docs, inferskema.Options{})
	require.Error(t, err)
	assert.Nil(t, s)
	iss, ok := inferskema.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, 1, iss[0].Document)
	assert.Equal(t, inferskema.CodeParseError, iss[0].Code)
}

func TestBuilder_FailedAddLeavesStateUntouched(t *testing.T) {
	b := inferskema.NewBuilder(inferskema.Options{})
	require.NoError(t, b.AddBytes([]byte(`{"a":1,"b":2}`)))
	before, err := b.JSON()
	require.NoError(t, err)

	assert.Error(t, b.AddBytes([]byte(`{"a":1}{`)))
	assert.Error(t, b.AddReader(strings.NewReader(`{"c":`)))
	assert.Equal(t, 1, b.Samples())

	after, err := b.JSON()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestBuilder_Sources(t *testing.T) {
	b := inferskema.NewBuilder(inferskema.Options{Emit: inferskema.EmitOpt{Dialect: js.Draft202012}})
	b.Add(inferskema.Object(inferskema.Member{Key: "a", Value: inferskema.Int(1)}))
	require.NoError(t, b.AddSource(inferskema.JSONBytes([]byte(`{"a":2,"b":[]}`))))
	require.NoError(t, b.AddReader(strings.NewReader(`{"a":3}`)))
	assert.Equal(t, 3, b.Samples())
	assert.Equal(t, 3, b.Descriptor().ObjectSamples())

	out, err := b.JSON()
	require.NoError(t, err)
	want := `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "a": {
      "type": "integer"
    },
    "b": {
      "type": "array",
      "items": {}
    }
  },
  "required": [
    "a"
  ],
  "additionalProperties": false
}`
	assert.Equal(t, want, string(out))
}

func TestBuilder_ParseOptionsApply(t *testing.T) {
	b := inferskema.NewBuilder(inferskema.Options{Parse: inferskema.ParseOpt{MaxDepth: 1}})
	require.NoError(t, b.AddBytes([]byte(`{"a":1}`)))
	err := b.AddBytes([]byte(`{"a":{"b":1}}`))
	iss, ok := inferskema.AsIssues(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, inferskema.CodeTooDeep, iss[0].Code)
}

// Every training sample must validate against the schema inferred from it.
func TestInfer_TrainingDataValidates(t *testing.T) {
	sets := [][]string{
		corpus,
		{`"hello"`},
		{`[]`, `[1, 2, 3]`},
		{`{"a": 1}`, `{"b": 2}`},
		{`{"a": 1}`, `{"a": "x"}`, `{"a": 1.5}`},
		{`null`, `{"x": [[1], [], [2.5, "s"]]}`, `[{"y": {}}]`, `true`},
		{`{"deep": {"deeper": {"deepest": [{"k": null}, {"k": {"z": 1}}]}}}`},
	}
	v, err := validation.New(0)
	require.NoError(t, err)

	for _, docs := range sets {
		raw := make([][]byte, len(docs))
		for i, doc := range docs {
			raw[i] = []byte(doc)
		}
		s, err := inferskema.InferBytes(raw, inferskema.Options{Emit: inferskema.EmitOpt{Dialect: js.Draft202012}})
		require.NoError(t, err)
		schema, err := json.Marshal(s)
		require.NoError(t, err)

		for _, doc := range docs {
			res, err := v.Validate([]byte(doc), schema)
			require.NoError(t, err)
			assert.True(t, res.Valid, "sample %s rejected by %s: %s", doc, schema, res.Info)
		}
	}
}

func TestInfer_ClosedWorld(t *testing.T) {
	s, err := inferskema.InferBytes([][]byte{[]byte(`{"a": 1, "b": {"c": "x"}}`)}, inferskema.Options{})
	require.NoError(t, err)
	schema, err := json.Marshal(s)
	require.NoError(t, err)

	v, err := validation.New(0)
	require.NoError(t, err)
	for _, doc := range []string{
		`{"a": 1, "b": {"c": "x"}, "z": 0}`,
		`{"a": 1, "b": {"c": "x", "z": 0}}`,
		`{"a": 1}`,
		`{"a": "1", "b": {"c": "x"}}`,
	} {
		res, err := v.Validate([]byte(doc), schema)
		require.NoError(t, err)
		assert.False(t, res.Valid, "expected %s to be rejected", doc)
	}
}

func TestBuilder_AddStream(t *testing.T) {
	b := inferskema.NewBuilder(inferskema.Options{})
	n, err := b.AddStream(strings.NewReader("{\"a\":1,\"b\":1}\n{\"a\":2}\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, b.Samples())

	n, err = b.AddStream(strings.NewReader("{\"a\":3}\n{\"a\""))
	assert.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, b.Samples(), "a broken stream folds nothing")

	s, err := b.Schema()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, s.Required)
}
