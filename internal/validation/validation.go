// Package validation checks documents against JSON Schemas. Inference never
// validates; this package delegates the whole job to
// santhosh-tekuri/jsonschema and only adds a compiled-schema cache.
package validation

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaURL is the resource name every schema is compiled under.
const schemaURL = "file:///inferred.schema.json"

var (
	// ErrBrokenDocument reports that the document is not valid JSON.
	ErrBrokenDocument = errors.New("validation: document is not valid JSON")
	// ErrCompile reports that the schema could not be compiled.
	ErrCompile = errors.New("validation: schema does not compile")
)

// Result is the outcome of validating one document.
type Result struct {
	Valid bool
	Info  string // validator output when Valid is false
}

// Validator compiles schemas and validates documents against them. It is safe
// for concurrent use.
type Validator struct {
	cache *lru.Cache[[sha256.Size]byte, *jsonschema.Schema]
}

// New returns a Validator that keeps up to cacheSize compiled schemas. A size
// of 0 or less disables caching.
func New(cacheSize int) (*Validator, error) {
	v := &Validator{}
	if cacheSize > 0 {
		c, err := lru.New[[sha256.Size]byte, *jsonschema.Schema](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("validation: cache: %w", err)
		}
		v.cache = c
	}
	return v, nil
}

// Compile compiles schema, reusing a cached result for identical bytes.
func (v *Validator) Compile(schema []byte) (*jsonschema.Schema, error) {
	var key [sha256.Size]byte
	if v.cache != nil {
		key = sha256.Sum256(schema)
		if sch, ok := v.cache.Get(key); ok {
			return sch, nil
		}
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	if v.cache != nil {
		v.cache.Add(key, sch)
	}
	return sch, nil
}

// Validate checks data against schema. A document that does not conform is
// reported through Result with a nil error; errors are reserved for inputs
// that cannot be checked at all.
func (v *Validator) Validate(data, schema []byte) (Result, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrBrokenDocument, err)
	}
	sch, err := v.Compile(schema)
	if err != nil {
		return Result{}, err
	}
	if err := sch.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return Result{Valid: false, Info: ve.Error()}, nil
		}
		return Result{}, err
	}
	return Result{Valid: true}, nil
}

// Cached reports how many compiled schemas are held.
func (v *Validator) Cached() int {
	if v.cache == nil {
		return 0
	}
	return v.cache.Len()
}
