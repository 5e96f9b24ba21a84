package inferskema

import (
	"errors"
	"fmt"
)

// ErrNoSchema reports that the input was not in a shape a schema can be
// inferred from. The underlying Issues stay reachable through errors.As.
var ErrNoSchema = errors.New("inferskema: no schema")

// Generator turns one raw document into an encoded schema.
type Generator interface {
	Generate(data []byte) ([]byte, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(data []byte) ([]byte, error)

// Generate calls f(data).
func (f GeneratorFunc) Generate(data []byte) ([]byte, error) { return f(data) }

// NewGenerator returns a Generator that infers an indented JSON schema from a
// single document.
func NewGenerator(opt Options) Generator {
	return GeneratorFunc(func(data []byte) ([]byte, error) {
		b := NewBuilder(opt)
		if err := b.AddBytes(data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoSchema, err)
		}
		return b.JSON()
	})
}
