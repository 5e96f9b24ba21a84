package inferskema

import (
	"io"

	js "github.com/reoring/inferskema/jsonschema"
)

// Infer folds values in order and emits the resulting schema. At least one
// value is required.
func Infer(values []Value, opts ...EmitOpt) (*js.Schema, error) {
	if len(values) == 0 {
		return nil, singleIssue(CodeEmptyInput, "no documents to infer from")
	}
	d := NewDescriptor()
	for _, v := range values {
		d.Fold(v)
	}
	return Emit(d, opts...), nil
}

// InferBytes parses every document and infers one schema from all of them.
// A malformed document fails the whole call; the returned Issues carry the
// index of the offending document.
func InferBytes(docs [][]byte, opt Options) (*js.Schema, error) {
	b := NewBuilder(opt)
	for i, doc := range docs {
		if err := b.AddBytes(doc); err != nil {
			return nil, withDocument(toIssues(err, -1), i)
		}
	}
	return b.Schema()
}

// Builder accumulates samples one at a time. Adding a document that fails to
// parse leaves the builder as it was.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	opt     Options
	desc    *Descriptor
	samples int
}

// NewBuilder returns an empty builder.
func NewBuilder(opt Options) *Builder {
	return &Builder{opt: opt, desc: NewDescriptor()}
}

// Add folds an already decoded value.
func (b *Builder) Add(v Value) {
	b.desc.Fold(v)
	b.samples++
}

// AddSource parses one document from src and folds it.
func (b *Builder) AddSource(src Source) error {
	v, err := ParseValue(src, b.opt.Parse)
	if err != nil {
		return err
	}
	b.Add(v)
	return nil
}

// AddBytes parses one document from data and folds it.
func (b *Builder) AddBytes(data []byte) error {
	v, err := ParseBytes(data, b.opt.Parse)
	if err != nil {
		return err
	}
	b.Add(v)
	return nil
}

// AddReader parses one document read from r and folds it.
func (b *Builder) AddReader(r io.Reader) error {
	v, err := ParseReader(r, b.opt.Parse)
	if err != nil {
		return err
	}
	b.Add(v)
	return nil
}

// AddStream parses every concatenated document read from r and folds them in
// order. Nothing is folded unless the whole stream parses. It returns the
// number of documents added.
func (b *Builder) AddStream(r io.Reader) (int, error) {
	vs, err := ParseAllReader(r, b.opt.Parse)
	if err != nil {
		return 0, err
	}
	for _, v := range vs {
		b.Add(v)
	}
	return len(vs), nil
}

// Samples reports how many documents were folded.
func (b *Builder) Samples() int { return b.samples }

// Descriptor exposes the accumulated descriptor. Callers must not fold into it.
func (b *Builder) Descriptor() *Descriptor { return b.desc }

// Schema emits the schema for the samples folded so far.
func (b *Builder) Schema() (*js.Schema, error) {
	if b.samples == 0 {
		return nil, singleIssue(CodeEmptyInput, "no documents to infer from")
	}
	return Emit(b.desc, b.opt.Emit), nil
}

// JSON emits the schema as indented JSON.
func (b *Builder) JSON() ([]byte, error) {
	s, err := b.Schema()
	if err != nil {
		return nil, err
	}
	return js.MarshalIndent(s)
}
