package inferskema

import "math/bits"

// Kind is the structural kind of a JSON value as recorded by inference.
// The declaration order is the order in which union types are emitted.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger // Number literal without fraction or exponent.
	KindNumber
	KindString
	KindArray
	KindObject

	numKinds = int(KindObject) + 1
)

var kindNames = [numKinds]string{"null", "boolean", "integer", "number", "string", "array", "object"}

// String returns the JSON Schema type name of the kind.
func (k Kind) String() string {
	if int(k) < numKinds {
		return kindNames[k]
	}
	return "unknown"
}

// KindSet is a set of kinds. The zero value is empty.
type KindSet uint8

// KindSetOf builds a set from the given kinds.
func KindSetOf(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

func (s KindSet) With(k Kind) KindSet { return s | 1<<k }
func (s KindSet) Has(k Kind) bool     { return s&(1<<k) != 0 }
func (s KindSet) Len() int            { return bits.OnesCount8(uint8(s)) }

// Kinds lists the members in enumeration order.
func (s KindSet) Kinds() []Kind {
	out := make([]Kind, 0, s.Len())
	for k := Kind(0); int(k) < numKinds; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Widened folds integer into number when both were observed; integer is a
// refinement of number, never a sibling of it.
func (s KindSet) Widened() KindSet {
	if s.Has(KindNumber) {
		return s &^ (1 << KindInteger)
	}
	return s
}

// Names returns the type names of the members in enumeration order.
func (s KindSet) Names() []string {
	ks := s.Kinds()
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.String()
	}
	return out
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Ignore keeps the last value, Warn reports it, Error fails the parse.
}

// ParseOpt bundles parsing options.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int   // 0 disables the nesting limit.
	MaxBytes   int64 // 0 disables the size limit.
	// IssueSink receives non-fatal issues such as duplicate keys under Warn.
	IssueSink func(Issue)
}

// EmitOpt controls schema emission.
type EmitOpt struct {
	// Dialect is written to "$schema" on the root when non-empty.
	Dialect string
	// MaxUnion drops the "type" constraint at positions that accumulated more
	// kinds than this. 0 means no cap.
	MaxUnion int
}

// Options combines parse and emit options for the document-level entry points.
type Options struct {
	Parse ParseOpt
	Emit  EmitOpt
}
