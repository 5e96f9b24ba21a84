package gojson

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	inferskema "github.com/reoring/inferskema"
	eng "github.com/reoring/inferskema/internal/engine"
)

// Name identifies the go-json driver in configuration.
const Name = "go-json"

// Driver returns an inferskema.JSONDriver backed by goccy/go-json.
func Driver() inferskema.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) inferskema.Source {
	return inferskema.SourceFromEngine(NewReader(r))
}
func (driverGoJSON) NewBytes(b []byte) inferskema.Source {
	return inferskema.SourceFromEngine(NewBytes(b))
}
func (driverGoJSON) Name() string { return Name }

// ---- engine.TokenSource implementation using go-json Decoder ----

// go-json's Decoder.Token skips commas and colons without checking them, so
// every document is split off with Decode, checked with the decoder's strict
// stream parser and only then tokenized.

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type source struct {
	docs *j.Decoder
	seen bytes.Buffer // input read by docs and not yet consumed
	base int64        // offset of seen[0]

	cur      *j.Decoder // tokenizer of the current document
	curStart int64
	stack    []frame
	last     int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	s := &source{last: -1}
	s.docs = j.NewDecoder(io.TeeReader(r, &s.seen))
	return s
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	if s.cur == nil {
		if err := s.nextDocument(); err != nil {
			return eng.Token{}, err
		}
	}
	tok, err := s.cur.Token()
	if err != nil {
		return eng.Token{}, err
	}
	s.last = s.curStart + s.cur.InputOffset()

	var out eng.Token
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			out = eng.Token{Kind: eng.KindBeginObject}
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			out = eng.Token{Kind: eng.KindBeginArray}
		case '}':
			s.pop()
			out = eng.Token{Kind: eng.KindEndObject}
		case ']':
			s.pop()
			out = eng.Token{Kind: eng.KindEndArray}
		}
	case string:
		out = eng.Token{Kind: eng.KindString, String: v}
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				out.Kind = eng.KindKey
				break
			}
		}
		s.valueDone()
	case bool:
		s.valueDone()
		out = eng.Token{Kind: eng.KindBool, Bool: v}
	case j.Number:
		s.valueDone()
		out = eng.Token{Kind: eng.KindNumber, Number: string(v)}
	case float64:
		s.valueDone()
		out = eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64)}
	default:
		s.valueDone()
		out = eng.Token{Kind: eng.KindNull}
	}
	if len(s.stack) == 0 {
		s.cur = nil
	}
	out.Offset = s.last
	return out, nil
}

// nextDocument splits the next top-level value off the input and validates it.
// It returns io.EOF once only whitespace is left.
func (s *source) nextDocument() error {
	prev := s.base
	var raw j.RawMessage
	if err := s.docs.Decode(&raw); err != nil {
		return err
	}
	end := s.docs.InputOffset()
	start := end - int64(len(raw))

	// Decode tolerates a separator before the value; a JSON text does not.
	gap := s.seen.Bytes()[:start-prev]
	if i := bytes.IndexFunc(gap, notSpace); i >= 0 {
		return fmt.Errorf("invalid character '%c' looking for beginning of value", gap[i])
	}
	s.seen.Next(int(end - prev))
	s.base = end

	check := j.NewDecoder(bytes.NewReader(raw))
	check.UseNumber()
	var v any
	if err := check.Decode(&v); err != nil {
		return err
	}

	s.cur = j.NewDecoder(bytes.NewReader(raw))
	s.cur.UseNumber()
	s.curStart = start
	return nil
}

func notSpace(r rune) bool {
	return r != ' ' && r != '\t' && r != '\n' && r != '\r'
}

func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *source) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *source) Location() int64 { return s.last }
