package inferskema

import (
	"errors"
	"fmt"
	"io"

	eng "github.com/reoring/inferskema/internal/engine"
)

// ParseValue consumes exactly one JSON document from src. Parsing is
// all-or-nothing: malformed syntax, trailing data and empty input all fail
// with Issues and no partial Value.
func ParseValue(src Source, opts ...ParseOpt) (Value, error) {
	opt := lastParseOpt(opts)
	ts := eng.WrapWithEnforcement(engineTokenSource(src), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   issueSink(src, opt),
	})
	v, err := decodeDocument(ts)
	if err != nil {
		return Value{}, toIssues(err, src.Location())
	}
	return v, nil
}

// ParseBytes parses one JSON document held in data using the current driver.
func ParseBytes(data []byte, opts ...ParseOpt) (Value, error) {
	opt := lastParseOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return Value{}, singleIssue(CodeTruncated, "max bytes exceeded")
	}
	return ParseValue(JSONBytes(data), opt)
}

// ParseReader reads r to the end and parses one JSON document. When MaxBytes
// is set it enforces the size cap up front.
func ParseReader(r io.Reader, opts ...ParseOpt) (Value, error) {
	opt := lastParseOpt(opts)
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return Value{}, singleIssue(CodeParseError, err.Error())
		}
		return ParseBytes(data, opt)
	}
	return ParseValue(JSONReader(r), opt)
}

// ParseAll parses a stream of concatenated JSON documents, such as NDJSON.
// Like ParseValue it is all-or-nothing; a failure reports the index of the
// offending document in Issue.Document.
func ParseAll(src Source, opts ...ParseOpt) ([]Value, error) {
	opt := lastParseOpt(opts)
	ts := eng.WrapWithEnforcement(engineTokenSource(src), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   issueSink(src, opt),
	})
	var out []Value
	for {
		tok, err := ts.NextToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, withDocument(toIssues(err, src.Location()), len(out))
		}
		v, err := decodeValue(ts, tok)
		if err != nil {
			return nil, withDocument(toIssues(err, src.Location()), len(out))
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, singleIssue(CodeEmptyInput, "no JSON value in input")
	}
	return out, nil
}

// ParseAllReader reads r to the end and parses every document in it.
func ParseAllReader(r io.Reader, opts ...ParseOpt) ([]Value, error) {
	opt := lastParseOpt(opts)
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return nil, singleIssue(CodeParseError, err.Error())
		}
		if int64(len(data)) > opt.MaxBytes {
			return nil, singleIssue(CodeTruncated, "max bytes exceeded")
		}
		return ParseAll(JSONBytes(data), opt)
	}
	return ParseAll(JSONReader(r), opt)
}

func issueSink(src Source, opt ParseOpt) func(eng.SimpleIssue) {
	if opt.IssueSink == nil {
		return nil
	}
	return func(si eng.SimpleIssue) {
		opt.IssueSink(Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: src.Location()})
	}
}

func lastParseOpt(opts []ParseOpt) ParseOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return ParseOpt{}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

// ---- token stream -> Value ----

func decodeDocument(src eng.TokenSource) (Value, error) {
	tok, err := src.NextToken()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, singleIssue(CodeEmptyInput, "no JSON value in input")
		}
		return Value{}, err
	}
	v, err := decodeValue(src, tok)
	if err != nil {
		return Value{}, err
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			return Value{}, AppendIssues(nil, Issue{Code: CodeTrailingData, Message: "unexpected data after top-level value", Offset: src.Location()})
		}
		return Value{}, err
	}
	return v, nil
}

// next reads a token inside a container, where running out of input is a
// syntax error rather than a clean end of stream.
func next(src eng.TokenSource) (eng.Token, error) {
	tok, err := src.NextToken()
	if errors.Is(err, io.EOF) {
		return eng.Token{}, io.ErrUnexpectedEOF
	}
	return tok, err
}

func decodeValue(src eng.TokenSource, tok eng.Token) (Value, error) {
	switch tok.Kind {
	case eng.KindBeginObject:
		return decodeObject(src)
	case eng.KindBeginArray:
		return decodeArray(src)
	case eng.KindString:
		return String(tok.String), nil
	case eng.KindNumber:
		return Number(tok.Number), nil
	case eng.KindBool:
		return Bool(tok.Bool), nil
	case eng.KindNull:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected %s", tok.Kind)
	}
}

func decodeObject(src eng.TokenSource) (Value, error) {
	var members []Member
	var index map[string]int
	for {
		tok, err := next(src)
		if err != nil {
			return Value{}, err
		}
		if tok.Kind == eng.KindEndObject {
			return Value{kind: KindObject, members: members}, nil
		}
		if tok.Kind != eng.KindKey {
			return Value{}, fmt.Errorf("expected object key, got %s", tok.Kind)
		}
		vt, err := next(src)
		if err != nil {
			return Value{}, err
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return Value{}, err
		}
		if index == nil {
			index = make(map[string]int)
		}
		// Duplicates that survive enforcement keep the first position and the last value.
		if i, ok := index[tok.String]; ok {
			members[i].Value = v
			continue
		}
		index[tok.String] = len(members)
		members = append(members, Member{Key: tok.String, Value: v})
	}
}

func decodeArray(src eng.TokenSource) (Value, error) {
	var items []Value
	for {
		tok, err := next(src)
		if err != nil {
			return Value{}, err
		}
		if tok.Kind == eng.KindEndArray {
			return Value{kind: KindArray, items: items}, nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
}
