package inferskema

import (
	"errors"
	"fmt"
	"io"
	"strings"

	eng "github.com/reoring/inferskema/internal/engine"
)

// Issue codes
const (
	CodeParseError   = "parse_error"
	CodeEmptyInput   = "empty_input"
	CodeTrailingData = "trailing_data"
	CodeDuplicateKey = eng.CodeDuplicateKey
	CodeTooDeep      = eng.CodeTooDeep
	CodeTruncated    = eng.CodeTruncated
)

var (
	// ErrParse matches any Issues describing malformed input.
	ErrParse = errors.New("inferskema: parse error")
	// ErrEmptyInput matches Issues reporting that no document was available.
	ErrEmptyInput = errors.New("inferskema: empty input")
)

// Issue represents a single parse failure or warning.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer (for example: /items/2/price).
	Code    string `json:"code"` // One of the codes listed above.
	Message string `json:"message"`
	Offset  int64  `json:"offset"` // Byte offset in the input source (-1 when unknown).
	// Document is the index of the input document in multi-document calls.
	Document int `json:"document"`
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. parse_error at /a: unexpected end of JSON input
		fmt.Fprintf(b, "%s at %s: %s", it.Code, it.pathOrRoot(), it.Message)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Is lets errors.Is match ErrParse and ErrEmptyInput against issue codes.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		switch target {
		case ErrEmptyInput:
			if it.Code == CodeEmptyInput {
				return true
			}
		case ErrParse:
			if it.Code != CodeEmptyInput {
				return true
			}
		}
	}
	return false
}

func (it Issue) pathOrRoot() string {
	if it.Path == "" {
		return "/"
	}
	return it.Path
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func toIssues(err error, offset int64) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return AppendIssues(nil, Issue{Code: ie.Code, Path: ie.Path, Message: ie.Message, Offset: offset})
	}
	msg := err.Error()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		msg = "unexpected end of JSON input"
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Message: msg, Offset: offset})
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Code: code, Message: msg, Offset: -1})
}

// withDocument stamps the document index on every issue.
func withDocument(iss Issues, doc int) Issues {
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Document = doc
		out[i] = it
	}
	return out
}
