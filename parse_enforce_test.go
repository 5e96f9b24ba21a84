package inferskema_test

import (
	"bytes"
	"testing"

	inferskema "github.com/reoring/inferskema"
)

func TestParseReader_DuplicateKey_Error(t *testing.T) {
	jsb := []byte(`{"a":1,"a":2}`)
	opt := inferskema.ParseOpt{Strictness: inferskema.Strictness{OnDuplicateKey: inferskema.Error}}
	_, err := inferskema.ParseReader(bytes.NewReader(jsb), opt)
	if err == nil {
		t.Fatalf("expected error for duplicate key")
	}
	if iss, ok := inferskema.AsIssues(err); ok {
		if len(iss) == 0 || iss[0].Code != inferskema.CodeDuplicateKey {
			t.Fatalf("expected duplicate_key issue, got: %v", iss)
		} else if iss[0].Path != "/a" {
			t.Fatalf("expected path=/a, got: %s", iss[0].Path)
		}
	} else {
		t.Fatalf("expected Issues error, got: %v", err)
	}
}

func TestParseReader_DuplicateKey_NestedPath(t *testing.T) {
	jsb := []byte(`[{"a":1,"a":2}]`)
	opt := inferskema.ParseOpt{Strictness: inferskema.Strictness{OnDuplicateKey: inferskema.Error}}
	_, err := inferskema.ParseReader(bytes.NewReader(jsb), opt)
	if err == nil {
		t.Fatalf("expected error for duplicate key")
	}
	iss, ok := inferskema.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got: %v", err)
	}
	if iss[0].Path != "/0/a" {
		t.Fatalf("expected path=/0/a, got: %s", iss[0].Path)
	}
}

func TestParseBytes_DuplicateKey_WarnKeepsLastValue(t *testing.T) {
	var warned []inferskema.Issue
	opt := inferskema.ParseOpt{
		Strictness: inferskema.Strictness{OnDuplicateKey: inferskema.Warn},
		IssueSink:  func(it inferskema.Issue) { warned = append(warned, it) },
	}
	v, err := inferskema.ParseBytes([]byte(`{"a":1,"b":true,"a":"x"}`), opt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warned) != 1 || warned[0].Code != inferskema.CodeDuplicateKey || warned[0].Path != "/a" {
		t.Fatalf("expected one duplicate_key warning at /a, got: %v", warned)
	}
	if got := v.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected keys: %v", got)
	}
	if a, _ := v.Lookup("a"); a.Kind() != inferskema.KindString {
		t.Fatalf("expected last value to win, got kind %v", a.Kind())
	}
}

func TestParseBytes_DuplicateKey_IgnoredByDefault(t *testing.T) {
	v, err := inferskema.ParseBytes([]byte(`{"a":1,"a":2.5}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Len() != 1 {
		t.Fatalf("expected a single member, got %d", v.Len())
	}
	if a, _ := v.Lookup("a"); a.Kind() != inferskema.KindNumber {
		t.Fatalf("expected last value to win, got kind %v", a.Kind())
	}
}

func TestParseReader_MaxDepth_Exceeded(t *testing.T) {
	// depth = 3 for { a: { b: { c: 1 } } }
	jsb := []byte(`{"a":{"b":{"c":1}}}`)
	if _, err := inferskema.ParseReader(bytes.NewReader(jsb), inferskema.ParseOpt{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 should pass: %v", err)
	}
	_, err := inferskema.ParseReader(bytes.NewReader(jsb), inferskema.ParseOpt{MaxDepth: 2})
	if err == nil {
		t.Fatalf("expected error for max depth exceeded")
	}
	iss, ok := inferskema.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != inferskema.CodeTooDeep || iss[0].Path != "/a/b" {
		t.Fatalf("expected too_deep at /a/b, got: %v", err)
	}
}

func TestParseReader_MaxBytes_Exceeded(t *testing.T) {
	data := append([]byte("{}"), bytes.Repeat([]byte(" "), 1024)...)
	opt := inferskema.ParseOpt{MaxBytes: 2} // smaller than data
	_, err := inferskema.ParseReader(bytes.NewReader(data), opt)
	if err == nil {
		t.Fatalf("expected error for max bytes exceeded")
	}
	iss, ok := inferskema.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != inferskema.CodeTruncated {
		t.Fatalf("expected truncated issue, got: %v", err)
	}
	if iss[0].Path != "" && iss[0].Path != "/" {
		t.Fatalf("expected truncated path empty or root, got: %s", iss[0].Path)
	}

	if _, err := inferskema.ParseReader(bytes.NewReader([]byte("{}")), opt); err != nil {
		t.Fatalf("input at the limit should pass: %v", err)
	}
}
