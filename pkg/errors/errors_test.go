package errors

import (
	"bytes"
	"strings"
	"testing"

	"tsforge/pkg/source"
)

func TestSinkHasErrors(t *testing.T) {
	sink := NewSink()
	if sink.HasErrors() {
		t.Fatalf("empty sink should not have errors")
	}

	sink.Report(Position{Line: 1, Column: 1}, Syntax, "unexpected token")
	if !sink.HasErrors() {
		t.Fatalf("sink should report errors after Report")
	}
	if len(sink.Diagnostics()) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(sink.Diagnostics()))
	}
}

func TestSinkRenderCaret(t *testing.T) {
	src := source.NewSourceFile("test.ts", "test.ts", "let x: number = \"hello\";\n")
	sink := NewSink()
	sink.Report(Position{Line: 1, Column: 17, Source: src}, Semantic, "Type 'string' is not assignable to type 'number'")

	var buf bytes.Buffer
	sink.Render(&buf)

	out := buf.String()
	if !strings.Contains(out, "Semantic Error at line 1, column 17") {
		t.Fatalf("missing header line, got: %q", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines of output, got %d: %q", len(lines), out)
	}
	caretLine := lines[2]
	if strings.Count(caretLine, " ") != 16 || !strings.HasSuffix(caretLine, "^") {
		t.Fatalf("expected caret at column-1=16 spaces, got %q", caretLine)
	}
}

func TestSinkErrCombinesDiagnostics(t *testing.T) {
	sink := NewSink()
	if sink.Err() != nil {
		t.Fatalf("expected nil error for empty sink")
	}
	sink.Report(Position{Line: 1, Column: 1}, Syntax, "first")
	sink.Report(Position{Line: 2, Column: 1}, Syntax, "second")

	err := sink.Err()
	if err == nil {
		t.Fatalf("expected combined error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "first") || !strings.Contains(msg, "second") {
		t.Fatalf("combined error missing a diagnostic: %q", msg)
	}
}
