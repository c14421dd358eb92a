package compiler

import (
	"strings"
	"testing"

	"tsforge/pkg/source"
)

func TestCompileSuccess(t *testing.T) {
	src := source.NewSourceFile("a.ts", "a.ts", "let x: number = 42;")
	res := New(nil).Compile(src, Options{IsTypeScript: true})
	if res.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Sink.Diagnostics())
	}
	if !strings.Contains(res.Output, "let x = 42;") {
		t.Fatalf("unexpected output: %q", res.Output)
	}
}

func TestCompileStopsAtFirstFailingStage(t *testing.T) {
	src := source.NewSourceFile("a.ts", "a.ts", `let x: number = "hello";`)
	res := New(nil).Compile(src, Options{IsTypeScript: true})
	if !res.Sink.HasErrors() {
		t.Fatalf("expected a type-mismatch diagnostic")
	}
	if res.Output != "" {
		t.Fatalf("expected no output on failure, got %q", res.Output)
	}
}

func TestCompileEmptySource(t *testing.T) {
	src := source.NewSourceFile("a.ts", "a.ts", "")
	res := New(nil).Compile(src, Options{IsTypeScript: true})
	if res.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", res.Sink.Diagnostics())
	}
	if res.Output != "" {
		t.Fatalf("expected empty output for empty source, got %q", res.Output)
	}
}

func TestCompileJavaScriptModeToleratesMissingAnnotations(t *testing.T) {
	src := source.NewSourceFile("a.js", "a.js", "let x;")
	res := New(nil).Compile(src, Options{IsTypeScript: false})
	if res.Sink.HasErrors() {
		t.Fatalf("unexpected diagnostics in JavaScript mode: %v", res.Sink.Diagnostics())
	}
}
