package driver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCompileFileWritesSiblingOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	if err := os.WriteFile(path, []byte("let x: number = 42;"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	d := New(nil)
	outPath, err := d.CompileFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outPath != filepath.Join(dir, "a.js") {
		t.Fatalf("unexpected output path: %q", outPath)
	}
	data, readErr := os.ReadFile(outPath)
	if readErr != nil {
		t.Fatalf("expected output file to exist: %v", readErr)
	}
	if string(data) == "" {
		t.Fatalf("expected non-empty emitted output")
	}
}

func TestCompileFileFailureWritesNoOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	if err := os.WriteFile(path, []byte(`let x: number = "hello";`), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	d := New(nil)
	_, err := d.CompileFile(path)
	if err == nil {
		t.Fatalf("expected a combined diagnostic error")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "a.js")); statErr == nil {
		t.Fatalf("expected no output file to be written on failure")
	}
}

func TestModeForPathSelectsByExtension(t *testing.T) {
	if !ModeForPath("a.ts").IsTypeScript {
		t.Fatalf("expected .ts to select TypeScript mode")
	}
	if ModeForPath("a.js").IsTypeScript {
		t.Fatalf("expected .js to select JavaScript mode")
	}
	if ModeForPath("a.txt").IsTypeScript {
		t.Fatalf("expected an unknown extension to fall back to JavaScript mode")
	}
}
