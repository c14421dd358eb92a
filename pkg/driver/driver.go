// Package driver wraps pkg/compiler with the file I/O and error
// aggregation spec §1 names as external collaborators: reading a source
// file from disk, selecting compilation mode from its extension, and
// writing the emitted JavaScript to a sibling ".js" file.
package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tsforge/pkg/compiler"
	"tsforge/pkg/source"
)

// DiagnosticError wraps a failed compilation's Diagnostic Sink. Its Error
// method matches Sink.Err's combined multierr text, but callers that want
// the full rendering (offending source line, caret) can type-assert for
// it and call Render directly instead of settling for bare messages.
type DiagnosticError struct {
	sink diagnosticSink
}

type diagnosticSink interface {
	Err() error
	Render(w io.Writer)
}

func (e *DiagnosticError) Error() string { return e.sink.Err().Error() }

// Render writes every diagnostic, with source context, to w.
func (e *DiagnosticError) Render(w io.Writer) { e.sink.Render(w) }

// Driver runs a compilation from a file path through to a written output
// file, or a combined error describing every diagnostic and I/O failure
// encountered.
type Driver struct {
	log  *zap.SugaredLogger
	comp *compiler.Compiler
}

// New creates a Driver. A nil logger installs a no-op logger.
func New(log *zap.SugaredLogger) *Driver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Driver{log: log, comp: compiler.New(log)}
}

// ModeForPath selects TypeScript mode for a ".ts" extension and
// JavaScript mode for anything else, per spec §6.
func ModeForPath(path string) compiler.Options {
	return compiler.Options{IsTypeScript: strings.EqualFold(filepath.Ext(path), ".ts")}
}

// OutputPathFor replaces path's extension with ".js", the sibling output
// file a successful compilation writes.
func OutputPathFor(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".js"
}

// CompileFile reads path, compiles it, and writes the sibling ".js" file
// on success. On failure, no output file is written and the returned
// error combines every diagnostic (via multierr) for a caller that wants
// ordinary error-handling idioms instead of walking the sink directly.
func (d *Driver) CompileFile(path string) (outputPath string, err error) {
	content, readErr := os.ReadFile(path)
	if readErr != nil {
		return "", fmt.Errorf("reading %s: %w", path, readErr)
	}

	src := source.FromFile(path, string(content))
	opts := ModeForPath(path)

	d.log.Infow("compiling", "file", path, "is_typescript", opts.IsTypeScript)
	result := d.comp.Compile(src, opts)

	if result.Sink.HasErrors() {
		return "", &DiagnosticError{sink: result.Sink}
	}

	outputPath = OutputPathFor(path)
	if writeErr := os.WriteFile(outputPath, []byte(result.Output), 0o644); writeErr != nil {
		return "", multierr.Append(nil, fmt.Errorf("writing %s: %w", outputPath, writeErr))
	}

	d.log.Infow("wrote output", "file", outputPath)
	return outputPath, nil
}

// CompileString compiles source text directly, bypassing file I/O —
// used by the LSP server, which receives document text over the wire
// instead of from disk.
func (d *Driver) CompileString(name, content string, opts compiler.Options) compiler.Result {
	src := source.NewSourceFile(name, "", content)
	return d.comp.Compile(src, opts)
}
