// Package errors implements the Diagnostic Sink: the single collector of
// lexical, syntactic, and semantic diagnostics shared by every compiler
// stage. It is a pure collector — it never aborts a stage and never
// returns an error itself.
package errors

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"
)

// Kind classifies where in the pipeline a diagnostic originated.
type Kind string

const (
	Lexical  Kind = "Lexical"
	Syntax   Kind = "Syntax"
	Semantic Kind = "Semantic"
)

// Diagnostic is a single (line, column, message) record produced by a stage.
type Diagnostic struct {
	Pos     Position
	Kind    Kind
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s Error at line %d, column %d: %s", d.Kind, d.Pos.Line, d.Pos.Column, d.Message)
}

// Sink collects diagnostics for a single compilation. It holds no source
// text itself: Render prints each offending line from the SourceFile the
// diagnostic's Position carries. It is constructed once per compilation and
// shared, read-write, by every stage that runs before it has errors, and
// read-only thereafter.
type Sink struct {
	diagnostics []*Diagnostic
}

// NewSink creates an empty Diagnostic Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report appends a diagnostic at the given position. Never panics.
func (s *Sink) Report(pos Position, kind Kind, format string, args ...interface{}) {
	s.diagnostics = append(s.diagnostics, &Diagnostic{
		Pos:     pos,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any diagnostic has been recorded.
func (s *Sink) HasErrors() bool {
	return len(s.diagnostics) > 0
}

// Diagnostics returns the recorded diagnostics in report order.
func (s *Sink) Diagnostics() []*Diagnostic {
	return s.diagnostics
}

// Render prints each diagnostic, the offending source line, and a caret
// positioned at column-1, to the given stream.
func (s *Sink) Render(w io.Writer) {
	for _, d := range s.diagnostics {
		fmt.Fprintf(w, "%s Error at line %d, column %d: %s\n", d.Kind, d.Pos.Line, d.Pos.Column, d.Message)

		if d.Pos.Source != nil {
			line := d.Pos.Source.Line(d.Pos.Line)
			fmt.Fprintln(w, line)
			col := d.Pos.Column - 1
			if col < 0 {
				col = 0
			}
			fmt.Fprintln(w, strings.Repeat(" ", col)+"^")
		}
	}
}

// Err combines every recorded diagnostic into a single Go error using
// multierr, for callers (the driver, the CLI) that want ordinary
// error-handling idioms instead of walking the sink. Returns nil when the
// sink has no diagnostics.
func (s *Sink) Err() error {
	if len(s.diagnostics) == 0 {
		return nil
	}
	var combined error
	for _, d := range s.diagnostics {
		combined = multierr.Append(combined, d)
	}
	return combined
}
