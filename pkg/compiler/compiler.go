// Package compiler orchestrates the four pipeline stages — lexing,
// parsing, semantic analysis, code generation — in the strictly linear
// order spec §2 and §5 describe: each stage consumes the previous stage's
// output and the shared Diagnostic Sink, and a non-empty sink after any
// stage skips the rest of the pipeline.
package compiler

import (
	"go.uber.org/zap"

	"tsforge/pkg/checker"
	"tsforge/pkg/errors"
	"tsforge/pkg/lexer"
	"tsforge/pkg/parser"
	"tsforge/pkg/source"
)

// Options selects the compilation mode. It is built programmatically by a
// caller (the CLI, the LSP server) and never loaded from a config file —
// spec §6 forbids persisted configuration.
type Options struct {
	IsTypeScript bool
}

// Result is the outcome of a single compilation unit.
type Result struct {
	Output string
	Sink   *errors.Sink
}

// Compiler runs the pipeline once per compilation unit; it holds no state
// across calls.
type Compiler struct {
	log *zap.SugaredLogger
}

// New creates a Compiler. A nil logger installs a no-op logger, so callers
// that don't care about tracing never pay for it.
func New(log *zap.SugaredLogger) *Compiler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Compiler{log: log}
}

// Compile runs lexing, parsing, semantic analysis, and code generation
// over src in order, stopping as soon as any stage leaves diagnostics in
// the sink. The returned Result's Output is empty whenever the sink has
// diagnostics.
func (c *Compiler) Compile(src *source.SourceFile, opts Options) Result {
	sink := errors.NewSink()

	c.log.Debugw("lexing", "file", src.DisplayPath())
	tokens := lexer.Tokenize(src, sink)
	if sink.HasErrors() {
		c.log.Debugw("stopping after lex stage", "diagnostic_count", len(sink.Diagnostics()))
		return Result{Sink: sink}
	}

	c.log.Debugw("parsing", "file", src.DisplayPath(), "token_count", len(tokens))
	p := parser.New(tokens, sink, src)
	prog := p.Parse()
	if sink.HasErrors() {
		c.log.Debugw("stopping after parse stage", "diagnostic_count", len(sink.Diagnostics()))
		return Result{Sink: sink}
	}

	c.log.Debugw("checking", "file", src.DisplayPath(), "is_typescript", opts.IsTypeScript)
	chk := checker.New(sink, src, opts.IsTypeScript)
	chk.Check(prog)
	if sink.HasErrors() {
		c.log.Debugw("stopping after semantic stage", "diagnostic_count", len(sink.Diagnostics()))
		return Result{Sink: sink}
	}

	c.log.Debugw("generating", "file", src.DisplayPath())
	output := parser.NewEmitter().Emit(prog)

	return Result{Output: output, Sink: sink}
}
