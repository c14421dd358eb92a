package errors

import "tsforge/pkg/source"

// Position represents a specific location in the source code.
type Position struct {
	Line   int                // 1-based line number
	Column int                // 1-based column number
	Source *source.SourceFile // the file this position belongs to
}
