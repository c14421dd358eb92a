// Command tsc is the CLI entry point spec §6 describes: a single
// positional source file argument, mode selected by extension, output
// written as a ".js" sibling on success, diagnostics to stderr on
// failure.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"tsforge/pkg/driver"
)

const (
	ansiReset = "[0m"
	ansiCyan  = "[36m"
	ansiGreen = "[32m"
	ansiRed   = "[31m"
)

func banner(color, message string) {
	fmt.Printf("%s[tsforge] %s%s\n", color, message, ansiReset)
}

func main() {
	verbose := false
	var path string

	for _, arg := range os.Args[1:] {
		if arg == "-verbose" {
			verbose = true
			continue
		}
		path = arg
	}

	if path == "" {
		fmt.Println("Usage: tsc [-verbose] <file.ts|file.js>")
		os.Exit(1)
	}

	var log *zap.SugaredLogger
	if verbose {
		dev, _ := zap.NewDevelopment()
		log = dev.Sugar()
	}

	banner(ansiCyan, "starting compilation of "+path)

	d := driver.New(log)
	outputPath, err := d.CompileFile(path)
	if err != nil {
		banner(ansiRed, "compilation failed")
		var diagErr *driver.DiagnosticError
		if errors.As(err, &diagErr) {
			diagErr.Render(os.Stderr)
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}

	banner(ansiGreen, "compilation successful, output written to "+outputPath)
}
