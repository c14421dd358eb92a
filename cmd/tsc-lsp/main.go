// Command tsc-lsp runs the tsforge language server over stdio, for
// editors that speak the Language Server Protocol.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"tsforge/pkg/lspserver"
)

func main() {
	verbose := false
	for _, arg := range os.Args[1:] {
		if arg == "-verbose" {
			verbose = true
		}
	}

	var log *zap.SugaredLogger
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		dev, err := cfg.Build()
		if err == nil {
			log = dev.Sugar()
		}
	}

	srv := lspserver.New(log, os.Stdin, os.Stdout)
	if err := srv.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tsc-lsp:", err)
		os.Exit(1)
	}
}
