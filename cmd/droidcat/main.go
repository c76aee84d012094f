package main

import (
	"os"

	"github.com/justinpbarnett/droidcat/internal/styles"
)

// version is stamped at release time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		styles.NewPrinter(os.Stderr, false).Error("error: %v", err)
		os.Exit(1)
	}
}
