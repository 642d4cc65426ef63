package main

import (
	"fmt"
	"os"

	"github.com/zen-browser/surfer/pkg/display"
)

func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		renderer := display.NewRenderer(os.Stderr, display.DetectFormat(os.Stderr))
		fmt.Fprintln(os.Stderr, renderer.Error(err))
		os.Exit(1)
	}
}
