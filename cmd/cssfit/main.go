// Package main provides the cssfit CLI tool for rescaling inline styles of HTML
// documents.
package main

import (
	"fmt"
	"os"

	"github.com/yacobolo/cssfit/internal/rescale"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", rescale.RenderStyle(rescale.StyleRed, "Error:", useColors()), err)
		os.Exit(1)
	}
}
