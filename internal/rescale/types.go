// Package rescale applies the cssfit engine to HTML documents on disk: it finds the
// input files, fits each document's container into a viewport, writes the rescaled
// markup and reports what changed.
package rescale

import (
	"errors"

	"github.com/yacobolo/cssfit"
	"go.uber.org/zap"
)

// ErrContainerNotFound is returned for a document without the configured container.
var ErrContainerNotFound = errors.New("container element not found")

// Config holds batch configuration.
type Config struct {
	Patterns  []string // Glob patterns of input documents (** supported)
	Container string   // Container element id; empty selects the first element of body

	ViewportWidth  float64 // Wrapper size; zero disables automatic fitting
	ViewportHeight float64
	Width          float64 // Target size (default: container size)
	Height         float64
	Scale          float64 // Explicit scale, applied after fitting when > 0

	Method cssfit.ResizeMethod
	Axis   cssfit.Axis

	OutputDir  string // Output directory; empty rewrites documents in place
	IgnoreFile string // Gitignore file applied to relative inputs (default: .gitignore)

	Logger *zap.Logger
}

// hasViewport reports whether automatic fitting is enabled.
func (c Config) hasViewport() bool {
	return c.ViewportWidth > 0 && c.ViewportHeight > 0
}

// Result summarizes a batch run.
type Result struct {
	Stats    ScanStats
	Files    []FileResult
	Failures []FileFailure
}

// FileResult describes one rewritten document.
type FileResult struct {
	Path     string
	Output   string
	Scale    float64
	Elements int // Elements with tracked styles
	Styles   int // Tracked style values
	Warnings []string
}

// FileFailure is a document that could not be processed.
type FileFailure struct {
	Path string
	Err  error
}

// ScanStats tracks input discovery.
type ScanStats struct {
	FilesDiscovered int // Files matched by the patterns
	FilesProcessed  int // Files kept after filtering
	FilesSkipped    int // Non-HTML or ignored files
}

// StylesRewritten returns the total number of tracked values over all files.
func (r *Result) StylesRewritten() int {
	n := 0
	for _, f := range r.Files {
		n += f.Styles
	}
	return n
}
