package rescale

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/yacobolo/cssfit"
	"github.com/yacobolo/cssfit/internal/htmldom"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Run processes every document matched by cfg.Patterns. A failing document does not
// stop the batch: the result lists it under Failures and the returned error combines
// all per-file errors.
func Run(cfg Config) (*Result, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("rescale")

	result := &Result{}

	// 1. Discover input documents
	files, stats, err := expandPatterns(cfg.Patterns, newFileFilter(cfg.IgnoreFile))
	result.Stats = stats
	if err != nil {
		return result, fmt.Errorf("scan failed: %w", err)
	}
	log.Debug("documents found",
		zap.Int("processed", stats.FilesProcessed),
		zap.Int("skipped", stats.FilesSkipped))

	// 2. Rescale each document
	var errs error
	for _, path := range files {
		fr, err := processFile(path, cfg, log)
		if err != nil {
			result.Failures = append(result.Failures, FileFailure{Path: path, Err: err})
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		result.Files = append(result.Files, *fr)
	}

	return result, errs
}

// processFile rescales one document and writes it to its output path.
func processFile(path string, cfg Config, log *zap.Logger) (*FileResult, error) {
	log = log.With(zap.String("file", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	doc, err := htmldom.Parse(bytes.NewReader(data), log)
	if err != nil {
		return nil, err
	}

	container, err := findContainer(doc, cfg.Container)
	if err != nil {
		return nil, err
	}

	scaleBy := cssfit.ScaleByNone
	if cfg.hasViewport() {
		scaleBy = cssfit.ScaleByBody
		doc.SetViewport(cfg.ViewportWidth, cfg.ViewportHeight)
	}

	r, err := cssfit.New(cssfit.Config{
		Container:     container,
		Document:      doc,
		ResizeMethod:  cfg.Method,
		AutoScaleBy:   scaleBy,
		AutoScaleAxis: cfg.Axis,
		Autogenerate:  true,
		Width:         cfg.Width,
		Height:        cfg.Height,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if cfg.Scale > 0 {
		r.SetScale(cfg.Scale)
		if r.Method() == cssfit.MethodTransform {
			container.SetStyle("transform", "scale("+strconv.FormatFloat(r.Scale(), 'f', -1, 64)+")")
		}
	}

	fr := &FileResult{
		Path:   path,
		Output: outputPath(path, cfg.OutputDir),
		Scale:  r.Scale(),
	}
	for _, t := range r.Targets() {
		fr.Elements++
		fr.Styles += len(t.Styles)
	}

	if !cfg.hasViewport() && cfg.Scale <= 0 {
		fr.Warnings = append(fr.Warnings, "no viewport or scale given, values are unchanged")
	}
	if fr.Styles == 0 && r.Method() == cssfit.MethodCalculate {
		fr.Warnings = append(fr.Warnings, "no scalable inline styles found")
	}

	var out bytes.Buffer
	if err := doc.Render(&out); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(fr.Output), 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(fr.Output, out.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	log.Debug("document rescaled",
		zap.Float64("scale", fr.Scale),
		zap.Int("elements", fr.Elements),
		zap.Int("styles", fr.Styles))
	return fr, nil
}

// findContainer looks the container up by id, or takes the first element of body.
func findContainer(doc *htmldom.Document, id string) (*htmldom.Element, error) {
	if id != "" {
		el, ok := doc.ElementByID(id)
		if !ok {
			return nil, fmt.Errorf("#%s: %w", id, ErrContainerNotFound)
		}
		return el, nil
	}
	el, ok := doc.FirstBodyElement()
	if !ok {
		return nil, fmt.Errorf("body has no elements: %w", ErrContainerNotFound)
	}
	return el, nil
}
