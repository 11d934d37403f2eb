package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssfit/internal/rescale"
)

var scaleCmd = &cobra.Command{
	Use:   "scale [patterns...]",
	Short: "Rescale inline styles of HTML documents",
	Long: `Fit the container of each matched HTML document into a viewport.
Inline styles handled by the built-in parsers are discovered, recomputed for the
resulting scale and written back. Patterns support ** globs; git-ignored and
non-HTML files are skipped.`,
	Example: `  # Fit every slide into a 1920x1080 viewport, writing to dist/
  cssfit scale --viewport 1920x1080 --output-dir dist 'slides/**/*.html'

  # Double all values in place
  cssfit scale --scale 2 index.html`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runScale,
}

func init() {
	f := scaleCmd.Flags()
	f.String("container", "", "Container element id (default: first element of body)")
	f.String("viewport", "", "Wrapper size as WIDTHxHEIGHT, e.g. 1920x1080")
	f.Float64("width", 0, "Authored container width (default: container width)")
	f.Float64("height", 0, "Authored container height (default: container height)")
	f.Float64("scale", 0, "Explicit scale, applied after viewport fitting")
	f.String("method", "calculate", "Resize method: calculate|transform|none")
	f.String("axis", "both", "Viewport axis driving the scale: both|width|height")
	f.String("output-dir", "", "Output directory (default: rewrite in place)")
	f.String("format", "text", "Report format: text|json")
}

func runScale(cmd *cobra.Command, args []string) error {
	config, err := buildScaleConfig(args)
	if err != nil {
		return err
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()
	config.Logger = log

	result, runErr := rescale.Run(config)

	quiet := getBoolWithFallback("quiet", "quiet", false)
	if !quiet {
		format := rescale.DetermineOutputFormat(getStringWithFallback("format", "rescale.format", "text"))
		if err := rescale.WriteOutput(cmd.OutOrStdout(), result, format, useColors()); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	if len(result.Failures) > 0 {
		return fmt.Errorf("%d of %d files failed", len(result.Failures), len(result.Failures)+len(result.Files))
	}
	return runErr
}
