package rescale

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// OutputFormat selects the report layout.
type OutputFormat string

const (
	// OutputText is a colored per-file summary. This is the default.
	OutputText OutputFormat = "text"
	// OutputJSON is the machine-readable report.
	OutputJSON OutputFormat = "json"
)

// DetermineOutputFormat maps a --format value to an OutputFormat. Unknown values
// fall back to text.
func DetermineOutputFormat(formatFlag string) OutputFormat {
	switch formatFlag {
	case "json":
		return OutputJSON
	default:
		return OutputText
	}
}

// ShouldUseColors determines if colors should be enabled.
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// WriteOutput writes the batch result in the given format.
func WriteOutput(w io.Writer, result *Result, format OutputFormat, useColors bool) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, result)
	default:
		writeText(w, result, useColors)
		return nil
	}
}

// writeText prints one line per document, its warnings, failures and a summary.
func writeText(w io.Writer, result *Result, useColors bool) {
	for _, f := range result.Files {
		target := GetRelativePath(f.Output)
		if f.Output != f.Path {
			target = GetRelativePath(f.Path) + " -> " + target
		}

		fmt.Fprintf(w, "%s scale %s, %s, %s\n",
			RenderStyle(StyleCyan, target+":", useColors),
			RenderStyle(StyleGreen, strconv.FormatFloat(f.Scale, 'f', -1, 64), useColors),
			pluralizeCount(f.Elements, "element", "elements"),
			pluralizeCount(f.Styles, "style", "styles"))

		for _, warning := range f.Warnings {
			fmt.Fprintf(w, "  %s %s\n", RenderStyle(StyleYellow, "warning:", useColors), warning)
		}
	}

	for _, f := range result.Failures {
		fmt.Fprintf(w, "%s %v\n",
			RenderStyle(StyleRed, GetRelativePath(f.Path)+":", useColors),
			f.Err)
	}

	if len(result.Files)+len(result.Failures) > 0 {
		fmt.Fprintln(w, "")
	}

	summary := fmt.Sprintf("%s rescaled, %s rewritten",
		pluralizeCount(len(result.Files), "file", "files"),
		pluralizeCount(result.StylesRewritten(), "style", "styles"))
	if n := len(result.Failures); n > 0 {
		summary += ", " + RenderStyle(StyleRed, pluralizeCount(n, "failure", "failures"), useColors)
	}
	if result.Stats.FilesSkipped > 0 {
		summary += fmt.Sprintf(" (skipped %s)", pluralizeCount(result.Stats.FilesSkipped, "file", "files"))
	}
	fmt.Fprintln(w, summary)
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
