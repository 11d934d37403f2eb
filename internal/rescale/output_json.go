package rescale

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string        `json:"version"`
	Timestamp string        `json:"timestamp"`
	Summary   JSONSummary   `json:"summary"`
	Files     []JSONFile    `json:"files"`
	Failures  []JSONFailure `json:"failures"`
}

// JSONSummary contains batch totals
type JSONSummary struct {
	FilesDiscovered int `json:"files_discovered"`
	FilesRescaled   int `json:"files_rescaled"`
	FilesSkipped    int `json:"files_skipped"`
	FilesFailed     int `json:"files_failed"`
	StylesRewritten int `json:"styles_rewritten"`
}

// JSONFile is one rewritten document
type JSONFile struct {
	Path     string   `json:"path"`
	Output   string   `json:"output"`
	Scale    float64  `json:"scale"`
	Elements int      `json:"elements"`
	Styles   int      `json:"styles"`
	Warnings []string `json:"warnings,omitempty"`
}

// JSONFailure is one document that could not be processed
type JSONFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// WriteJSON writes the batch result as JSON
func WriteJSON(w io.Writer, result *Result) error {
	output := buildJSONOutput(result, time.Now())
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts a Result to JSONOutput
func buildJSONOutput(result *Result, now time.Time) JSONOutput {
	files := make([]JSONFile, len(result.Files))
	for i, f := range result.Files {
		files[i] = JSONFile{
			Path:     f.Path,
			Output:   f.Output,
			Scale:    f.Scale,
			Elements: f.Elements,
			Styles:   f.Styles,
			Warnings: f.Warnings,
		}
	}

	failures := make([]JSONFailure, len(result.Failures))
	for i, f := range result.Failures {
		failures[i] = JSONFailure{Path: f.Path, Error: f.Err.Error()}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: now.Format(time.RFC3339),
		Summary: JSONSummary{
			FilesDiscovered: result.Stats.FilesDiscovered,
			FilesRescaled:   len(result.Files),
			FilesSkipped:    result.Stats.FilesSkipped,
			FilesFailed:     len(result.Failures),
			StylesRewritten: result.StylesRewritten(),
		},
		Files:    files,
		Failures: failures,
	}
}
