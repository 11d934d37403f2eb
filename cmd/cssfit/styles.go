package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssfit"
	"github.com/yacobolo/cssfit/internal/rescale"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the style identifiers the built-in parsers scale",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		colors := useColors()
		w := cmd.OutOrStdout()
		for _, line := range styleOwners(cssfit.DefaultRegistry()) {
			fmt.Fprintf(w, "%s %s\n",
				rescale.RenderStyle(rescale.StyleCyan, fmt.Sprintf("%-18s", line.style), colors),
				rescale.RenderStyle(rescale.StyleGray, line.parser, colors))
		}
		return nil
	},
}

type styleOwner struct {
	style  string
	parser string
}

// styleOwners pairs every watched style with the parser that resolves it.
func styleOwners(r *cssfit.Registry) []styleOwner {
	var out []styleOwner
	for _, style := range r.WatchedStyles() {
		p, ok := r.Lookup(style)
		if !ok {
			continue
		}
		out = append(out, styleOwner{style: style, parser: p.ID})
	}
	return out
}
