package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssfit"
)

var calcCmd = &cobra.Command{
	Use:   "calc --style ID VALUES...",
	Short: "Resolve a single style value at a given scale",
	Long: `Run an authored value through the parser that owns the style identifier and
print the rendered result. Values are given the way they are rendered, e.g.
"10px 5px" for padding or "150 10" for a transform translation.`,
	Example: `  cssfit calc --style fontSize --scale 1.5 30
  cssfit calc --style padding --scale 4 --max 40,10,20,20 10 5 20 20
  cssfit calc --style transform --scale 2 150 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		scale, _ := cmd.Flags().GetFloat64("scale")
		maxVals, _ := cmd.Flags().GetFloat64Slice("max")
		minVals, _ := cmd.Flags().GetFloat64Slice("min")

		out, err := resolveValue(style, scale, maxVals, minVals, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	f := calcCmd.Flags()
	f.String("style", "", "Style identifier, e.g. fontSize, padding, transform")
	f.Float64("scale", 1, "Scale to render at")
	f.Float64Slice("max", nil, "Upper bound; several values apply positionally")
	f.Float64Slice("min", nil, "Lower bound; several values apply positionally")
	_ = calcCmd.MarkFlagRequired("style")
}

// resolveValue renders args through the default parser of style.
func resolveValue(style string, scale float64, maxVals, minVals []float64, args []string) (string, error) {
	p, ok := cssfit.DefaultRegistry().Lookup(style)
	if !ok {
		return "", fmt.Errorf("no parser handles style %q (see cssfit styles)", style)
	}

	raw := strings.Join(args, " ")
	value, ok := p.Codec.Generate(raw)
	if !ok {
		return "", fmt.Errorf("nothing to scale in %q", raw)
	}

	var bounds *cssfit.Bounds
	if len(maxVals) > 0 || len(minVals) > 0 {
		bounds = &cssfit.Bounds{Max: toBound(maxVals), Min: toBound(minVals)}
	}

	return p.Codec.Calculate(value, scale, bounds)
}

// toBound turns a single flag value into a scalar bound and several into a
// positional one.
func toBound(vs []float64) cssfit.Bound {
	switch len(vs) {
	case 0:
		return cssfit.Bound{}
	case 1:
		return cssfit.Limit(vs[0])
	default:
		return cssfit.Limits(vs...)
	}
}
