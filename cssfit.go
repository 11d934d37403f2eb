// Package cssfit scales visual content inside a container to fit a variable-size
// wrapper (the document body or the container's parent element).
//
// Two resize methods are supported: a uniform transform written to the container,
// or a proportional recalculation of individual style values. The second one is
// driven by a registry of parsers that know how to scale particular value shapes.
//
// # Calculation
//
// Register the values that should follow the container scale:
//
//	r, err := cssfit.New(cssfit.Config{
//		Container: container,
//		Document:  doc,
//		Width:     400,
//		Height:    200,
//	})
//	out, err := r.Calc(cssfit.CalcParams{
//		Value:   cssfit.Numbers(10, 5, 20, 20),
//		ID:      "padding",
//		Element: el,
//		Bounds:  &cssfit.Bounds{Max: cssfit.Limits(40, 10, 20, 20)},
//	})
//
// Every registered value is recomputed from its original (unscaled) form whenever the
// scale changes, either through SetScale or an observed wrapper resize.
//
// # Parsers
//
// Two parsers ship by default: "general" (px scalars and space separated lists for
// width, height, fontSize, padding, margin, border, outline, webkitTextStroke) and
// "translate" (2D transform matrices, scaling translation only). Parsers added later
// take priority over earlier ones for the same style identifier.
//
// # CLI Tool
//
// cssfit also provides a CLI tool that rescales inline styles of HTML documents:
//
//	go install github.com/yacobolo/cssfit/cmd/cssfit@latest
package cssfit
