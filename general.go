package cssfit

import "strings"

// GeneralID is the id of the built-in scalar/list parser.
const GeneralID = "general"

// generalStyles are the style identifiers scaled by the general parser. Each of them
// takes either one length or a space separated list.
var generalStyles = []string{
	"width",
	"height",
	"fontSize",
	"padding",
	"margin",
	"border",
	"outline",
	"webkitTextStroke",
}

// GeneralCodec scales plain numbers and space separated lists of numbers, rendering
// each as a px length. Non-numeric components pass through.
type GeneralCodec struct{}

// General returns a fresh general parser.
func General() *Parser {
	return &Parser{
		ID:     GeneralID,
		Styles: append([]string(nil), generalStyles...),
		Codec:  GeneralCodec{},
	}
}

// Calculate implements Codec.
func (GeneralCodec) Calculate(value Value, scale float64, bounds *Bounds) (string, error) {
	var maxB, minB Bound
	if bounds != nil {
		maxB, minB = bounds.Max, bounds.Min
	}

	if value.IsList() {
		parts := make([]string, value.Len())
		for i, c := range value.items {
			if !c.Numeric {
				parts[i] = c.Text
				continue
			}
			maxV, hasMax := maxB.at(i)
			minV, hasMin := minB.at(i)
			parts[i] = formatLength(clamp(c.Number*scale, maxV, hasMax, minV, hasMin))
		}
		return strings.Join(parts, " "), nil
	}

	c, ok := value.Scalar()
	if !ok {
		return "", nil
	}
	if !c.Numeric {
		return c.Text, nil
	}
	maxV, hasMax := maxB.scalar()
	minV, hasMin := minB.scalar()
	return formatLength(clamp(c.Number*scale, maxV, hasMax, minV, hasMin)), nil
}

// Generate implements Codec. Tokens that are plain numbers or px lengths become
// numeric components; everything else is kept verbatim. A single length in another
// unit (50%, 1.5em) cannot be parsed, since Calc would read its number as px.
func (GeneralCodec) Generate(rendered string) (Value, bool) {
	tokens := strings.Fields(rendered)
	if len(tokens) == 0 {
		return Value{}, false
	}
	if len(tokens) == 1 && !pxNumber.MatchString(tokens[0]) {
		if _, ok := parseLeadingFloat(tokens[0]); ok {
			return Value{}, false
		}
	}

	items := make([]Component, len(tokens))
	for i, tok := range tokens {
		if pxNumber.MatchString(tok) {
			n, _ := parseLeadingFloat(tok)
			items[i] = Num(n)
			continue
		}
		items[i] = Text(tok)
	}

	if len(items) == 1 {
		return Value{items: items}, true
	}
	return Value{items: items, list: true}, true
}
