package cssfit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TranslateID is the id of the built-in transform matrix parser.
const TranslateID = "translate"

// Matrix is a 2D affine transform in CSS order:
//
//	matrix(a, b, c, d, tx, ty)
type Matrix [6]float64

const (
	translateX = 4
	translateY = 5
)

// IdentityMatrix is the transform that leaves coordinates unchanged.
var IdentityMatrix = Matrix{1, 0, 0, 1, 0, 0}

// String renders m as a CSS matrix() function.
func (m Matrix) String() string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = formatNumber(v)
	}
	return "matrix(" + strings.Join(parts, ", ") + ")"
}

var matrixNumber = regexp.MustCompile(`-?\d+\.?\d*`)

// MatrixCodec scales the translation of a transform and leaves the linear part
// untouched.
type MatrixCodec struct{}

// Translate returns a fresh transform matrix parser.
func Translate() *Parser {
	return &Parser{
		ID:     TranslateID,
		Styles: []string{"transform"},
		Codec:  MatrixCodec{},
	}
}

// Calculate implements Codec. The value must be a list of either two components
// (tx, ty) or six (a full matrix).
func (MatrixCodec) Calculate(value Value, scale float64, bounds *Bounds) (string, error) {
	if !value.IsList() {
		return "", fmt.Errorf("transform needs a list, got %q: %w", value.String(), ErrUnsupportedFormat)
	}

	nums := make([]float64, value.Len())
	for i, c := range value.items {
		if c.Numeric {
			nums[i] = c.Number
			continue
		}
		n, ok := parseLeadingFloat(c.Text)
		if !ok {
			return "", fmt.Errorf("transform component %q is not a number: %w", c.Text, ErrUnsupportedFormat)
		}
		nums[i] = n
	}

	m := IdentityMatrix
	switch len(nums) {
	case 2:
		m[translateX], m[translateY] = nums[0], nums[1]
	case 6:
		copy(m[:], nums)
	default:
		return "", fmt.Errorf("transform needs 2 or 6 components, got %d: %w", len(nums), ErrUnsupportedFormat)
	}

	tx := m[translateX] * scale
	ty := m[translateY] * scale

	if bounds != nil {
		maxX, hasMaxX, maxY, hasMaxY := translateBounds(bounds.Max)
		minX, hasMinX, minY, hasMinY := translateBounds(bounds.Min)
		tx = clamp(tx, maxX, hasMaxX, minX, hasMinX)
		ty = clamp(ty, maxY, hasMaxY, minY, hasMinY)
	}

	m[translateX] = roundTo(tx, Precision)
	m[translateY] = roundTo(ty, Precision)
	return m.String(), nil
}

// translateBounds picks the tx/ty limits out of a bound shaped either as [tx, ty]
// or as a full matrix. Other shapes carry no limit.
func translateBounds(b Bound) (x float64, hasX bool, y float64, hasY bool) {
	switch b.Len() {
	case 2:
		x, hasX = b.at(0)
		y, hasY = b.at(1)
	case 6:
		x, hasX = b.at(translateX)
		y, hasY = b.at(translateY)
	}
	return x, hasX, y, hasY
}

// Generate implements Codec. The identity keyword and strings without numbers have
// nothing to track.
func (MatrixCodec) Generate(rendered string) (Value, bool) {
	if strings.TrimSpace(rendered) == "none" {
		return Value{}, false
	}

	matches := matrixNumber.FindAllString(rendered, -1)
	if len(matches) == 0 {
		return Value{}, false
	}

	items := make([]Component, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.ParseFloat(strings.TrimSuffix(m, "."), 64)
		if err != nil {
			items = append(items, Text(m))
			continue
		}
		items = append(items, Num(n))
	}
	return Value{items: items, list: true}, true
}
