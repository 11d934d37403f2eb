package cssfit

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Precision is the number of fractional digits kept in rendered values.
const Precision = 8

// Unit is the linear unit appended to every scaled number.
const Unit = "px"

// Component is a single element of a Value: either a number or a raw token.
type Component struct {
	Number  float64
	Text    string
	Numeric bool
}

// Num returns a numeric component.
func Num(v float64) Component { return Component{Number: v, Numeric: true} }

// Text returns a raw (non-numeric) component.
func Text(s string) Component { return Component{Text: s} }

// String renders the component without scaling.
func (c Component) String() string {
	if c.Numeric {
		return formatNumber(c.Number)
	}
	return c.Text
}

// Value is an authored style value: a single number, a keyword, or an ordered list
// of numbers and keywords. The zero Value is empty.
type Value struct {
	items []Component
	list  bool
}

// Number returns a scalar numeric Value.
func Number(v float64) Value {
	return Value{items: []Component{Num(v)}}
}

// Keyword returns a scalar string Value. Keywords pass through the general parser
// unchanged.
func Keyword(s string) Value {
	return Value{items: []Component{Text(s)}}
}

// List returns an ordered list Value.
func List(items ...Component) Value {
	cp := make([]Component, len(items))
	copy(cp, items)
	return Value{items: cp, list: true}
}

// Numbers is a shorthand for a list of numeric components.
func Numbers(vs ...float64) Value {
	items := make([]Component, len(vs))
	for i, v := range vs {
		items[i] = Num(v)
	}
	return Value{items: items, list: true}
}

// IsList reports whether the value is an ordered list.
func (v Value) IsList() bool { return v.list }

// Len returns the number of components.
func (v Value) Len() int { return len(v.items) }

// Components returns a copy of the value components.
func (v Value) Components() []Component {
	cp := make([]Component, len(v.items))
	copy(cp, v.items)
	return cp
}

// Scalar returns the single component of a non-list value.
func (v Value) Scalar() (Component, bool) {
	if v.list || len(v.items) != 1 {
		return Component{}, false
	}
	return v.items[0], true
}

// IsEmpty reports whether the value carries nothing to compute: the zero Value,
// an empty keyword, or a scalar zero/NaN. Lists are never empty, even without
// components.
func (v Value) IsEmpty() bool {
	if v.list {
		return false
	}
	c, ok := v.Scalar()
	if !ok {
		return true
	}
	if c.Numeric {
		return c.Number == 0 || math.IsNaN(c.Number)
	}
	return c.Text == ""
}

// String renders the value unscaled, components joined by a single space.
func (v Value) String() string {
	parts := make([]string, len(v.items))
	for i, c := range v.items {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// coerceNumber turns a scalar keyword with a leading number into a Number.
// Keywords without one are returned unchanged.
func (v Value) coerceNumber() Value {
	c, ok := v.Scalar()
	if !ok || c.Numeric {
		return v
	}
	if n, ok := parseLeadingFloat(c.Text); ok {
		return Number(n)
	}
	return v
}

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
	pxNumber     = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?(?:px)?$`)
)

// parseLeadingFloat reads the longest numeric prefix of s, ignoring leading spaces.
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimLeft(s, " \t\n\r\f"))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// roundTo rounds v to the given number of fractional digits. Negative zero is
// normalized to zero.
func roundTo(v float64, precision int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', precision, 64), 64)
	if err != nil || r == 0 {
		return 0
	}
	return r
}

// formatNumber renders v with the shortest representation, no exponent.
func formatNumber(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatLength rounds v to Precision and appends Unit.
func formatLength(v float64) string {
	return formatNumber(roundTo(v, Precision)) + Unit
}
