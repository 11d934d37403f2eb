package cssfit

import "math"

// Bound is a single clamp limit: either one number applied to every component, or
// an ordered list applied positionally. The zero Bound is unset.
type Bound struct {
	values []float64
	list   bool
}

// Limit returns a scalar bound.
func Limit(v float64) Bound {
	return Bound{values: []float64{v}}
}

// Limits returns a positional bound. Zero entries mean "no bound at that position".
func Limits(vs ...float64) Bound {
	cp := make([]float64, len(vs))
	copy(cp, vs)
	return Bound{values: cp, list: true}
}

// IsSet reports whether the bound carries any limit.
func (b Bound) IsSet() bool { return len(b.values) > 0 }

// IsList reports whether the bound is positional.
func (b Bound) IsList() bool { return b.list }

// Len returns the number of positional entries.
func (b Bound) Len() int { return len(b.values) }

// Values returns a copy of the bound entries.
func (b Bound) Values() []float64 {
	cp := make([]float64, len(b.values))
	copy(cp, b.values)
	return cp
}

// scalar returns the limit applied to a scalar value: the number itself, or the
// first entry of a list.
func (b Bound) scalar() (float64, bool) {
	if len(b.values) == 0 {
		return 0, false
	}
	return usable(b.values[0])
}

// at returns the positional entry i of a list bound.
func (b Bound) at(i int) (float64, bool) {
	if !b.list || i < 0 || i >= len(b.values) {
		return 0, false
	}
	return usable(b.values[i])
}

// usable filters zero and NaN entries, which never act as limits.
func usable(v float64) (float64, bool) {
	if v == 0 || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Bounds clamps scaled values. Max is applied first, then Min, so a Min above Max
// wins.
type Bounds struct {
	Max Bound
	Min Bound
}

// clone returns an independent copy, nil-safe.
func (b *Bounds) clone() *Bounds {
	if b == nil {
		return nil
	}
	return &Bounds{
		Max: Bound{values: b.Max.Values(), list: b.Max.list},
		Min: Bound{values: b.Min.Values(), list: b.Min.list},
	}
}

// clamp applies an upper then a lower limit.
func clamp(v float64, maxV float64, hasMax bool, minV float64, hasMin bool) float64 {
	if hasMax && v > maxV {
		v = maxV
	}
	if hasMin && v < minV {
		v = minV
	}
	return v
}
