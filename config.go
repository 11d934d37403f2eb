package cssfit

import (
	"time"

	"go.uber.org/zap"
)

// ResizeMethod selects how a scale change reaches the content.
type ResizeMethod string

const (
	// MethodCalculate recomputes every registered style value. This is the default.
	MethodCalculate ResizeMethod = "calculate"
	// MethodTransform writes a transform: scale() to the container.
	MethodTransform ResizeMethod = "transform"
	// MethodNone leaves the content alone.
	MethodNone ResizeMethod = "none"
)

// ScaleBy selects the wrapper the container is fitted into.
type ScaleBy string

const (
	// ScaleByBody tracks the document body. This is the default.
	ScaleByBody ScaleBy = "body"
	// ScaleByParent tracks the container's parent element through a ResizeObserver.
	ScaleByParent ScaleBy = "parent"
	// ScaleByNone disables automatic scaling.
	ScaleByNone ScaleBy = "none"
)

// Axis selects which wrapper dimension drives the scale.
type Axis string

const (
	// AxisBoth takes the smaller of the two ratios, so neither axis overflows. This
	// is the default.
	AxisBoth Axis = "both"
	// AxisWidth follows the wrapper width.
	AxisWidth Axis = "width"
	// AxisHeight follows the wrapper height.
	AxisHeight Axis = "height"
)

// DefaultStalledTimeout is the delay between a Calc call and the purge of detached
// elements from the cache.
const DefaultStalledTimeout = time.Second

// MaxScale is the largest scale SetScale accepts.
const MaxScale = 10000

// Config holds resizer configuration. Only Container and Document are required.
type Config struct {
	Container Element  // Element scaled to fit its wrapper
	Document  Document // Tree the container lives in

	ResizeMethod  ResizeMethod // calculate | transform | none (default: calculate)
	AutoScaleBy   ScaleBy      // body | parent | none (default: body)
	AutoScaleAxis Axis         // both | width | height (default: both)
	Autogenerate  bool         // Track computed styles of the container subtree on creation

	Width  float64 // Target width (default: container offset width)
	Height float64 // Target height (default: container offset height)

	ClearStalledTimeout time.Duration // Cache purge delay (default: 1s)

	Viewport  ResizeSource   // Body resize events (default: Document, when it implements ResizeSource)
	Observer  ResizeObserver // Parent resize events (default: SetResizeObserver registration)
	Scheduler Scheduler      // Deferred eviction runner (default: time.AfterFunc)
	Logger    *zap.Logger
}

// normalize replaces unknown or empty values with their defaults.
func (c *Config) normalize() {
	switch c.ResizeMethod {
	case MethodCalculate, MethodTransform, MethodNone:
	default:
		c.ResizeMethod = MethodCalculate
	}

	switch c.AutoScaleBy {
	case ScaleByBody, ScaleByParent, ScaleByNone:
	default:
		c.AutoScaleBy = ScaleByBody
	}

	switch c.AutoScaleAxis {
	case AxisBoth, AxisWidth, AxisHeight:
	default:
		c.AutoScaleAxis = AxisBoth
	}

	if c.ClearStalledTimeout <= 0 {
		c.ClearStalledTimeout = DefaultStalledTimeout
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}
