package cssfit

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/yacobolo/cssfit/internal/timer"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// CalcParams describes one style value to resolve through the parsers.
type CalcParams struct {
	Value   Value   // Authored (unscaled) value
	ID      string  // Style identifier, e.g. "fontSize"
	Element Element // Element the value is written to
	Bounds  *Bounds // Optional clamp applied to the scaled value
}

// TrackedStyle is a snapshot of one cached style slot.
type TrackedStyle struct {
	ID       string
	Original Value
	Bounds   *Bounds
}

// TrackedTarget is a snapshot of an element whose styles follow the scale.
type TrackedTarget struct {
	Element Element
	Styles  []TrackedStyle
}

// target is the cache entry behind TrackedTarget. Styles keep their first
// registration order so replays are deterministic.
type target struct {
	element Element
	order   []string
	styles  map[string]*trackedStyle
}

type trackedStyle struct {
	original Value
	bounds   *Bounds
}

// Resizer fits a container into its wrapper and keeps registered style values in
// step with the resulting scale.
//
// All methods are safe for concurrent use. Resize notifications and the deferred
// cache purge may arrive on other goroutines.
type Resizer struct {
	mu  sync.Mutex
	cfg Config
	log *zap.Logger

	registry *Registry
	scale    float64

	lastWidth  float64
	lastHeight float64

	targets []*target
	index   map[Element]*target

	evictionArmed bool
	stopEviction  func() bool

	cancels []func()
	closed  bool
}

// New creates a Resizer, runs auto-discovery when requested, performs the initial
// fit and subscribes to wrapper resizes.
func New(cfg Config) (*Resizer, error) {
	if cfg.Container == nil {
		return nil, ErrNoContainer
	}
	if cfg.Document == nil {
		return nil, ErrNoDocument
	}
	cfg.normalize()
	if cfg.Scheduler == nil {
		cfg.Scheduler = timer.Real{}
	}

	r := &Resizer{
		cfg:        cfg,
		log:        cfg.Logger.Named("resizer"),
		registry:   DefaultRegistry(),
		scale:      1,
		lastWidth:  1,
		lastHeight: 1,
		index:      make(map[Element]*target),
	}

	if cfg.Autogenerate {
		if err := r.Autogenerate(); err != nil {
			r.Close()
			return nil, fmt.Errorf("autogenerate: %w", err)
		}
	}

	offsetW, offsetH := cfg.Container.OffsetSize()
	if r.cfg.Width == 0 {
		r.cfg.Width = offsetW
	}
	if r.cfg.Height == 0 {
		r.cfg.Height = offsetH
	}

	if r.cfg.AutoScaleBy != ScaleByNone {
		r.Resize()
		r.subscribe()
	}

	return r, nil
}

// subscribe wires the resize source matching AutoScaleBy.
func (r *Resizer) subscribe() {
	switch r.cfg.AutoScaleBy {
	case ScaleByBody:
		source := r.cfg.Viewport
		if source == nil {
			source, _ = r.cfg.Document.(ResizeSource)
		}
		if source == nil {
			r.log.Debug("no viewport resize source, body scaling runs once")
			return
		}
		r.addCancel(source.Subscribe(r.Resize))

	case ScaleByParent:
		parent := r.cfg.Container.Parent()
		observer := r.cfg.Observer
		if observer == nil {
			observer = registeredObserver()
		}
		if parent == nil || observer == nil {
			r.log.Debug("parent scaling without parent or observer, runs once")
			return
		}
		r.addCancel(observer.Observe(parent, r.Resize))
	}
}

func (r *Resizer) addCancel(cancel func()) {
	if cancel == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels = append(r.cancels, cancel)
}

// Close cancels resize subscriptions and any pending cache purge.
func (r *Resizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for _, cancel := range r.cancels {
		cancel()
	}
	r.cancels = nil

	if r.stopEviction != nil {
		r.stopEviction()
		r.stopEviction = nil
	}
	r.evictionArmed = false
}

// Scale returns the current scale.
func (r *Resizer) Scale() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scale
}

// TargetSize returns the size the container was authored for.
func (r *Resizer) TargetSize() (width, height float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg.Width, r.cfg.Height
}

// Method returns the effective resize method.
func (r *Resizer) Method() ResizeMethod {
	return r.cfg.ResizeMethod
}

// SetScale commits a new scale and, with the calculate method, re-renders every
// tracked style before returning. NaN, infinite, non-positive values and values
// above MaxScale are ignored.
func (r *Resizer) SetScale(scale float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setScale(scale)
}

func (r *Resizer) setScale(scale float64) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 || scale > MaxScale {
		r.log.Debug("scale rejected", zap.Float64("scale", scale))
		return
	}

	r.scale = scale
	r.log.Debug("scale committed", zap.Float64("scale", scale))

	if r.cfg.ResizeMethod == MethodCalculate {
		if err := r.replay(); err != nil {
			r.log.Warn("replay failed", zap.Error(err))
		}
	}
}

// UpdateContainerScale derives the scale from the wrapper size and commits it.
func (r *Resizer) UpdateContainerScale() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateContainerScale()
}

func (r *Resizer) updateContainerScale() {
	if r.cfg.AutoScaleBy == ScaleByNone {
		return
	}

	wrapperW, wrapperH, ok := r.wrapperSize()
	if !ok {
		return
	}

	ratioW := wrapperW / r.cfg.Width
	ratioH := wrapperH / r.cfg.Height

	var scale float64
	switch r.cfg.AutoScaleAxis {
	case AxisWidth:
		scale = ratioW
	case AxisHeight:
		scale = ratioH
	default:
		scale = math.Min(ratioW, ratioH)
	}
	scale = roundTo(scale, 2)

	if r.cfg.ResizeMethod == MethodTransform {
		r.cfg.Container.SetStyle("transform", "scale("+strconv.FormatFloat(scale, 'f', -1, 64)+")")
	}

	r.setScale(scale)
}

// wrapperSize reads the client box of the configured wrapper.
func (r *Resizer) wrapperSize() (float64, float64, bool) {
	var wrapper Element
	switch r.cfg.AutoScaleBy {
	case ScaleByBody:
		wrapper = r.cfg.Document.Body()
	case ScaleByParent:
		wrapper = r.cfg.Container.Parent()
	}
	if wrapper == nil {
		return 0, 0, false
	}
	w, h := wrapper.ClientSize()
	return w, h, true
}

// Resize handles a wrapper resize notification. Nothing is recomputed when the
// wrapper kept its size.
func (r *Resizer) Resize() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.AutoScaleBy == ScaleByNone {
		return
	}

	w, h, ok := r.wrapperSize()
	if !ok {
		return
	}

	if w != r.lastWidth || h != r.lastHeight {
		r.updateContainerScale()
		if r.cfg.ResizeMethod == MethodCalculate {
			if err := r.replay(); err != nil {
				r.log.Warn("replay failed", zap.Error(err))
			}
		}
	}

	r.lastWidth = w
	r.lastHeight = h
}

// UpdateListenedElements re-renders every tracked style from its original value
// at the current scale. It does nothing unless the method is calculate.
func (r *Resizer) UpdateListenedElements() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replay()
}

func (r *Resizer) replay() error {
	if r.cfg.ResizeMethod != MethodCalculate {
		return nil
	}

	var errs error
	for _, t := range r.targets {
		if t.element == nil || len(t.order) == 0 {
			continue
		}

		// Overwriting keeps the declaration in its authored position.
		transition := t.element.Style("transition")
		if transition != "" {
			t.element.SetStyle("transition", "none")
		}

		for _, id := range t.order {
			slot := t.styles[id]
			out, err := r.resolve(slot.original, id, slot.bounds, r.scale)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			t.element.SetStyle(id, out)
		}

		if transition != "" {
			t.element.SetStyle("transition", transition)
		}
	}
	return errs
}

// Calc resolves a style value at the current scale, writes it to the element and,
// with the calculate method, tracks it so later scale changes re-render it.
//
// With any other method the value is rendered at scale 1 and not tracked; bounds
// then clamp the authored value. Empty values resolve to "". Styles no parser
// handles resolve to "" as well.
func (r *Resizer) Calc(p CalcParams) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calc(p)
}

func (r *Resizer) calc(p CalcParams) (string, error) {
	if p.Value.IsEmpty() {
		return "", nil
	}

	if r.cfg.ResizeMethod != MethodCalculate {
		out, err := r.resolve(p.Value, p.ID, p.Bounds, 1)
		if err != nil {
			return "", err
		}
		if p.Element != nil {
			p.Element.SetStyle(p.ID, out)
		}
		return out, nil
	}

	r.armEviction()

	value := p.Value.coerceNumber()
	out, err := r.resolve(value, p.ID, p.Bounds, r.scale)
	if err != nil {
		return "", err
	}

	if p.Element != nil {
		r.track(p.Element, p.ID, value, p.Bounds)
		p.Element.SetStyle(p.ID, out)
	}
	return out, nil
}

// track upserts the cache slot for element/style.
func (r *Resizer) track(el Element, id string, original Value, bounds *Bounds) {
	t, ok := r.index[el]
	if !ok {
		t = &target{element: el, styles: make(map[string]*trackedStyle)}
		r.targets = append(r.targets, t)
		r.index[el] = t
		r.log.Debug("tracking element", zap.Int("targets", len(r.targets)))
	}

	if _, exists := t.styles[id]; !exists {
		t.order = append(t.order, id)
	}
	t.styles[id] = &trackedStyle{original: original, bounds: bounds.clone()}
}

// resolve renders value through the first parser handling style.
func (r *Resizer) resolve(value Value, style string, bounds *Bounds, scale float64) (string, error) {
	p, ok := r.registry.Lookup(style)
	if !ok {
		return "", nil
	}

	out, err := p.Codec.Calculate(value, scale, bounds)
	if err != nil {
		return "", fmt.Errorf("parser %q for %s: %w", p.ID, style, err)
	}
	return out, nil
}

// armEviction schedules a cache purge unless one is already pending.
func (r *Resizer) armEviction() {
	if r.evictionArmed || r.closed {
		return
	}
	r.evictionArmed = true
	r.stopEviction = r.cfg.Scheduler.AfterFunc(r.cfg.ClearStalledTimeout, r.RemoveStalledLinks)
}

// RemoveStalledLinks drops tracked elements that are no longer attached to the
// document and allows the next Calc to schedule another purge.
func (r *Resizer) RemoveStalledLinks() {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.targets)
	kept := r.targets[:0]
	for _, t := range r.targets {
		if r.cfg.Document.Contains(t.element) {
			kept = append(kept, t)
			continue
		}
		delete(r.index, t.element)
	}
	clear(r.targets[len(kept):])
	r.targets = kept

	r.evictionArmed = false
	r.stopEviction = nil

	r.log.Debug("stalled links removed",
		zap.Int("before", before),
		zap.Int("after", len(r.targets)))
}

// Targets returns a snapshot of the tracked elements in registration order.
func (r *Resizer) Targets() []TrackedTarget {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]TrackedTarget, 0, len(r.targets))
	for _, t := range r.targets {
		tt := TrackedTarget{Element: t.element, Styles: make([]TrackedStyle, 0, len(t.order))}
		for _, id := range t.order {
			slot := t.styles[id]
			tt.Styles = append(tt.Styles, TrackedStyle{
				ID:       id,
				Original: slot.original,
				Bounds:   slot.bounds.clone(),
			})
		}
		out = append(out, tt)
	}
	return out
}
