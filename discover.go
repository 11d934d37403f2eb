package cssfit

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Autogenerate walks the container subtree and tracks every watched style whose
// computed value the owning parser can read back. Elements that fail to resolve
// do not stop the walk; their errors are combined and returned at the end.
func (r *Resizer) Autogenerate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs error
	walk(r.cfg.Container, func(el Element) {
		errs = multierr.Append(errs, r.discover(el))
	})
	return errs
}

// discover tracks the watched styles of a single element.
func (r *Resizer) discover(el Element) error {
	var errs error
	for _, style := range r.registry.WatchedStyles() {
		computed := r.cfg.Document.ComputedStyle(el, style)
		if computed == "" {
			continue
		}

		p, ok := r.registry.Lookup(style)
		if !ok {
			continue
		}

		value, ok := p.Codec.Generate(computed)
		if !ok {
			r.log.Debug("skipping unparseable style",
				zap.String("style", style),
				zap.String("value", computed))
			continue
		}

		if _, err := r.calc(CalcParams{Value: value, ID: style, Element: el}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("discover %s %q: %w", style, computed, err))
		}
	}
	return errs
}

// walk visits el and its descendants depth first.
func walk(el Element, visit func(Element)) {
	if el == nil {
		return
	}
	visit(el)
	for _, child := range el.Children() {
		walk(child, visit)
	}
}
