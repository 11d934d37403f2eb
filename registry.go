package cssfit

import "slices"

// Registry is an ordered list of parsers. Lookup returns the first parser that
// handles a style, so parsers added later shadow earlier ones.
//
// A Registry is not safe for concurrent use; the Resizer guards its own.
type Registry struct {
	parsers []*Parser
	watched []string
}

// NewRegistry returns a registry holding parsers in the given order of priority.
func NewRegistry(parsers ...*Parser) *Registry {
	r := &Registry{}
	r.Set(parsers)
	return r
}

// DefaultRegistry returns a registry with the built-in parsers: "translate" ahead of
// "general".
func DefaultRegistry() *Registry {
	r := &Registry{}
	r.Add(General())
	r.Add(Translate())
	return r
}

// Add registers p in front of every existing parser. A nil parser is ignored.
func (r *Registry) Add(p *Parser) {
	if p == nil {
		return
	}
	r.parsers = slices.Insert(r.parsers, 0, p)
	r.Refresh()
}

// Set replaces the whole parser list, dropping nil entries.
func (r *Registry) Set(parsers []*Parser) {
	r.parsers = slices.DeleteFunc(slices.Clone(parsers), func(p *Parser) bool { return p == nil })
	r.Refresh()
}

// Replace puts p in place of every parser whose id matches, keeping order. The slot
// is found by id when given, by p.ID otherwise. It reports whether anything was
// replaced.
func (r *Registry) Replace(p *Parser, id ...string) bool {
	if p == nil {
		return false
	}
	target := p.ID
	if len(id) > 0 && id[0] != "" {
		target = id[0]
	}

	replaced := false
	for i, existing := range r.parsers {
		if existing.ID == target {
			r.parsers[i] = p
			replaced = true
		}
	}

	if replaced {
		r.Refresh()
	}
	return replaced
}

// Get returns the parser registered under id. With clone set the caller receives
// an independent copy.
func (r *Registry) Get(id string, clone bool) (*Parser, bool) {
	for _, p := range r.parsers {
		if p.ID == id {
			if clone {
				return p.Clone(), true
			}
			return p, true
		}
	}
	return nil, false
}

// All returns the parsers in priority order. With clone set every parser is copied.
func (r *Registry) All(clone bool) []*Parser {
	out := make([]*Parser, len(r.parsers))
	for i, p := range r.parsers {
		if clone {
			out[i] = p.Clone()
		} else {
			out[i] = p
		}
	}
	return out
}

// Lookup returns the highest priority parser handling style.
func (r *Registry) Lookup(style string) (*Parser, bool) {
	for _, p := range r.parsers {
		if p.Handles(style) {
			return p, true
		}
	}
	return nil, false
}

// WatchedStyles returns every style identifier handled by some parser, without
// duplicates, in order of first appearance.
func (r *Registry) WatchedStyles() []string {
	return slices.Clone(r.watched)
}

// Refresh recomputes the watched styles. Call it after mutating a parser obtained
// without cloning.
func (r *Registry) Refresh() {
	seen := make(map[string]bool)
	watched := make([]string, 0, len(r.watched))
	for _, p := range r.parsers {
		for _, style := range p.Styles {
			if !seen[style] {
				seen[style] = true
				watched = append(watched, style)
			}
		}
	}
	r.watched = watched
}
