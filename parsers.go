package cssfit

// Parsers returns the registered parsers in priority order. With clone set the
// caller gets copies it may modify freely.
func (r *Resizer) Parsers(clone bool) []*Parser {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.All(clone)
}

// SetParsers replaces the parser list.
func (r *Resizer) SetParsers(parsers []*Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry.Set(parsers)
}

// ParserByID returns the parser registered under id.
func (r *Resizer) ParserByID(id string, clone bool) (*Parser, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.Get(id, clone)
}

// ReplaceParser swaps the parser registered under id (p.ID when id is omitted).
func (r *Resizer) ReplaceParser(p *Parser, id ...string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.Replace(p, id...)
}

// AddParser registers p ahead of every existing parser.
func (r *Resizer) AddParser(p *Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry.Add(p)
}

// RefreshWatchedStyles recomputes the watched styles after a parser obtained
// without cloning was modified in place.
func (r *Resizer) RefreshWatchedStyles() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry.Refresh()
}

// WatchedStyles returns the style identifiers auto-discovery looks at.
func (r *Resizer) WatchedStyles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.WatchedStyles()
}
