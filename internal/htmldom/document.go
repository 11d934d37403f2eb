// Package htmldom adapts parsed HTML documents to the element and document
// interfaces of cssfit.
//
// Styles live in the inline style attribute of each element. There is no cascade
// or layout: the computed value of a style is its inline declaration, and element
// boxes come from px width/height declarations or attributes. The body box can be
// overridden with SetViewport to model a browser window.
package htmldom

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/yacobolo/cssfit"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML tree. It is safe for concurrent use.
type Document struct {
	mu       sync.Mutex
	root     *html.Node
	elements map[*html.Node]*Element
	log      *zap.Logger

	viewportW   float64
	viewportH   float64
	hasViewport bool

	nextID    int
	viewport  map[int]func()
	observers map[*Element]map[int]func()
}

var (
	_ cssfit.Document       = (*Document)(nil)
	_ cssfit.ResizeSource   = (*Document)(nil)
	_ cssfit.ResizeObserver = (*Document)(nil)
)

// Parse reads an HTML document. A nil logger disables logging.
func Parse(r io.Reader, log *zap.Logger) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return newDocument(root, log), nil
}

// ParseString is Parse for in-memory markup.
func ParseString(s string, log *zap.Logger) (*Document, error) {
	return Parse(strings.NewReader(s), log)
}

func newDocument(root *html.Node, log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	return &Document{
		root:      root,
		elements:  make(map[*html.Node]*Element),
		log:       log.Named("htmldom"),
		viewport:  make(map[int]func()),
		observers: make(map[*Element]map[int]func()),
	}
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// wrap returns the Element for n, creating it on first use so identity is stable.
// Callers hold d.mu.
func (d *Document) wrap(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elements[n] = el
	return el
}

// Body returns the body element.
func (d *Document) Body() cssfit.Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := findNode(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Body
	})
	if n == nil {
		return nil
	}
	return d.wrap(n)
}

// ElementByID returns the element with the given id attribute.
func (d *Document) ElementByID(id string) (*Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := findNode(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	})
	if n == nil {
		return nil, false
	}
	return d.wrap(n), true
}

// FirstBodyElement returns the first element child of body, the default container.
func (d *Document) FirstBodyElement() (*Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	body := findNode(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Body
	})
	if body == nil {
		return nil, false
	}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.wrap(c), true
		}
	}
	return nil, false
}

// CreateElement returns a detached element with the given tag.
func (d *Document) CreateElement(tag string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	return d.wrap(n)
}

// Contains reports whether el is attached to this document.
func (d *Document) Contains(el cssfit.Element) bool {
	e, ok := el.(*Element)
	if !ok || e == nil || e.doc != d {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for n := e.node; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

// ComputedStyle returns the inline value of id for el. Width and height fall back
// to the element's width/height attributes.
func (d *Document) ComputedStyle(el cssfit.Element, id string) string {
	e, ok := el.(*Element)
	if !ok || e == nil {
		return ""
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	name := PropertyName(id)
	if v := lookupDeclaration(e.declarations(), name); v != "" {
		return v
	}
	if name == "width" || name == "height" {
		if v, ok := parsePixels(attr(e.node, name)); ok {
			return formatPixels(v)
		}
	}
	return ""
}

// SetViewport sets the body client box and notifies viewport subscribers when it
// changed.
func (d *Document) SetViewport(width, height float64) {
	d.mu.Lock()
	changed := !d.hasViewport || d.viewportW != width || d.viewportH != height
	d.viewportW, d.viewportH, d.hasViewport = width, height, true
	subs := callbacks(d.viewport)
	d.mu.Unlock()

	if !changed {
		return
	}
	d.log.Debug("viewport resized", zap.Float64("width", width), zap.Float64("height", height))
	for _, fn := range subs {
		fn()
	}
}

// Viewport returns the body box override, if any.
func (d *Document) Viewport() (width, height float64, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewportW, d.viewportH, d.hasViewport
}

// Subscribe registers fn for viewport resizes.
func (d *Document) Subscribe(fn func()) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.viewport[id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.viewport, id)
	}
}

// Observe registers fn for size changes made through ResizeElement on el.
func (d *Document) Observe(el cssfit.Element, fn func()) func() {
	e, ok := el.(*Element)
	if !ok || e == nil || e.doc != d {
		return func() {}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	if d.observers[e] == nil {
		d.observers[e] = make(map[int]func())
	}
	d.observers[e][id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.observers[e], id)
		if len(d.observers[e]) == 0 {
			delete(d.observers, e)
		}
	}
}

// ResizeElement writes px width and height to el and notifies its observers.
func (d *Document) ResizeElement(el *Element, width, height float64) {
	d.mu.Lock()
	el.setStyle("width", formatPixels(width))
	el.setStyle("height", formatPixels(height))
	obs := callbacks(d.observers[el])
	d.mu.Unlock()

	for _, fn := range obs {
		fn()
	}
}

// callbacks snapshots a subscriber set in registration order.
func callbacks(m map[int]func()) []func() {
	out := make([]func(), 0, len(m))
	for _, id := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[id])
	}
	return out
}

// findNode returns the first node in document order matching match.
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

// attr returns the value of an attribute, "" when absent.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
