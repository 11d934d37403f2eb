package htmldom

import (
	"github.com/yacobolo/cssfit"
	"golang.org/x/net/html"
)

// Element is an HTML element node. Elements are unique per node, so they can be
// compared and used as map keys.
type Element struct {
	doc  *Document
	node *html.Node
}

var _ cssfit.Element = (*Element)(nil)

// Tag returns the element name.
func (e *Element) Tag() string { return e.node.Data }

// Attr returns an attribute value, "" when absent.
func (e *Element) Attr(key string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return attr(e.node, key)
}

// Style returns the inline value of a style identifier.
func (e *Element) Style(id string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return lookupDeclaration(e.declarations(), PropertyName(id))
}

// SetStyle writes an inline style value; "" removes the declaration.
func (e *Element) SetStyle(id, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.setStyle(PropertyName(id), value)
}

// StyleAttr returns the raw style attribute.
func (e *Element) StyleAttr() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return attr(e.node, "style")
}

// declarations parses the style attribute. Callers hold doc.mu.
func (e *Element) declarations() []declaration {
	return parseDeclarations(attr(e.node, "style"))
}

// setStyle updates one declaration by CSS property name. Callers hold doc.mu.
func (e *Element) setStyle(name, value string) {
	decls := setDeclaration(e.declarations(), name, value)
	e.setAttr("style", formatDeclarations(decls))
}

// setAttr writes an attribute, removing it when val is empty.
func (e *Element) setAttr(key, val string) {
	for i, a := range e.node.Attr {
		if a.Key != key {
			continue
		}
		if val == "" {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
		e.node.Attr[i].Val = val
		return
	}
	if val != "" {
		e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: val})
	}
}

// Parent returns the parent element, nil for the root element and detached nodes.
func (e *Element) Parent() cssfit.Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// Children returns the element children in document order.
func (e *Element) Children() []cssfit.Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var out []cssfit.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// ClientSize returns the px box of the element. The body reports the viewport
// when one is set.
func (e *Element) ClientSize() (float64, float64) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if e.node.Data == "body" && e.doc.hasViewport {
		return e.doc.viewportW, e.doc.viewportH
	}
	return e.box()
}

// OffsetSize returns the px box of the element.
func (e *Element) OffsetSize() (float64, float64) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.box()
}

// box reads width and height from inline styles, then attributes. Callers hold
// doc.mu.
func (e *Element) box() (float64, float64) {
	decls := e.declarations()
	size := func(name string) float64 {
		if v, ok := parsePixels(lookupDeclaration(decls, name)); ok {
			return v
		}
		if v, ok := parsePixels(attr(e.node, name)); ok {
			return v
		}
		return 0
	}
	return size("width"), size("height")
}
