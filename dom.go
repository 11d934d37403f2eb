package cssfit

import (
	"sync/atomic"
	"time"
)

// Element is a node of the styled tree. Implementations must return an untyped nil
// from Parent when the element has no element parent.
type Element interface {
	// Style returns the inline value of a style identifier, "" when unset.
	Style(id string) string
	// SetStyle writes an inline style value; "" removes it.
	SetStyle(id, value string)
	Parent() Element
	Children() []Element
	// ClientSize is the inner box used when the element acts as a wrapper.
	ClientSize() (width, height float64)
	// OffsetSize is the outer box used as the default target size of a container.
	OffsetSize() (width, height float64)
}

// Document is the live tree elements belong to.
type Document interface {
	Body() Element
	// Contains reports whether el is still attached to the document.
	Contains(el Element) bool
	// ComputedStyle returns the effective value of a style identifier for el.
	ComputedStyle(el Element, id string) string
}

// ResizeSource notifies about viewport resizes. The returned function cancels the
// subscription.
type ResizeSource interface {
	Subscribe(fn func()) (cancel func())
}

// ResizeObserver notifies about size changes of a single element.
type ResizeObserver interface {
	Observe(el Element, fn func()) (cancel func())
}

// Scheduler runs deferred tasks. The returned function stops the task and reports
// whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

type observerHolder struct {
	observer ResizeObserver
}

var defaultObserver atomic.Pointer[observerHolder]

// SetResizeObserver registers the process-wide observer used by resizers scaling by
// their parent when Config.Observer is nil. Pass nil to unregister.
func SetResizeObserver(o ResizeObserver) {
	if o == nil {
		defaultObserver.Store(nil)
		return
	}
	defaultObserver.Store(&observerHolder{observer: o})
}

func registeredObserver() ResizeObserver {
	if h := defaultObserver.Load(); h != nil {
		return h.observer
	}
	return nil
}
