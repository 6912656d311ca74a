// Package dom defines the opaque handles the element dispatcher works
// through. The browser owns every node; this package only reads and writes
// through live references, it never creates or destroys them on its own.
//
// On js/wasm the interfaces are backed by syscall/js values (see js.go).
// Everywhere else they compile as plain interfaces, so the lifecycle logic in
// package element stays testable with in-memory fakes.
package dom

// Node is an opaque reference to a platform DOM node.
type Node interface {
	// NodeName reports the platform node name ("#text", "DIV", ...).
	NodeName() string
}

// Element is a live handle to a concrete DOM element. The adapter never
// outlives the handle; it only appends children, attaches a shadow root and
// reads or writes attributes through it.
type Element interface {
	Node

	// TagName reports the lowercased element tag name.
	TagName() string

	// Attr reads an attribute. ok is false when the attribute is absent.
	Attr(name string) (value string, ok bool)

	// SetAttr writes an attribute.
	SetAttr(name, value string)

	// RemoveAttr removes an attribute. No-op when absent.
	RemoveAttr(name string)

	// AppendChild appends a node as the last child.
	AppendChild(n Node)

	// AttachShadow attaches an open-mode shadow root and returns it as an
	// append target. Calling it twice on the same element is a platform
	// error; the dispatcher attaches at most once per element.
	AttachShadow() Element

	// SetText replaces the element's text content.
	SetText(text string)

	// Owner returns the document the element belongs to, for creating
	// style and link nodes next to the element.
	Owner() Document
}

// Document creates nodes in a concrete document context.
type Document interface {
	CreateElement(tag string) Element
	CreateTextNode(text string) Node
}
