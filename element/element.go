// Package element lets a Go value back a browser Custom Element without any
// hand-written JavaScript. A type implements CustomElement (plus whichever
// optional capability interfaces it needs), and Define registers it under a
// tag name; from then on the browser drives the value's lifecycle hooks for
// every element of that tag it creates.
//
//	type Greeting struct{}
//
//	func (Greeting) Build(el, root dom.Element) dom.Node {
//		return dom.CreateTextNode("hello")
//	}
//
//	func (Greeting) ObservedAttributes() []string { return []string{"name"} }
//
//	func main() {
//		if err := element.Define("x-greeting", func() element.CustomElement {
//			return &Greeting{}
//		}); err != nil {
//			...
//		}
//		select {} // keep the wasm module alive for callbacks
//	}
//
// All hooks run on the browser's single-threaded event loop and must return
// promptly; hand long-running work to the platform's own async primitives.
package element

import (
	"time"

	"github.com/hazyhaar/domelement/dom"
	"github.com/hazyhaar/domelement/shim"
)

// Registration errors, re-exported from the shim for errors.Is checks at the
// Define call site.
var (
	ErrInvalidTagName        = shim.ErrInvalidTagName
	ErrDuplicateRegistration = shim.ErrDuplicateRegistration
)

// CustomElement is the contract a Go value implements to back a custom
// element. One value is created per element instance (via the Define
// factory) and lives exactly as long as its element handle.
type CustomElement interface {
	// Build produces the element's content. It is invoked exactly once per
	// element instance, no matter how many connect/disconnect cycles
	// follow. root is the injection target: the open shadow root when the
	// component is shadowed (the default), the element itself otherwise.
	// Either return a node to be appended to root, or append children to
	// root directly and return nil.
	Build(el, root dom.Element) dom.Node

	// ObservedAttributes fixes which attribute mutations are delivered to
	// the AttributeChanged hook. It is read once, at definition time;
	// attributes outside the list are never reported.
	ObservedAttributes() []string
}

// Shadower opts a component out of shadow encapsulation. Without this
// capability content goes into an open-mode shadow root; with Shadow() false
// it is injected directly as light-DOM children.
type Shadower interface {
	Shadow() bool
}

// BuiltinExtender turns the component into a customized built-in element:
// Extends returns the built-in tag to customize ("p", "button", ...).
// Read once at definition time.
type BuiltinExtender interface {
	Extends() string
}

// Styler supplies inline CSS injected as a <style> node before the
// component's content, once, at injection time.
type Styler interface {
	Style() string
}

// StyleLinker supplies external stylesheet URLs injected as <link> nodes
// before the component's content, once, at injection time.
type StyleLinker interface {
	StyleURLs() []string
}

// Connector receives a callback each time the element enters a document.
type Connector interface {
	Connected(el dom.Element)
}

// Disconnector receives a callback each time the element leaves a document
// (subject to the optional disconnect debounce, see DisconnectDebouncer).
type Disconnector interface {
	Disconnected(el dom.Element)
}

// Adopter receives a callback each time the element moves to a new document.
type Adopter interface {
	Adopted(el dom.Element)
}

// AttributeChanger receives observed-attribute mutations. old is ""-defaulted
// when the attribute had no prior value; newValue is nil when the attribute
// was removed.
type AttributeChanger interface {
	AttributeChanged(el dom.Element, name, old string, newValue *string)
}

// DisconnectDebouncer opts a component into disconnect debouncing: a
// disconnect followed by a reconnect within the window (a reparenting move)
// fires neither Disconnected nor a spurious Connected. Only a disconnect
// that outlives the window fires the hook. Zero or negative means no
// debounce, which is the default.
type DisconnectDebouncer interface {
	DisconnectDebounce() time.Duration
}
