//go:build js && wasm

// CLAUDE:SUMMARY syscall/js backing for the dom handle interfaces on wasm builds.
package dom

import "syscall/js"

// JSValuer is implemented by all js-backed handles so they can be passed
// back across the syscall/js boundary.
type JSValuer interface {
	JSValue() js.Value
}

// JSNode wraps a raw DOM node reference.
type JSNode struct {
	v js.Value
}

// WrapNode wraps a js node value. The value is not checked; passing a
// non-node is a caller bug that surfaces on first use.
func WrapNode(v js.Value) JSNode { return JSNode{v: v} }

func (n JSNode) NodeName() string  { return n.v.Get("nodeName").String() }
func (n JSNode) JSValue() js.Value { return n.v }

// JSElement wraps a raw DOM element (or shadow root) reference.
type JSElement struct {
	JSNode
}

// WrapElement wraps a js element value.
func WrapElement(v js.Value) JSElement { return JSElement{JSNode{v: v}} }

func (e JSElement) TagName() string {
	tag := e.v.Get("tagName")
	if tag.Type() != js.TypeString {
		// Shadow roots have no tagName.
		return ""
	}
	return lower(tag.String())
}

func (e JSElement) Attr(name string) (string, bool) {
	val := e.v.Call("getAttribute", name)
	if val.IsNull() {
		return "", false
	}
	return val.String(), true
}

func (e JSElement) SetAttr(name, value string) {
	e.v.Call("setAttribute", name, value)
}

func (e JSElement) RemoveAttr(name string) {
	e.v.Call("removeAttribute", name)
}

func (e JSElement) AppendChild(n Node) {
	jv, ok := n.(JSValuer)
	if !ok {
		panic("dom: AppendChild requires a js-backed node on wasm")
	}
	e.v.Call("appendChild", jv.JSValue())
}

func (e JSElement) AttachShadow() Element {
	root := e.v.Call("attachShadow", map[string]any{"mode": "open"})
	return WrapElement(root)
}

func (e JSElement) SetText(text string) {
	e.v.Set("textContent", text)
}

func (e JSElement) Owner() Document {
	doc := e.v.Get("ownerDocument")
	if doc.IsNull() || doc.IsUndefined() {
		// The element is itself a document (or detached in a way that
		// should not happen for live handles); fall back to the global.
		doc = js.Global().Get("document")
	}
	return jsDocument{v: doc}
}

type jsDocument struct {
	v js.Value
}

func (d jsDocument) CreateElement(tag string) Element {
	return WrapElement(d.v.Call("createElement", tag))
}

func (d jsDocument) CreateTextNode(text string) Node {
	return WrapNode(d.v.Call("createTextNode", text))
}

// GlobalDocument returns the page's document.
func GlobalDocument() Document {
	return jsDocument{v: js.Global().Get("document")}
}

// CreateElement creates an element in the page's document.
func CreateElement(tag string) Element {
	return GlobalDocument().CreateElement(tag)
}

// CreateTextNode creates a text node in the page's document.
func CreateTextNode(text string) Node {
	return GlobalDocument().CreateTextNode(text)
}

// Body returns the page body as an element handle.
func Body() Element {
	return WrapElement(js.Global().Get("document").Get("body"))
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
