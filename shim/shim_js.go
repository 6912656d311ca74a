//go:build js && wasm

package shim

import (
	_ "embed"
	"fmt"
	"sync"
	"syscall/js"
)

//go:embed make_element.js
var makeElementJS string

var installOnce sync.Once

// ensureInstalled evaluates the embedded class factory exactly once per page.
func ensureInstalled() {
	installOnce.Do(func() {
		js.Global().Call("eval", makeElementJS)
	})
}

// Callbacks are the Go lifecycle callbacks the generated element class
// forwards to. Each receives the element as its first argument; attribute
// notifications additionally carry (name, oldValue, newValue) as raw js
// values (null when absent).
//
// The js.Func values are never released: the registration is irreversible
// for the page's lifetime, so the callbacks must outlive every element the
// platform will ever create for the tag.
type Callbacks struct {
	Construct        js.Func
	Connected        js.Func
	Disconnected     js.Func
	Adopted          js.Func
	AttributeChanged js.Func
}

// DefineClass reserves the tag and registers the generated element class
// with the platform registry. extendsTag selects a customized built-in
// ("p", "button", ...); empty means an autonomous element.
//
// A panic inside a callback propagates as a JS exception on the platform's
// element-upgrade failure path; the shim does not swallow it.
func DefineClass(tag, extendsTag string, observed []string, cb Callbacks) error {
	if err := Reserve(tag); err != nil {
		return err
	}

	ensureInstalled()

	attrs := make([]any, len(observed))
	for i, a := range observed {
		attrs[i] = a
	}

	hooks := map[string]any{
		"construct":        cb.Construct,
		"connected":        cb.Connected,
		"disconnected":     cb.Disconnected,
		"adopted":          cb.Adopted,
		"attributeChanged": cb.AttributeChanged,
	}

	factory := js.Global().Get("__domelement")
	if factory.IsUndefined() {
		return fmt.Errorf("shim: define %q: class factory not installed", tag)
	}
	factory.Call("makeClass", tag, extendsTag, attrs, hooks)
	return nil
}
