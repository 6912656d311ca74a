//go:build js && wasm

// CLAUDE:SUMMARY js.FuncOf glue: maps browser lifecycle callbacks onto per-instance dispatchers via an element-keyed id.
package element

import (
	"sync"
	"syscall/js"

	"github.com/hazyhaar/domelement/dom"
	"github.com/hazyhaar/domelement/shim"
)

// instanceProp is the expando property on the JS element that keys its Go
// instance. js.Value is not comparable, so the element carries the key.
const instanceProp = "__domelement_instance"

// instances holds every live component instance. Entries are never removed:
// an instance's lifetime is 1:1 with its element handle, and the browser
// gives no reliable destruction signal. This mirrors the platform cost of
// the registration itself, which is also page-lifetime.
var instances = struct {
	mu   sync.Mutex
	next int
	byID map[int]*instance
}{byID: make(map[int]*instance)}

func storeInstance(in *instance) int {
	instances.mu.Lock()
	defer instances.mu.Unlock()
	instances.next++
	instances.byID[instances.next] = in
	return instances.next
}

// lookupInstance resolves the element's Go instance. nil when the element
// has not completed construction yet; callers treat that as a no-op per the
// dispatch contract.
func lookupInstance(el js.Value) *instance {
	id := el.Get(instanceProp)
	if id.Type() != js.TypeNumber {
		return nil
	}
	instances.mu.Lock()
	defer instances.mu.Unlock()
	return instances.byID[id.Int()]
}

// platformDefine wires the definition's lifecycle callbacks into the shim's
// generated element class. The js.Func values intentionally live forever;
// see shim.Callbacks.
func platformDefine(def *definition) error {
	cb := shim.Callbacks{
		Construct: js.FuncOf(func(_ js.Value, args []js.Value) any {
			el := args[0]
			in := newInstance(def, dom.WrapElement(el))
			el.Set(instanceProp, storeInstance(in))
			in.construct()
			return nil
		}),
		Connected: js.FuncOf(func(_ js.Value, args []js.Value) any {
			if in := lookupInstance(args[0]); in != nil {
				in.connected()
			}
			return nil
		}),
		Disconnected: js.FuncOf(func(_ js.Value, args []js.Value) any {
			if in := lookupInstance(args[0]); in != nil {
				in.disconnected()
			}
			return nil
		}),
		Adopted: js.FuncOf(func(_ js.Value, args []js.Value) any {
			if in := lookupInstance(args[0]); in != nil {
				in.adopted()
			}
			return nil
		}),
		AttributeChanged: js.FuncOf(func(_ js.Value, args []js.Value) any {
			in := lookupInstance(args[0])
			if in == nil {
				return nil
			}

			in.attributeChanged(args[1].String(),
				optionalString(args[2]), optionalString(args[3]))
			return nil
		}),
	}

	return shim.DefineClass(def.tag, def.extends, def.observed, cb)
}

// optionalString maps a JS string-or-null callback argument to *string.
func optionalString(v js.Value) *string {
	if v.Type() != js.TypeString {
		return nil
	}
	s := v.String()
	return &s
}
