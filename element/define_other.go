//go:build !js

package element

import "github.com/hazyhaar/domelement/shim"

// platformDefine off-wasm: there is no element registry to back the class,
// but tag validation and duplicate detection behave identically so the
// registration path is testable on the host.
func platformDefine(def *definition) error {
	return shim.Reserve(def.tag)
}
