// Package shim is the definition half of the bridge: it validates custom
// element tag names, tracks which tags this page has already registered, and
// on js/wasm evaluates an embedded JS factory that mints the ES2015 element
// class whose lifecycle methods forward into Go.
//
// The shim owns no per-element state. It is invoked once per distinct tag
// name; everything per-instance lives in package element.
package shim

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInvalidTagName means the tag fails the platform's custom element
	// naming rule (lowercase, contains a hyphen, no reserved names).
	ErrInvalidTagName = errors.New("shim: invalid custom element tag name")

	// ErrDuplicateRegistration means the tag is already defined on this
	// page. Registrations are irreversible for the page's lifetime.
	ErrDuplicateRegistration = errors.New("shim: tag already registered")
)

// registry is process-wide and write-once per tag, mirroring the browser's
// CustomElementRegistry. The hosting event loop is single-threaded, but Go
// tests are not, so access is still guarded.
var registry = struct {
	mu   sync.Mutex
	tags map[string]struct{}
}{tags: make(map[string]struct{})}

// Reserve validates the tag and claims it in the page-wide registry.
// A second Reserve for the same tag fails with ErrDuplicateRegistration.
func Reserve(tag string) error {
	if err := Validate(tag); err != nil {
		return err
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.tags[tag]; exists {
		return fmt.Errorf("shim: reserve %q: %w", tag, ErrDuplicateRegistration)
	}
	registry.tags[tag] = struct{}{}
	return nil
}

// Registered reports whether the tag has been claimed on this page.
func Registered(tag string) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	_, ok := registry.tags[tag]
	return ok
}
