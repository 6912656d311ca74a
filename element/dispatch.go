// CLAUDE:SUMMARY Per-element lifecycle dispatcher: inject-once guard, observed-attribute gating, disconnect debounce.
package element

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/domelement/dom"
)

// definition is the static, per-tag registration state. Everything here is
// read from a probe component at Define time and immutable afterwards,
// mirroring the platform's own once-per-class observedAttributes read.
type definition struct {
	tag         string
	factory     func() CustomElement
	observed    []string
	observedSet map[string]struct{}
	shadow      bool
	extends     string
	style       string
	styleURLs   []string
	debounce    time.Duration
	logger      *slog.Logger
}

func newDefinition(tag string, factory func() CustomElement, logger *slog.Logger) *definition {
	if logger == nil {
		logger = slog.Default()
	}

	// Probe instance: created only to read the static capability set, then
	// discarded. Static metadata must not vary per instance.
	probe := factory()

	def := &definition{
		tag:      tag,
		factory:  factory,
		observed: probe.ObservedAttributes(),
		shadow:   true,
		logger:   logger,
	}

	def.observedSet = make(map[string]struct{}, len(def.observed))
	for _, a := range def.observed {
		def.observedSet[a] = struct{}{}
	}

	if s, ok := probe.(Shadower); ok {
		def.shadow = s.Shadow()
	}
	if b, ok := probe.(BuiltinExtender); ok {
		def.extends = b.Extends()
	}
	if s, ok := probe.(Styler); ok {
		def.style = s.Style()
	}
	if l, ok := probe.(StyleLinker); ok {
		def.styleURLs = l.StyleURLs()
	}
	if d, ok := probe.(DisconnectDebouncer); ok {
		def.debounce = d.DisconnectDebounce()
	}

	return def
}

// instance binds one component value to one element handle. Created at
// element construction, it lives as long as the handle; disconnect/reconnect
// cycles reuse it.
type instance struct {
	def  *definition
	comp CustomElement
	el   dom.Element

	mu       sync.Mutex
	target   dom.Element // shadow root when shadowed, el otherwise
	injected bool
	pending  *time.Timer // scheduled debounced disconnect, nil when none
}

func newInstance(def *definition, el dom.Element) *instance {
	return &instance{
		def:    def,
		comp:   def.factory(),
		el:     el,
		target: el,
	}
}

// construct runs once, when the platform creates the backing element object.
// Shadowed components attach their root and inject eagerly: shadow children
// are legal during upgrade. Light-DOM components defer injection to the
// first connection, where child mutation is always allowed.
func (in *instance) construct() {
	if !in.def.shadow {
		return
	}
	in.mu.Lock()
	in.target = in.el.AttachShadow()
	in.mu.Unlock()
	in.inject()
}

// inject performs the one-shot content setup: style text, stylesheet links,
// then the component's content, in that order. Guarded by the injected flag;
// every later call is a no-op. A panic from Build propagates to the
// platform's element-upgrade failure path untouched.
func (in *instance) inject() {
	in.mu.Lock()
	if in.injected {
		in.mu.Unlock()
		return
	}
	in.injected = true
	target := in.target
	in.mu.Unlock()

	doc := in.el.Owner()

	if in.def.style != "" {
		styleEl := doc.CreateElement("style")
		styleEl.SetText(in.def.style)
		target.AppendChild(styleEl)
	}
	for _, url := range in.def.styleURLs {
		link := doc.CreateElement("link")
		link.SetAttr("rel", "stylesheet")
		link.SetAttr("href", url)
		target.AppendChild(link)
	}

	if n := in.comp.Build(in.el, target); n != nil {
		target.AppendChild(n)
	}
}

// connected fires on each document entry. The first entry completes
// injection if construction deferred it. A reconnect that lands inside the
// disconnect debounce window is a reparenting move: it cancels the pending
// disconnect and fires neither hook.
func (in *instance) connected() {
	moved := in.cancelPendingDisconnect()
	in.inject()
	if moved {
		return
	}
	if c, ok := in.comp.(Connector); ok {
		c.Connected(in.el)
	}
}

// disconnected fires on each document exit. Without a debounce window the
// hook fires immediately; with one, firing is deferred until the window
// elapses with no reconnect.
func (in *instance) disconnected() {
	if in.def.debounce <= 0 {
		in.fireDisconnected()
		return
	}

	in.mu.Lock()
	if in.pending != nil {
		in.pending.Stop()
	}
	in.pending = time.AfterFunc(in.def.debounce, func() {
		in.mu.Lock()
		in.pending = nil
		in.mu.Unlock()
		in.fireDisconnected()
	})
	in.mu.Unlock()
}

func (in *instance) fireDisconnected() {
	if d, ok := in.comp.(Disconnector); ok {
		d.Disconnected(in.el)
	}
}

// cancelPendingDisconnect stops a scheduled disconnect if it has not fired
// yet. Reports whether one was cancelled.
func (in *instance) cancelPendingDisconnect() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.pending == nil {
		return false
	}
	stopped := in.pending.Stop()
	in.pending = nil
	return stopped
}

// adopted fires on each document-context move. Some platforms adopt before
// the first connection; injection is flag-guarded, so healing a missed
// injection here is free in the normal path.
func (in *instance) adopted() {
	in.inject()
	if a, ok := in.comp.(Adopter); ok {
		a.Adopted(in.el)
	}
}

// attributeChanged forwards an observed-attribute mutation. An absent old
// value (nil) is delivered to the host as "" so hooks never deal with null;
// an absent new value stays nil because removal and empty-string are
// distinct mutations. A notification outside the observed list cannot occur
// under correct registration and is logged as a contract violation.
func (in *instance) attributeChanged(name string, old, newValue *string) {
	if _, ok := in.def.observedSet[name]; !ok {
		in.def.logger.Error("element: attribute notification outside observed list",
			"tag", in.def.tag, "attribute", name)
		return
	}
	oldStr := ""
	if old != nil {
		oldStr = *old
	}
	if ac, ok := in.comp.(AttributeChanger); ok {
		ac.AttributeChanged(in.el, name, oldStr, newValue)
	}
}
