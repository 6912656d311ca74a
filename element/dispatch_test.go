package element

import (
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/domelement/dom"
)

// --- in-memory DOM fakes ---

type fakeDoc struct{}

func (fakeDoc) CreateElement(tag string) dom.Element { return newFakeElement(tag) }
func (fakeDoc) CreateTextNode(text string) dom.Node  { return &fakeText{text: text} }

type fakeText struct {
	text string
}

func (t *fakeText) NodeName() string { return "#text" }

type fakeElement struct {
	tag      string
	attrs    map[string]string
	children []dom.Node
	shadow   *fakeElement
	text     string
}

func newFakeElement(tag string) *fakeElement {
	return &fakeElement{tag: tag, attrs: make(map[string]string)}
}

func (e *fakeElement) NodeName() string { return strings.ToUpper(e.tag) }
func (e *fakeElement) TagName() string  { return e.tag }

func (e *fakeElement) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) SetAttr(name, value string) { e.attrs[name] = value }
func (e *fakeElement) RemoveAttr(name string)     { delete(e.attrs, name) }
func (e *fakeElement) AppendChild(n dom.Node)     { e.children = append(e.children, n) }

func (e *fakeElement) AttachShadow() dom.Element {
	if e.shadow != nil {
		panic("fake: attachShadow called twice")
	}
	e.shadow = newFakeElement("#shadow-root")
	return e.shadow
}

func (e *fakeElement) SetText(text string) { e.text = text }
func (e *fakeElement) Owner() dom.Document { return fakeDoc{} }

// --- test component ---

// recorder implements every capability and counts hook invocations.
type recorder struct {
	shadow   bool
	extends  string
	style    string
	urls     []string
	observed []string
	debounce time.Duration

	// Build behavior: returned node, or self-injection into root.
	buildNode  dom.Node
	selfInject bool

	builds        int
	connects      int
	disconnects   int
	adopts        int
	attrCalls     []attrCall
	lastBuildRoot dom.Element
}

type attrCall struct {
	name string
	old  string
	new  *string
}

func (r *recorder) Build(el, root dom.Element) dom.Node {
	r.builds++
	r.lastBuildRoot = root
	if r.selfInject {
		root.AppendChild(&fakeText{text: "self"})
		return nil
	}
	return r.buildNode
}

func (r *recorder) ObservedAttributes() []string      { return r.observed }
func (r *recorder) Shadow() bool                      { return r.shadow }
func (r *recorder) Extends() string                   { return r.extends }
func (r *recorder) Style() string                     { return r.style }
func (r *recorder) StyleURLs() []string               { return r.urls }
func (r *recorder) Connected(dom.Element)             { r.connects++ }
func (r *recorder) Disconnected(dom.Element)          { r.disconnects++ }
func (r *recorder) Adopted(dom.Element)               { r.adopts++ }
func (r *recorder) DisconnectDebounce() time.Duration { return r.debounce }

func (r *recorder) AttributeChanged(_ dom.Element, name, old string, newValue *string) {
	r.attrCalls = append(r.attrCalls, attrCall{name: name, old: old, new: newValue})
}

// newTestInstance builds a definition+instance around a single shared
// recorder so tests can assert on it after driving the lifecycle.
func newTestInstance(tag string, rec *recorder) (*instance, *fakeElement) {
	def := newDefinition(tag, func() CustomElement { return rec }, nil)
	el := newFakeElement(tag)
	return newInstance(def, el), el
}

// --- tests ---

func TestInjectOnce_AcrossReconnects(t *testing.T) {
	rec := &recorder{shadow: true, buildNode: &fakeText{text: "0"}}
	in, _ := newTestInstance("x-once", rec)

	in.construct()
	for i := 0; i < 3; i++ {
		in.connected()
		in.disconnected()
	}
	in.connected()

	if rec.builds != 1 {
		t.Fatalf("builds: got %d, want 1", rec.builds)
	}
	if rec.connects != 4 {
		t.Errorf("connects: got %d, want 4", rec.connects)
	}
	if rec.disconnects != 3 {
		t.Errorf("disconnects: got %d, want 3", rec.disconnects)
	}
}

func TestShadowInjection(t *testing.T) {
	rec := &recorder{shadow: true, buildNode: &fakeText{text: "0"}}
	in, el := newTestInstance("x-shadow", rec)

	in.construct()

	if el.shadow == nil {
		t.Fatal("shadow root not attached")
	}
	if len(el.children) != 0 {
		t.Errorf("light children: got %d, want 0", len(el.children))
	}
	if len(el.shadow.children) != 1 {
		t.Fatalf("shadow children: got %d, want 1", len(el.shadow.children))
	}
	txt, ok := el.shadow.children[0].(*fakeText)
	if !ok || txt.text != "0" {
		t.Errorf("shadow child: got %#v, want text node %q", el.shadow.children[0], "0")
	}
	if rec.lastBuildRoot != dom.Element(el.shadow) {
		t.Error("Build root: got element, want shadow root")
	}
}

func TestLightDOMInjection_DeferredToConnect(t *testing.T) {
	rec := &recorder{shadow: false, buildNode: &fakeText{text: "light"}}
	in, el := newTestInstance("x-light", rec)

	in.construct()
	if rec.builds != 0 {
		t.Fatalf("builds after construct: got %d, want 0 (light DOM defers)", rec.builds)
	}
	if el.shadow != nil {
		t.Fatal("shadow root attached despite Shadow() false")
	}

	in.connected()
	if rec.builds != 1 {
		t.Fatalf("builds after connect: got %d, want 1", rec.builds)
	}
	if len(el.children) != 1 {
		t.Fatalf("light children: got %d, want 1", len(el.children))
	}
}

func TestStyleAndStylesheetOrdering(t *testing.T) {
	rec := &recorder{
		shadow:    true,
		style:     "p { color: red }",
		urls:      []string{"/a.css", "/b.css"},
		buildNode: &fakeText{text: "content"},
	}
	in, el := newTestInstance("x-styled", rec)
	in.construct()

	kids := el.shadow.children
	if len(kids) != 4 {
		t.Fatalf("shadow children: got %d, want 4 (style, link, link, content)", len(kids))
	}

	styleEl, ok := kids[0].(*fakeElement)
	if !ok || styleEl.tag != "style" {
		t.Fatalf("child 0: got %#v, want <style>", kids[0])
	}
	if styleEl.text != "p { color: red }" {
		t.Errorf("style text: got %q", styleEl.text)
	}

	for i, wantHref := range []string{"/a.css", "/b.css"} {
		link, ok := kids[i+1].(*fakeElement)
		if !ok || link.tag != "link" {
			t.Fatalf("child %d: got %#v, want <link>", i+1, kids[i+1])
		}
		if rel, _ := link.Attr("rel"); rel != "stylesheet" {
			t.Errorf("link %d rel: got %q, want %q", i, rel, "stylesheet")
		}
		if href, _ := link.Attr("href"); href != wantHref {
			t.Errorf("link %d href: got %q, want %q", i, href, wantHref)
		}
	}

	if txt, ok := kids[3].(*fakeText); !ok || txt.text != "content" {
		t.Errorf("child 3: got %#v, want text %q", kids[3], "content")
	}
}

func TestSelfInjection(t *testing.T) {
	rec := &recorder{shadow: false, selfInject: true}
	in, el := newTestInstance("x-self", rec)

	in.construct()
	in.connected()

	if len(el.children) != 1 {
		t.Fatalf("children: got %d, want 1", len(el.children))
	}
	if txt, ok := el.children[0].(*fakeText); !ok || txt.text != "self" {
		t.Errorf("child: got %#v, want self-injected text", el.children[0])
	}
}

func TestAttributeChanged_ObservedGating(t *testing.T) {
	rec := &recorder{shadow: true, observed: []string{"value"}}
	in, _ := newTestInstance("x-gated", rec)
	in.construct()

	v := "5"
	in.attributeChanged("value", nil, &v)
	in.attributeChanged("class", nil, &v) // not observed: contract violation, dropped

	if len(rec.attrCalls) != 1 {
		t.Fatalf("attr calls: got %d, want 1", len(rec.attrCalls))
	}
	if rec.attrCalls[0].name != "value" {
		t.Errorf("attr name: got %q, want %q", rec.attrCalls[0].name, "value")
	}
}

func TestAttributeChanged_OldDefaultsToEmpty(t *testing.T) {
	rec := &recorder{shadow: true, observed: []string{"value"}}
	in, _ := newTestInstance("x-olddefault", rec)
	in.construct()

	v := "5"
	in.attributeChanged("value", nil, &v)

	if len(rec.attrCalls) != 1 {
		t.Fatalf("attr calls: got %d, want 1", len(rec.attrCalls))
	}
	call := rec.attrCalls[0]
	if call.old != "" {
		t.Errorf("old: got %q, want empty string", call.old)
	}
	if call.new == nil || *call.new != "5" {
		t.Errorf("new: got %v, want %q", call.new, "5")
	}
}

func TestAttributeChanged_RemovalDeliversNil(t *testing.T) {
	rec := &recorder{shadow: true, observed: []string{"value"}}
	in, _ := newTestInstance("x-removal", rec)
	in.construct()

	v := "5"
	in.attributeChanged("value", nil, &v)
	in.attributeChanged("value", &v, nil)

	if len(rec.attrCalls) != 2 {
		t.Fatalf("attr calls: got %d, want 2", len(rec.attrCalls))
	}
	removal := rec.attrCalls[1]
	if removal.old != "5" {
		t.Errorf("removal old: got %q, want %q", removal.old, "5")
	}
	if removal.new != nil {
		t.Errorf("removal new: got %q, want nil", *removal.new)
	}
}

func TestDisconnectDebounce_ReconnectCancels(t *testing.T) {
	rec := &recorder{shadow: true, debounce: 80 * time.Millisecond}
	in, _ := newTestInstance("x-debounce", rec)

	in.construct()
	in.connected()

	// Reparenting move: disconnect then reconnect inside the window.
	in.disconnected()
	time.Sleep(10 * time.Millisecond)
	in.connected()

	time.Sleep(160 * time.Millisecond)
	if rec.disconnects != 0 {
		t.Fatalf("disconnects after cancelled debounce: got %d, want 0", rec.disconnects)
	}
	// The move must not look like a fresh document entry either.
	if rec.connects != 1 {
		t.Errorf("connects: got %d, want 1 (move suppresses the hook)", rec.connects)
	}
}

func TestDisconnectDebounce_ExpiryFiresOnce(t *testing.T) {
	rec := &recorder{shadow: true, debounce: 30 * time.Millisecond}
	in, _ := newTestInstance("x-debounce-fire", rec)

	in.construct()
	in.connected()
	in.disconnected()

	time.Sleep(120 * time.Millisecond)
	if rec.disconnects != 1 {
		t.Fatalf("disconnects: got %d, want 1", rec.disconnects)
	}
}

func TestNoDebounce_FiresImmediately(t *testing.T) {
	rec := &recorder{shadow: true}
	in, _ := newTestInstance("x-immediate", rec)

	in.construct()
	in.connected()
	in.disconnected()

	if rec.disconnects != 1 {
		t.Fatalf("disconnects: got %d, want 1 (no debounce configured)", rec.disconnects)
	}
}

func TestAdopted_HealsMissedInjection(t *testing.T) {
	rec := &recorder{shadow: false, buildNode: &fakeText{text: "adopted"}}
	in, el := newTestInstance("x-adopt", rec)

	in.construct()
	in.adopted() // adopted before ever connecting

	if rec.builds != 1 {
		t.Fatalf("builds after adopt: got %d, want 1", rec.builds)
	}
	if rec.adopts != 1 {
		t.Errorf("adopts: got %d, want 1", rec.adopts)
	}

	in.connected()
	if rec.builds != 1 {
		t.Errorf("builds after later connect: got %d, want 1 (no re-injection)", rec.builds)
	}
	if len(el.children) != 1 {
		t.Errorf("children: got %d, want 1", len(el.children))
	}
}

func TestCounterScenario(t *testing.T) {
	// define("x-counter", shadow, build=<text "0">, observed=["value"]) per
	// the documented example: one text child in the shadow root, then a
	// value mutation delivers (old="", new="5") exactly once.
	rec := &recorder{shadow: true, observed: []string{"value"}, buildNode: &fakeText{text: "0"}}
	in, el := newTestInstance("x-counter", rec)

	in.construct()
	in.connected()

	if el.shadow == nil || len(el.shadow.children) != 1 {
		t.Fatal("want exactly one shadow child")
	}
	if txt, ok := el.shadow.children[0].(*fakeText); !ok || txt.text != "0" {
		t.Fatalf("shadow child: got %#v, want text %q", el.shadow.children[0], "0")
	}

	v := "5"
	in.attributeChanged("value", nil, &v)

	if len(rec.attrCalls) != 1 {
		t.Fatalf("attr calls: got %d, want 1", len(rec.attrCalls))
	}
	if got := rec.attrCalls[0]; got.old != "" || got.new == nil || *got.new != "5" {
		t.Errorf("attr call: got (old=%q, new=%v), want (old=\"\", new=\"5\")", got.old, got.new)
	}
}
