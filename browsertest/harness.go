package browsertest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/domelement/devserver"
)

// Harness wraps one fixture page plus the dev server event API. It creates
// elements, mutates attributes and reads rendered content, and lets tests
// assert on the lifecycle events the wasm side reported.
type Harness struct {
	page *rod.Page
	base string // dev server base URL, no trailing slash
	http *http.Client
}

// NewHarness opens a stealth page on the fixture and waits for the wasm
// module to signal readiness.
func NewHarness(ctx context.Context, m *Manager, baseURL string) (*Harness, error) {
	page, err := m.Page()
	if err != nil {
		return nil, err
	}
	page = page.Context(ctx)

	if err := page.Navigate(baseURL + "/"); err != nil {
		return nil, fmt.Errorf("browsertest: navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("browsertest: wait load: %w", err)
	}

	h := &Harness{
		page: page,
		base: baseURL,
		http: &http.Client{Timeout: 10 * time.Second},
	}
	if err := h.waitReady(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// waitReady polls the readiness flag the wasm entrypoint sets after
// registration completes.
func (h *Harness) waitReady(ctx context.Context) error {
	deadline := time.Now().Add(15 * time.Second)
	for {
		res, err := h.page.Eval(`() => window.__domelement_ready === true`)
		if err == nil && res.Value.Bool() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("browsertest: wasm module never signalled ready")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// CreateElement creates <tag> with the given attributes, appends it to the
// body, and returns the DOM id assigned to it.
func (h *Harness) CreateElement(tag string, attrs map[string]string) (string, error) {
	res, err := h.page.Eval(`(tag, attrs) => {
		const el = document.createElement(tag);
		for (const [k, v] of Object.entries(attrs || {})) el.setAttribute(k, v);
		el.id = "fixture-" + Math.random().toString(36).slice(2);
		document.body.appendChild(el);
		return el.id;
	}`, tag, attrs)
	if err != nil {
		return "", fmt.Errorf("browsertest: create %s: %w", tag, err)
	}
	return res.Value.Str(), nil
}

// SetAttr sets an attribute on the element with the given DOM id.
func (h *Harness) SetAttr(id, name, value string) error {
	_, err := h.page.Eval(`(id, name, value) => {
		document.getElementById(id).setAttribute(name, value);
	}`, id, name, value)
	if err != nil {
		return fmt.Errorf("browsertest: set %s on #%s: %w", name, id, err)
	}
	return nil
}

// RemoveAttr removes an attribute from the element with the given DOM id.
func (h *Harness) RemoveAttr(id, name string) error {
	_, err := h.page.Eval(`(id, name) => {
		document.getElementById(id).removeAttribute(name);
	}`, id, name)
	if err != nil {
		return fmt.Errorf("browsertest: remove %s on #%s: %w", name, id, err)
	}
	return nil
}

// Move detaches the element and immediately re-appends it under a fresh
// container. A single microtask separates disconnect from reconnect, which
// is exactly the churn the disconnect debounce exists to smooth.
func (h *Harness) Move(id string) error {
	_, err := h.page.Eval(`(id) => {
		const el = document.getElementById(id);
		el.remove();
		const holder = document.createElement("div");
		document.body.appendChild(holder);
		holder.appendChild(el);
	}`, id)
	if err != nil {
		return fmt.Errorf("browsertest: move #%s: %w", id, err)
	}
	return nil
}

// Remove detaches the element from the document for good.
func (h *Harness) Remove(id string) error {
	_, err := h.page.Eval(`(id) => { document.getElementById(id).remove(); }`, id)
	if err != nil {
		return fmt.Errorf("browsertest: remove #%s: %w", id, err)
	}
	return nil
}

// ShadowText returns the text content of the element's shadow root.
func (h *Harness) ShadowText(id string) (string, error) {
	res, err := h.page.Eval(`(id) => {
		const el = document.getElementById(id);
		return el && el.shadowRoot ? el.shadowRoot.textContent : "";
	}`, id)
	if err != nil {
		return "", fmt.Errorf("browsertest: shadow text of #%s: %w", id, err)
	}
	return res.Value.Str(), nil
}

// ShadowStyleCount returns how many <style> nodes the shadow root holds.
// Used to verify the inject-once guarantee across reconnects.
func (h *Harness) ShadowStyleCount(id string) (int, error) {
	res, err := h.page.Eval(`(id) => {
		const el = document.getElementById(id);
		return el && el.shadowRoot ? el.shadowRoot.querySelectorAll("style").length : 0;
	}`, id)
	if err != nil {
		return 0, fmt.Errorf("browsertest: style count of #%s: %w", id, err)
	}
	return res.Value.Int(), nil
}

// DefinitionState returns customElements.get(tag) !== undefined.
func (h *Harness) DefinitionState(tag string) (bool, error) {
	res, err := h.page.Eval(`(tag) => customElements.get(tag) !== undefined`, tag)
	if err != nil {
		return false, fmt.Errorf("browsertest: definition state of %s: %w", tag, err)
	}
	return res.Value.Bool(), nil
}

// Events fetches recorded lifecycle events from the dev server, filtered by
// tag, hook and element id (each optional). Newest first.
func (h *Harness) Events(ctx context.Context, tag, hook, elementID string) ([]devserver.Event, error) {
	u := h.base + "/api/events?limit=500"
	if tag != "" {
		u += "&tag=" + url.QueryEscape(tag)
	}
	if hook != "" {
		u += "&hook=" + url.QueryEscape(hook)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("browsertest: fetch events: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("browsertest: fetch events: status %s", resp.Status)
	}

	var body struct {
		Events []devserver.Event `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("browsertest: decode events: %w", err)
	}

	if elementID == "" {
		return body.Events, nil
	}
	filtered := body.Events[:0]
	for _, e := range body.Events {
		if e.ElementID == elementID {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// WaitEvents polls until at least want events match, or the deadline passes.
// The wasm side reports asynchronously and the store flushes in batches, so
// assertions on counts need a settling window.
func (h *Harness) WaitEvents(ctx context.Context, tag, hook, elementID string, want int, timeout time.Duration) ([]devserver.Event, error) {
	deadline := time.Now().Add(timeout)
	for {
		events, err := h.Events(ctx, tag, hook, elementID)
		if err != nil {
			return nil, err
		}
		if len(events) >= want {
			return events, nil
		}
		if time.Now().After(deadline) {
			return events, fmt.Errorf("browsertest: want %d %s/%s events, have %d after %s",
				want, tag, hook, len(events), timeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(150 * time.Millisecond):
		}
	}
}
