// CLAUDE:SUMMARY Injects the wasm loader script into a fixture page via x/net/html.
package devserver

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// bootstrapScript is the loader appended to the fixture page's head. It
// assumes wasm_exec.js is loaded first (injected as a separate script node).
const bootstrapScript = `
const go = new Go();
WebAssembly.instantiateStreaming(fetch(%q), go.importObject).then((result) => {
	go.run(result.instance);
});
`

// InjectBootstrap parses an HTML page and appends the wasm loader scripts to
// its head, so any fixture page works without hand-editing. wasmURL and
// execURL are the serve paths of the wasm bundle and wasm_exec.js.
func InjectBootstrap(page []byte, wasmURL, execURL string) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("devserver: parse fixture page: %w", err)
	}

	head := findNode(doc, atom.Head)
	if head == nil {
		// html.Parse synthesizes head for any input; missing means the
		// input was not parseable as a document at all.
		return nil, fmt.Errorf("devserver: fixture page has no head")
	}

	exec := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr:     []html.Attribute{{Key: "src", Val: execURL}},
	}
	head.AppendChild(exec)

	loader := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
	}
	loader.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: fmt.Sprintf(bootstrapScript, wasmURL),
	})
	head.AppendChild(loader)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("devserver: render fixture page: %w", err)
	}
	return buf.Bytes(), nil
}

func findNode(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, a); found != nil {
			return found
		}
	}
	return nil
}
