package devserver

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
)

// defaultIndexHTML is the blank fixture page used when no root directory is
// configured. The bootstrap scripts are injected at serve time.
const defaultIndexHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>domelement dev</title></head>
<body></body>
</html>
`

// Server serves the fixture page, the wasm bundle, and the lifecycle event
// API. Create with New, mount with Router.
type Server struct {
	cfg      *Config
	store    *Store
	logger   *slog.Logger
	sanitize *bluemonday.Policy
}

// New creates a Server. store may not be nil.
func New(cfg *Config, store *Store, logger *slog.Logger) *Server {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		store:    store,
		logger:   logger,
		sanitize: bluemonday.UGCPolicy(),
	}
}

// Router builds the chi router with all endpoints mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/wasm_exec.js", s.handleWasmExec)
	r.Get("/app.wasm", s.handleWasm)
	r.Post("/api/events", s.handleEventPost)
	r.Get("/api/events", s.handleEventList)
	r.Get("/debug/events", s.handleDebugEvents)

	if s.cfg.Root != "" {
		r.Handle("/static/*", http.StripPrefix("/static/",
			http.FileServer(http.Dir(s.cfg.Root))))
	}

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := []byte(defaultIndexHTML)
	if s.cfg.Root != "" {
		data, err := os.ReadFile(filepath.Join(s.cfg.Root, "index.html"))
		if err != nil {
			s.logger.Error("devserver: read fixture page", "error", err)
			http.Error(w, "fixture page unreadable", http.StatusInternalServerError)
			return
		}
		page = data
	}

	out, err := InjectBootstrap(page, "/app.wasm", "/wasm_exec.js")
	if err != nil {
		s.logger.Error("devserver: inject bootstrap", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}

func (s *Server) handleWasmExec(w http.ResponseWriter, r *http.Request) {
	s.serveConfiguredFile(w, r, s.cfg.WasmExec, "application/javascript")
}

func (s *Server) handleWasm(w http.ResponseWriter, r *http.Request) {
	s.serveConfiguredFile(w, r, s.cfg.Wasm, "application/wasm")
}

func (s *Server) serveConfiguredFile(w http.ResponseWriter, r *http.Request, path, contentType string) {
	if path == "" {
		http.Error(w, "not configured", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}

// handleEventPost ingests lifecycle events reported by wasm components.
// Accepts a single event or an array.
func (s *Server) handleEventPost(w http.ResponseWriter, r *http.Request) {
	var events []Event

	dec := json.NewDecoder(r.Body)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &events); err != nil {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("decode events: %w", err))
			return
		}
	} else {
		var e Event
		if err := json.Unmarshal(raw, &e); err != nil {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("decode event: %w", err))
			return
		}
		events = append(events, e)
	}

	for i := range events {
		if events[i].Tag == "" || events[i].Hook == "" {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("event needs tag and hook"))
			return
		}
		s.store.RecordAsync(&events[i])
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]int{"accepted": len(events)})
}

func (s *Server) handleEventList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if l := q.Get("limit"); l != "" {
		fmt.Sscanf(l, "%d", &limit)
	}

	events, err := s.store.Query(r.Context(), q.Get("tag"), q.Get("hook"), limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}
	if events == nil {
		events = []Event{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"events": events})
}

var debugEventsTmpl = template.Must(template.New("events").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>lifecycle events</title></head><body>
<h1>Lifecycle events</h1>
<table border="1" cellpadding="4">
<tr><th>time</th><th>tag</th><th>element</th><th>hook</th><th>attr</th><th>old</th><th>new</th><th>html</th></tr>
{{range .}}
<tr>
<td>{{.Time}}</td><td>{{.Tag}}</td><td>{{.ElementID}}</td><td>{{.Hook}}</td>
<td>{{.Attr}}</td><td>{{.Old}}</td><td>{{.New}}</td><td>{{.HTML}}</td>
</tr>
{{end}}
</table>
</body></html>
`))

type debugEventRow struct {
	Time      string
	Tag       string
	ElementID string
	Hook      string
	Attr      string
	Old       string
	New       string
	HTML      template.HTML
}

// handleDebugEvents renders the recorded events as an HTML table. Element
// HTML snapshots come from the page under test, so they are sanitized
// before being marked safe for the template.
func (s *Server) handleDebugEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.Query(r.Context(), "", "", 500)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rows := make([]debugEventRow, 0, len(events))
	for _, e := range events {
		newVal := "(removed)"
		if e.NewValue != nil {
			newVal = *e.NewValue
		}
		rows = append(rows, debugEventRow{
			Time:      time.UnixMilli(e.Timestamp).Format(time.RFC3339Nano),
			Tag:       e.Tag,
			ElementID: e.ElementID,
			Hook:      e.Hook,
			Attr:      e.Attr,
			Old:       e.OldValue,
			New:       newVal,
			HTML:      template.HTML(s.sanitize.Sanitize(e.HTML)),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := debugEventsTmpl.Execute(w, rows); err != nil {
		s.logger.Error("devserver: render debug events", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
