// Package web hosts one mounted SDUI document in the browser. Pages are
// server-rendered with html/template; datastar keeps them current by
// patching #sdui-main over SSE whenever the store changes.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"sdui-cli/internal/dispatch"
	"sdui-cli/internal/format"
	"sdui-cli/internal/model"
	"sdui-cli/internal/render"
	"sdui-cli/internal/state"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

// DefaultDatastarURL is the client bundle the page loads when none is
// configured.
const DefaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

const mainSelector = "#sdui-main"

type ServerConfig struct {
	Addr  string
	Title string
	// Markdown renders text nodes through goldmark; otherwise they are
	// escaped into a single paragraph.
	Markdown    bool
	DatastarURL string
	Log         *slog.Logger
}

// Server owns a single session. The store is not safe for concurrent use,
// so every render and every callback runs under mu.
type Server struct {
	mu   sync.Mutex
	cfg  ServerConfig
	tmpl *template.Template
	sess *render.Session
	hub  *resourceHub
	log  *slog.Logger
}

type pageVM struct {
	Title       string
	DatastarURL string
	Version     uint64
	Placeholder bool
	Root        *render.Node
}

func NewServer(cfg ServerConfig, page *model.Page) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Title = strings.TrimSpace(cfg.Title)
	cfg.DatastarURL = strings.TrimSpace(cfg.DatastarURL)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if page == nil {
		return nil, errors.New("web: no document")
	}
	if cfg.Title == "" {
		cfg.Title = "sdui"
	}
	if cfg.DatastarURL == "" {
		cfg.DatastarURL = DefaultDatastarURL
	}
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	md := renderPlainHTML
	if cfg.Markdown {
		md = renderMarkdownHTML
	}
	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"urlpath":  escapeHandle,
		"markdown": md,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	hub := newResourceHub()
	st := state.New(state.WithOnChange(func(state.Snapshot) { hub.broadcast() }))
	d := dispatch.New(st, dispatch.WithLogger(log))
	sess := render.NewSession(page, d, render.WithLogger(log))
	sess.Mount()

	return &Server{cfg: cfg, tmpl: tmpl, sess: sess, hub: hub, log: log}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /tree", s.handleTree)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("POST /activate/{handle...}", s.handleActivate)
	mux.HandleFunc("POST /dismiss/{handle...}", s.handleDismiss)
	mux.HandleFunc("GET /{$}", s.handleHome)
	return mux
}

// escapeHandle path-escapes each segment of a node handle. Item ids end
// up in handles and may contain anything.
func escapeHandle(handle string) string {
	parts := strings.Split(handle, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func isDatastarRequest(r *http.Request) bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("Datastar-Request")), "true")
}

func (s *Server) view() pageVM {
	s.mu.Lock()
	tree := s.sess.Render()
	s.mu.Unlock()
	return pageVM{
		Title:       s.cfg.Title,
		DatastarURL: s.cfg.DatastarURL,
		Version:     tree.Version,
		Placeholder: tree.Placeholder,
		Root:        tree.Root,
	}
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		s.log.Error("render template", "name", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, "page", s.view())
}

// patchMain sends the current #sdui-main and version signal.
func (s *Server) patchMain(sse *datastar.ServerSentEventGenerator) error {
	vm := s.view()
	html, err := s.renderTemplate("main", vm)
	if err != nil {
		return err
	}
	if err := sse.PatchElements(html, datastar.WithSelector(mainSelector), datastar.WithMode(datastar.ElementPatchModeOuter)); err != nil {
		return err
	}
	return sse.MarshalAndPatchSignals(map[string]any{"version": vm.Version})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ch, cancel := s.hub.subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	if err := s.patchMain(sse); err != nil {
		s.log.Warn("initial patch", "err", err)
		return
	}

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			if err := s.patchMain(sse); err != nil {
				s.log.Warn("patch main", "err", err)
				return
			}
		}
	}
}

// respond answers a form post. Datastar requests get the fresh main
// element in the response; plain forms are redirected home.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	if !isDatastarRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sse := datastar.NewSSE(w, r)
	if err := s.patchMain(sse); err != nil {
		s.log.Warn("patch main", "err", err)
	}
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	s.mu.Lock()
	res, ok := s.sess.Render().Activate(handle)
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.log.Info("activated", "handle", handle, "applied", res.Applied, "unsupported", res.Unsupported, "invalid", res.Invalid)
	s.respond(w, r)
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	s.mu.Lock()
	ok := s.sess.Render().Dismiss(handle)
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.log.Info("dismissed", "handle", handle)
	s.respond(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := format.WriteJSON(w, v, true); err != nil {
		s.log.Warn("write json", "err", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.sess.Store().Snapshot()
	s.mu.Unlock()
	s.writeJSON(w, snap)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tree := s.sess.Render()
	s.mu.Unlock()
	s.writeJSON(w, tree)
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
