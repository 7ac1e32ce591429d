package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/nfalab"
	"github.com/aretw0/nfalab/internal/presentation/graph"
	"github.com/aretw0/nfalab/internal/share"
	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/ports"
	"github.com/aretw0/nfalab/pkg/runner"
	"github.com/aretw0/nfalab/pkg/session"
	"github.com/aretw0/nfalab/pkg/simulation"
)

// Engine defines what the API needs from the compiler and simulator.
type Engine interface {
	ports.PatternCompiler
	Run(ctx context.Context, c *domain.Compilation, input string) *simulation.Simulation
}

// Server implements ServerInterface
type Server struct {
	Engine   Engine
	Sessions *session.Service
	Streams  *StreamManager

	metrics   http.Handler
	shareBase string
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the HTTP handler.
type Option func(*Server)

// WithMetricsHandler exposes h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithShareBaseURL makes POST /share return a full link next to the token.
func WithShareBaseURL(base string) Option {
	return func(s *Server) {
		s.shareBase = base
	}
}

// NewHandler creates the HTTP handler. Session diffs are forwarded to SSE
// subscribers through a listener registered on sessions.
func NewHandler(engine Engine, sessions *session.Service, opts ...Option) http.Handler {
	server := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
	}
	for _, opt := range opts {
		opt(server)
	}
	sessions.AddListener(server.Streams.Listener())

	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			slog.Error("Failed to load OpenAPI spec", "error", err)
			return
		}
		w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	handler := HandlerFromMux(server, r)
	return enableCORS(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>nfalab API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// Compile handles the POST /compile request.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	var body PatternRequest
	if !decodeBody(w, r, "Compile", &body) {
		return
	}

	c, err := s.Engine.Compile(r.Context(), body.Pattern)
	if err != nil {
		writeDomainError(w, "Compile", err)
		return
	}
	writeJSON(w, http.StatusOK, CompileResponse{Compilation: c, Stats: c.NFA.Stats()})
}

// Simulate handles the POST /simulate request.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var body SimulateRequest
	if !decodeBody(w, r, "Simulate", &body) {
		return
	}

	input, ok := sanitize(w, "Simulate", body.Input)
	if !ok {
		return
	}

	c, err := s.Engine.Compile(r.Context(), body.Pattern)
	if err != nil {
		writeDomainError(w, "Simulate", err)
		return
	}
	sim := s.Engine.Run(r.Context(), c, input)
	if body.Index != nil {
		sim.Seek(*body.Index)
	}

	writeJSON(w, http.StatusOK, SimulateResponse{
		Compilation: c,
		Input:       input,
		History:     sim.History(),
		View:        sim.View(),
	})
}

// GetGraph handles the GET /graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request, params GetGraphParams) {
	format := ""
	if params.Format != nil {
		format = *params.Format
	}
	f, err := graph.ParseFormat(format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c, err := s.Engine.Compile(r.Context(), params.Pattern)
	if err != nil {
		writeDomainError(w, "GetGraph", err)
		return
	}

	var overlay *graph.Overlay
	if params.Input != nil {
		input, ok := sanitize(w, "GetGraph", *params.Input)
		if !ok {
			return
		}
		sim := simulation.New(c.NFA, input)
		if params.Step != nil {
			sim.Seek(*params.Step)
		} else {
			sim.RunToEnd()
		}
		view := sim.View()
		overlay = &graph.Overlay{Active: view.ActiveIDs, Fired: view.Fired}
	}

	contentType := "text/plain; charset=utf-8"
	if f == graph.FormatDOT {
		contentType = "text/vnd.graphviz; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	fmt.Fprint(w, graph.Render(f, c.NFA, overlay))
}

// CreateShare handles the POST /share request.
func (s *Server) CreateShare(w http.ResponseWriter, r *http.Request) {
	var body share.Link
	if !decodeBody(w, r, "CreateShare", &body) {
		return
	}
	input, ok := sanitize(w, "CreateShare", body.Input)
	if !ok {
		return
	}
	body.Input = input

	// Only compilable links are shared.
	if _, err := s.Engine.Compile(r.Context(), body.Pattern); err != nil {
		writeDomainError(w, "CreateShare", err)
		return
	}

	token, err := share.Encode(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	resp := ShareResponse{Token: token}
	if s.shareBase != "" {
		resp.URL, _ = share.URL(s.shareBase, body)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetShare handles the GET /share/{token} request.
func (s *Server) GetShare(w http.ResponseWriter, r *http.Request, token string) {
	link, err := share.Decode(token)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		writeDomainError(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, SessionList{Sessions: ids})
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if !decodeBody(w, r, "CreateSession", &body) {
		return
	}
	input, ok := sanitize(w, "CreateSession", body.Input)
	if !ok {
		return
	}

	res, err := s.Sessions.Create(r.Context(), body.ID, body.Pattern, input)
	if err != nil {
		writeDomainError(w, "CreateSession", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, id string) {
	res, err := s.Sessions.Open(r.Context(), id)
	s.respondSession(w, "GetSession", res, err)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		writeDomainError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ForwardSession handles the POST /sessions/{id}/forward request.
func (s *Server) ForwardSession(w http.ResponseWriter, r *http.Request, id string) {
	res, err := s.Sessions.Forward(r.Context(), id)
	s.respondSession(w, "ForwardSession", res, err)
}

// BackwardSession handles the POST /sessions/{id}/backward request.
func (s *Server) BackwardSession(w http.ResponseWriter, r *http.Request, id string) {
	res, err := s.Sessions.Backward(r.Context(), id)
	s.respondSession(w, "BackwardSession", res, err)
}

// ResetSession handles the POST /sessions/{id}/reset request.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request, id string) {
	res, err := s.Sessions.Reset(r.Context(), id)
	s.respondSession(w, "ResetSession", res, err)
}

// SeekSession handles the POST /sessions/{id}/seek request.
func (s *Server) SeekSession(w http.ResponseWriter, r *http.Request, id string) {
	var body SeekRequest
	if !decodeBody(w, r, "SeekSession", &body) {
		return
	}
	res, err := s.Sessions.Seek(r.Context(), id, body.Index)
	s.respondSession(w, "SeekSession", res, err)
}

// SetSessionPattern handles the PUT /sessions/{id}/pattern request.
func (s *Server) SetSessionPattern(w http.ResponseWriter, r *http.Request, id string) {
	var body PatternRequest
	if !decodeBody(w, r, "SetSessionPattern", &body) {
		return
	}
	res, err := s.Sessions.SetPattern(r.Context(), id, body.Pattern)
	s.respondSession(w, "SetSessionPattern", res, err)
}

// SetSessionInput handles the PUT /sessions/{id}/input request.
func (s *Server) SetSessionInput(w http.ResponseWriter, r *http.Request, id string) {
	var body InputRequest
	if !decodeBody(w, r, "SetSessionInput", &body) {
		return
	}
	input, ok := sanitize(w, "SetSessionInput", body.Input)
	if !ok {
		return
	}
	res, err := s.Sessions.SetInput(r.Context(), id, input)
	s.respondSession(w, "SetSessionInput", res, err)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "nfalab-http",
		"version":     strings.TrimSpace(nfalab.Version),
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles the GET /events request (SSE).
// Without session_id the stream carries the diffs of every session.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sessionID := AllSessions
	if params.SessionId != nil {
		sessionID = *params.SessionId
	}
	slog.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var watchList []string
	if params.Watch != nil {
		watchList = strings.Split(*params.Watch, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			slog.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !matchesWatch(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// matchesWatch reports whether the diff touches one of the watched fields.
// Undecodable messages are always delivered.
func matchesWatch(msg string, watchList []string) bool {
	var diff domain.StepDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "pattern":
			if diff.Pattern != nil {
				return true
			}
		case "input":
			if diff.Input != nil {
				return true
			}
		case "index":
			if diff.Index != nil {
				return true
			}
		case "active":
			if diff.ActiveIDs != nil {
				return true
			}
		case "accepted":
			if diff.Accepted != nil {
				return true
			}
		}
	}
	return false
}

// -- Helpers --

func (s *Server) respondSession(w http.ResponseWriter, op string, res *session.Result, err error) {
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func decodeBody(w http.ResponseWriter, r *http.Request, op string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		slog.Warn(op+": Invalid request body", "error", err)
		return false
	}
	return true
}

func sanitize(w http.ResponseWriter, op, input string) (string, bool) {
	if input == "" {
		return input, true
	}
	clean, err := runner.SanitizeInput(input)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("Invalid input: %v", err)})
		slog.Warn(op+": Input rejected", "error", err, "size", len(input))
		return "", false
	}
	return clean, true
}

// writeDomainError maps compile errors to 400, missing sessions to 404 and
// anything else to 500.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	var ce *domain.CompileError
	switch {
	case errors.As(err, &ce):
		resp := ErrorResponse{Error: ce.Error(), Kind: ce.Kind}
		if ce.Pos >= 0 {
			resp.Pos = ptr(ce.Pos)
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("%s error: %v", op, err)})
		slog.Error(op+" failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func ptr[T any](v T) *T {
	return &v
}
