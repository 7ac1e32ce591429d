package http

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/session"
)

//go:embed openapi.yaml
var openapiYAML []byte

// rawSpec returns the embedded OpenAPI document.
func rawSpec() ([]byte, error) {
	if len(openapiYAML) == 0 {
		return nil, fmt.Errorf("embedded OpenAPI document is empty")
	}
	return openapiYAML, nil
}

// GetSwagger parses the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	data, err := rawSpec()
	if err != nil {
		return nil, err
	}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("error loading OpenAPI document: %w", err)
	}
	return doc, nil
}

// -- Request / response bodies --

type PatternRequest struct {
	Pattern string `json:"pattern"`
}

type InputRequest struct {
	Input string `json:"input"`
}

type SeekRequest struct {
	Index int `json:"index"`
}

type SimulateRequest struct {
	Pattern string `json:"pattern"`
	Input   string `json:"input"`
	Index   *int   `json:"index,omitempty"`
}

type CreateSessionRequest struct {
	ID      string `json:"id,omitempty"`
	Pattern string `json:"pattern"`
	Input   string `json:"input"`
}

type CompileResponse struct {
	*domain.Compilation
	Stats domain.Stats `json:"stats"`
}

type SimulateResponse struct {
	Compilation *domain.Compilation `json:"compilation"`
	Input       string              `json:"input"`
	History     []domain.ActiveSet  `json:"history"`
	View        domain.View         `json:"view"`
}

type SessionList struct {
	Sessions []string `json:"sessions"`
}

type ShareResponse struct {
	Token string `json:"token"`
	URL   string `json:"url,omitempty"`
}

type ErrorResponse struct {
	Error string           `json:"error"`
	Kind  domain.ErrorKind `json:"kind,omitempty"`
	Pos   *int             `json:"pos,omitempty"`
}

// SessionResult mirrors session.Result on the wire.
type SessionResult = session.Result

// -- Parameters --

// GetGraphParams defines parameters for GetGraph.
type GetGraphParams struct {
	Pattern string  `form:"pattern" json:"pattern"`
	Input   *string `form:"input,omitempty" json:"input,omitempty"`
	Step    *int    `form:"step,omitempty" json:"step,omitempty"`
	Format  *string `form:"format,omitempty" json:"format,omitempty"`
}

// SubscribeEventsParams defines parameters for SubscribeEvents.
type SubscribeEventsParams struct {
	SessionId *string `form:"session_id,omitempty" json:"session_id,omitempty"`
	Watch     *string `form:"watch,omitempty" json:"watch,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /compile)
	Compile(w http.ResponseWriter, r *http.Request)
	// (POST /simulate)
	Simulate(w http.ResponseWriter, r *http.Request)
	// (GET /graph)
	GetGraph(w http.ResponseWriter, r *http.Request, params GetGraphParams)
	// (POST /share)
	CreateShare(w http.ResponseWriter, r *http.Request)
	// (GET /share/{token})
	GetShare(w http.ResponseWriter, r *http.Request, token string)
	// (GET /sessions)
	ListSessions(w http.ResponseWriter, r *http.Request)
	// (POST /sessions)
	CreateSession(w http.ResponseWriter, r *http.Request)
	// (GET /sessions/{id})
	GetSession(w http.ResponseWriter, r *http.Request, id string)
	// (DELETE /sessions/{id})
	DeleteSession(w http.ResponseWriter, r *http.Request, id string)
	// (POST /sessions/{id}/forward)
	ForwardSession(w http.ResponseWriter, r *http.Request, id string)
	// (POST /sessions/{id}/backward)
	BackwardSession(w http.ResponseWriter, r *http.Request, id string)
	// (POST /sessions/{id}/reset)
	ResetSession(w http.ResponseWriter, r *http.Request, id string)
	// (POST /sessions/{id}/seek)
	SeekSession(w http.ResponseWriter, r *http.Request, id string)
	// (PUT /sessions/{id}/pattern)
	SetSessionPattern(w http.ResponseWriter, r *http.Request, id string)
	// (PUT /sessions/{id}/input)
	SetSessionInput(w http.ResponseWriter, r *http.Request, id string)
	// (GET /events)
	SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams)
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /info)
	GetInfo(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError is reported when a parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// serverInterfaceWrapper binds parameters before calling the handlers.
type serverInterfaceWrapper struct {
	handler      ServerInterface
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *serverInterfaceWrapper) GetGraph(w http.ResponseWriter, r *http.Request) {
	var params GetGraphParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "pattern", query, &params.Pattern); err != nil {
		siw.errorHandler(w, r, &InvalidParamFormatError{ParamName: "pattern", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "input", query, &params.Input); err != nil {
		siw.errorHandler(w, r, &InvalidParamFormatError{ParamName: "input", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "step", query, &params.Step); err != nil {
		siw.errorHandler(w, r, &InvalidParamFormatError{ParamName: "step", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "format", query, &params.Format); err != nil {
		siw.errorHandler(w, r, &InvalidParamFormatError{ParamName: "format", Err: err})
		return
	}

	siw.handler.GetGraph(w, r, params)
}

func (siw *serverInterfaceWrapper) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	var params SubscribeEventsParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "session_id", query, &params.SessionId); err != nil {
		siw.errorHandler(w, r, &InvalidParamFormatError{ParamName: "session_id", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "watch", query, &params.Watch); err != nil {
		siw.errorHandler(w, r, &InvalidParamFormatError{ParamName: "watch", Err: err})
		return
	}

	siw.handler.SubscribeEvents(w, r, params)
}

// withPathParam binds one simple-style path parameter.
func (siw *serverInterfaceWrapper) withPathParam(name string, next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var value string
		err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			siw.errorHandler(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
			return
		}
		next(w, r, value)
	}
}

// HandlerFromMux registers every API route on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	siw := &serverInterfaceWrapper{
		handler: si,
		errorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		},
	}

	r.Post("/compile", si.Compile)
	r.Post("/simulate", si.Simulate)
	r.Get("/graph", siw.GetGraph)
	r.Post("/share", si.CreateShare)
	r.Get("/share/{token}", siw.withPathParam("token", si.GetShare))

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", si.ListSessions)
		r.Post("/", si.CreateSession)
		r.Get("/{id}", siw.withPathParam("id", si.GetSession))
		r.Delete("/{id}", siw.withPathParam("id", si.DeleteSession))
		r.Post("/{id}/forward", siw.withPathParam("id", si.ForwardSession))
		r.Post("/{id}/backward", siw.withPathParam("id", si.BackwardSession))
		r.Post("/{id}/reset", siw.withPathParam("id", si.ResetSession))
		r.Post("/{id}/seek", siw.withPathParam("id", si.SeekSession))
		r.Put("/{id}/pattern", siw.withPathParam("id", si.SetSessionPattern))
		r.Put("/{id}/input", siw.withPathParam("id", si.SetSessionInput))
	})

	r.Get("/events", siw.SubscribeEvents)
	r.Get("/health", si.GetHealth)
	r.Get("/info", si.GetInfo)
	return r
}
