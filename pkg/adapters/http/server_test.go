package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nfalab"
	"github.com/aretw0/nfalab/pkg/adapters/memory"
	"github.com/aretw0/nfalab/pkg/domain"
	"github.com/aretw0/nfalab/pkg/observability"
	"github.com/aretw0/nfalab/pkg/session"
)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	engine := nfalab.New()
	svc := session.NewService(engine, session.NewManager(memory.NewStore()))
	return NewHandler(engine, svc, opts...)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCompile(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/compile", PatternRequest{Pattern: "a(b|c)*d"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[CompileResponse](t, w)
	assert.Equal(t, "abc|*·d·", resp.Postfix)
	assert.Equal(t, "a·(b|c)*·d", resp.Infix)
	assert.Equal(t, 0, resp.NFA.Start)
	assert.Equal(t, len(resp.NFA.States), resp.Stats.States)
	assert.Equal(t, []string{"a", "b", "c", "d"}, resp.Stats.Alphabet)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		pattern string
		kind    domain.ErrorKind
		pos     *int
	}{
		{"(a|", domain.KindUnmatchedParenthesis, ptr(0)},
		{"*a", domain.KindInvalidExpressionStart, ptr(0)},
		{`a\`, domain.KindUnterminatedEscape, ptr(1)},
		{"()", domain.KindMalformedPostfix, nil},
		{strings.Repeat("a", 101), domain.KindPatternTooLong, ptr(100)},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/compile", PatternRequest{Pattern: tt.pattern})
			require.Equal(t, http.StatusBadRequest, w.Code)

			resp := decode[ErrorResponse](t, w)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, tt.pos, resp.Pos)
			assert.NotEmpty(t, resp.Error)
		})
	}

	w := do(t, h, http.MethodPost, "/compile", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimulate(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/simulate", SimulateRequest{Pattern: "ab", Input: "ab"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[SimulateResponse](t, w)
	assert.Len(t, resp.History, 3)
	assert.Equal(t, 2, resp.View.Index)
	assert.True(t, resp.View.Accepted)
	assert.Equal(t, "ab·", resp.Compilation.Postfix)

	w = do(t, h, http.MethodPost, "/simulate", SimulateRequest{Pattern: "ab", Input: "ab", Index: ptr(1)})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[SimulateResponse](t, w)
	assert.Equal(t, 1, resp.View.Index)
	assert.False(t, resp.View.Accepted)
	assert.Equal(t, domain.ActiveSet{1, 2}, resp.View.ActiveIDs)

	t.Setenv("NFALAB_MAX_INPUT_SIZE", "3")
	w = do(t, h, http.MethodPost, "/simulate", SimulateRequest{Pattern: "a*", Input: "aaaa"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid input")
}

func TestGetGraph(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodGet, "/graph?pattern=ab", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph LR"))
	assert.NotContains(t, w.Body.String(), "classDef")

	w = do(t, h, http.MethodGet, "/graph?pattern=ab&input=ab&step=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "class s1 active;")
	assert.Contains(t, w.Body.String(), "class s2 active;")

	w = do(t, h, http.MethodGet, "/graph?pattern=ab&format=dot", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "graphviz")
	assert.True(t, strings.HasPrefix(w.Body.String(), "digraph nfa {"))

	w = do(t, h, http.MethodGet, "/graph?pattern=ab&format=svg", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/graph?pattern=ab&step=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "step")

	w = do(t, h, http.MethodGet, "/graph", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShare(t *testing.T) {
	h := newTestHandler(t, WithShareBaseURL("https://nfa.test/"))

	w := do(t, h, http.MethodPost, "/share", map[string]string{"pattern": "a*", "input": "aa"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[ShareResponse](t, w)
	assert.Equal(t, "YSoAYWE", resp.Token)
	assert.Equal(t, "https://nfa.test/?regex=YSoAYWE", resp.URL)

	w = do(t, h, http.MethodGet, "/share/"+resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pattern":"a*","input":"aa"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/share/!!!", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/share", map[string]string{"pattern": "(a"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/share", map[string]string{"pattern": "a\x00b", "input": "ab"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NUL")
}

func TestSessions_Lifecycle(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{ID: "s1", Pattern: "a+", Input: "aa"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/sessions/s1/forward", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[SessionResult](t, w)
	assert.Equal(t, 1, res.View.Index)
	assert.False(t, res.View.Accepted, "a+ needs the whole input")

	w = do(t, h, http.MethodPost, "/sessions/s1/seek", SeekRequest{Index: 99})
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[SessionResult](t, w)
	assert.Equal(t, 2, res.View.Index)
	assert.True(t, res.View.Accepted)

	w = do(t, h, http.MethodPost, "/sessions/s1/backward", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[SessionResult](t, w).Session.Index)

	w = do(t, h, http.MethodPut, "/sessions/s1/pattern", PatternRequest{Pattern: "(a"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/sessions/s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[SessionResult](t, w)
	assert.Equal(t, "a+", res.Session.Pattern, "failed recompilation keeps the session")
	assert.Equal(t, 1, res.Session.Index)

	w = do(t, h, http.MethodPut, "/sessions/s1/input", InputRequest{Input: "aaa"})
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[SessionResult](t, w)
	assert.Equal(t, 0, res.View.Index)
	assert.Equal(t, 3, res.View.Length)

	w = do(t, h, http.MethodPost, "/sessions/s1/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sessions":["s1"]}`, w.Body.String())

	w = do(t, h, http.MethodDelete, "/sessions/s1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodPost, "/sessions/s1/forward", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/sessions", nil)
	assert.JSONEq(t, `{"sessions":[]}`, w.Body.String())
}

func TestMetaEndpoints(t *testing.T) {
	metrics := observability.NewMetrics()
	h := newTestHandler(t, WithMetricsHandler(metrics.Handler()))

	w := do(t, h, http.MethodGet, "/health", nil)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/info", nil)
	info := decode[map[string]string](t, w)
	assert.Equal(t, "nfalab-http", info["app"])
	assert.Equal(t, nfalab.Version, info["version"])
	assert.Equal(t, "0.1.0", info["api_version"])

	w = do(t, h, http.MethodGet, "/openapi.yaml", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodOptions, "/compile", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetSwagger_Valid(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	assert.NotNil(t, doc.Paths.Find("/sessions/{id}/forward"))
}

// readEvent returns the next "data:" payload or "event:" line from an SSE stream.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
}

func TestSubscribeEvents_Session(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?session_id=s1&watch=index", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	stream := bufio.NewReader(resp.Body)
	assert.Equal(t, "event: ping", readEvent(t, stream))
	assert.Equal(t, "data: connected", readEvent(t, stream))

	post := func(path string, body any) {
		data, _ := json.Marshal(body)
		r, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(data))
		require.NoError(t, err)
		r.Body.Close()
	}

	// Another session's diff is not delivered on this stream.
	post("/sessions", CreateSessionRequest{ID: "other", Pattern: "a", Input: "a"})
	post("/sessions", CreateSessionRequest{ID: "s1", Pattern: "ab", Input: "ab"})
	post("/sessions/s1/forward", nil)

	first := readEvent(t, stream)
	require.True(t, strings.HasPrefix(first, "data: "), first)
	assert.Contains(t, first, `"session_id":"s1"`)
	assert.Contains(t, first, `"index":0`)

	second := readEvent(t, stream)
	assert.Contains(t, second, `"index":1`)
	assert.Contains(t, second, `"fired_transitions":[0,2]`)
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager()

	one, cancelOne := sm.Subscribe("s1")
	all, cancelAll := sm.Subscribe(AllSessions)
	assert.Equal(t, 1, sm.Subscribers("s1"))

	idx := 3
	sm.Listener()(context.Background(), &domain.StepDiff{SessionID: "s1", Index: &idx})
	assert.JSONEq(t, `{"session_id":"s1","index":3}`, <-one)
	assert.JSONEq(t, `{"session_id":"s1","index":3}`, <-all)

	sm.Broadcast("s2", "x")
	assert.Equal(t, "x", <-all)
	assert.Len(t, one, 0)

	cancelOne()
	cancelOne()
	cancelAll()
	assert.Equal(t, 0, sm.Subscribers("s1"))
	_, open := <-one
	assert.False(t, open)
}

func TestMatchesWatch(t *testing.T) {
	msg := `{"session_id":"s1","accepted":true}`
	assert.True(t, matchesWatch(msg, []string{"accepted"}))
	assert.True(t, matchesWatch(msg, []string{"index", " accepted "}))
	assert.False(t, matchesWatch(msg, []string{"index", "active"}))
	assert.True(t, matchesWatch("not json", []string{"index"}))
}
