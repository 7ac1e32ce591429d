package observability

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nfalab"
	"github.com/aretw0/nfalab/pkg/domain"
)

func TestMetrics_RecordsEngineEvents(t *testing.T) {
	m := NewMetrics()
	eng := nfalab.New(nfalab.WithLifecycleHooks(m.Hooks()))
	ctx := context.Background()

	_, err := eng.Simulate(ctx, "a*", "aa")
	require.NoError(t, err)
	_, err = eng.Simulate(ctx, "a", "b")
	require.NoError(t, err)
	_, err = eng.Compile(ctx, "(a")
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.compilations.WithLabelValues("ok", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compilations.WithLabelValues("error", string(domain.KindUnmatchedParenthesis))))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.steps.WithLabelValues(string(domain.DirectionForward))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verdicts.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verdicts.WithLabelValues("rejected")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.automatonStates))
	assert.Equal(t, uint64(2), histogramCount(t, m, "nfalab_automaton_states"))
}

func histogramCount(t *testing.T, m *Metrics, name string) uint64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			require.Len(t, f.GetMetric(), 1)
			return f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.Hooks().OnCompile(context.Background(), &domain.CompileEvent{States: 4})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `nfalab_compilations_total{kind="",result="ok"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	hooks := domain.ChainHooks(LogHooks(logger), domain.LifecycleHooks{})

	eng := nfalab.New(nfalab.WithLifecycleHooks(hooks))
	_, err := eng.Simulate(context.Background(), "ab", "ab")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=compile")
	assert.Contains(t, out, `postfix=ab·`)
	assert.Contains(t, out, "msg=step")
	assert.Contains(t, out, "accepted=true")
}
