package metrics

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/stretchr/testify/require"
)

func TestMakeKey_SortedAndEscaped(t *testing.T) {
    k := makeKey(map[string]string{"b": "2", "a": `x"y`})
    require.Equal(t, labelsKey(`a="x\"y",b="2"`), k)
    require.Equal(t, labelsKey(""), makeKey(nil))
}

func TestCounterVec_IncAndValue(t *testing.T) {
    cv := NewCounterVec("test_total", "help", "outcome")
    cv.Inc(map[string]string{"outcome": "ok"})
    cv.Inc(map[string]string{"outcome": "ok"})
    cv.Inc(map[string]string{"outcome": "timeout"})

    require.Equal(t, 2.0, cv.Value(map[string]string{"outcome": "ok"}))
    require.Equal(t, 1.0, cv.Value(map[string]string{"outcome": "timeout"}))
    require.Equal(t, 0.0, cv.Value(map[string]string{"outcome": "never"}))
}

func TestServeHTTP_ExportsGenerations(t *testing.T) {
    Generations.Inc(map[string]string{"outcome": "http_401"})
    LLMChatDur.Observe(map[string]string{"outcome": "ok"}, 0.25)

    rr := httptest.NewRecorder()
    ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

    require.Equal(t, http.StatusOK, rr.Code)
    require.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
    body := rr.Body.String()
    require.Contains(t, body, "# TYPE greetgen_generations_total counter")
    require.Contains(t, body, `greetgen_generations_total{outcome="http_401"}`)
    require.Contains(t, body, `greetgen_llm_chat_seconds_count{outcome="ok"}`)
}

func TestCounterVec_DropsUndeclaredLabels(t *testing.T) {
    cv := &CounterVec{newSeries("drop_total", "help", []string{"outcome"})}
    cv.Inc(map[string]string{"outcome": "ok", "page": "abc"})
    require.Equal(t, 1.0, cv.Value(map[string]string{"outcome": "ok"}))
}

func TestGauge_AddAndExport(t *testing.T) {
    g := &Gauge{newSeries("pages", "help", nil)}
    g.Add(2)
    g.Add(-1)
    require.Equal(t, 1.0, g.Value())

    var b strings.Builder
    g.write(&b)
    require.Equal(t, "# HELP pages help\n# TYPE pages gauge\npages 1\n", b.String())
}

func TestSummaryVec_SortedOutput(t *testing.T) {
    sv := &SummaryVec{sum: newSeries("lat", "help", []string{"outcome"}), count: newSeries("lat", "help", []string{"outcome"})}
    sv.Observe(map[string]string{"outcome": "timeout"}, 1)
    sv.Observe(map[string]string{"outcome": "ok"}, 0.5)
    sv.Observe(map[string]string{"outcome": "ok"}, 0.5)
    require.Equal(t, 2.0, sv.Count(map[string]string{"outcome": "ok"}))

    var b strings.Builder
    sv.write(&b)
    out := b.String()
    require.Less(t, strings.Index(out, `outcome="ok"`), strings.Index(out, `outcome="timeout"`))
    require.Contains(t, out, `lat_sum{outcome="ok"} 1`)
    require.Contains(t, out, `lat_count{outcome="ok"} 2`)
}

func TestRegister_DuplicatePanics(t *testing.T) {
    require.Panics(t, func() { NewCounterVec("greetgen_generations_total", "dup") })
}
