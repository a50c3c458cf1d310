package metrics

import (
    "fmt"
    "io"
    "net/http"
    "sort"
    "strings"
    "sync"
)

// In-process registry exported as Prometheus text. Counters, gauges and
// count/sum summaries, all labeled. Output order is registration order,
// samples sorted by label set.

type labelsKey string

func makeKey(lbls map[string]string) labelsKey {
    if len(lbls) == 0 {
        return labelsKey("")
    }
    keys := make([]string, 0, len(lbls))
    for k := range lbls {
        keys = append(keys, k)
    }
    sort.Strings(keys)
    parts := make([]string, 0, len(keys))
    for _, k := range keys {
        v := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(lbls[k])
        parts = append(parts, fmt.Sprintf(`%s="%s"`, k, v))
    }
    return labelsKey(strings.Join(parts, ","))
}

type collector interface {
    name() string
    write(w io.Writer)
}

var (
    regMu    sync.Mutex
    registry []collector
)

func register(c collector) {
    regMu.Lock()
    defer regMu.Unlock()
    for _, existing := range registry {
        if existing.name() == c.name() {
            panic("metrics: duplicate metric " + c.name())
        }
    }
    registry = append(registry, c)
}

// series is the shared labeled storage of every metric kind.
type series struct {
    Name       string
    Help       string
    labelNames []string

    mu     sync.RWMutex
    values map[labelsKey]float64
}

func newSeries(name, help string, labelNames []string) *series {
    return &series{Name: name, Help: help, labelNames: labelNames, values: make(map[labelsKey]float64)}
}

func (s *series) name() string { return s.Name }

// key drops labels that were not declared so ad-hoc labels never explode cardinality.
func (s *series) key(lbls map[string]string) labelsKey {
    if len(lbls) == 0 || len(s.labelNames) == 0 {
        return makeKey(nil)
    }
    kept := make(map[string]string, len(s.labelNames))
    for _, n := range s.labelNames {
        if v, ok := lbls[n]; ok {
            kept[n] = v
        }
    }
    return makeKey(kept)
}

func (s *series) add(lbls map[string]string, d float64) {
    k := s.key(lbls)
    s.mu.Lock()
    s.values[k] += d
    s.mu.Unlock()
}

func (s *series) value(lbls map[string]string) float64 {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.values[s.key(lbls)]
}

func (s *series) sortedKeys() []labelsKey {
    keys := make([]labelsKey, 0, len(s.values))
    for k := range s.values {
        keys = append(keys, k)
    }
    sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
    return keys
}

func sample(name string, key labelsKey, v float64) string {
    if key == "" {
        return fmt.Sprintf("%s %g\n", name, v)
    }
    return fmt.Sprintf("%s{%s} %g\n", name, key, v)
}

func (s *series) writeAs(w io.Writer, typ string) {
    fmt.Fprintf(w, "# HELP %s %s\n", s.Name, s.Help)
    fmt.Fprintf(w, "# TYPE %s %s\n", s.Name, typ)
    s.mu.RLock()
    defer s.mu.RUnlock()
    for _, k := range s.sortedKeys() {
        io.WriteString(w, sample(s.Name, k, s.values[k]))
    }
}

type CounterVec struct{ *series }

func NewCounterVec(name, help string, labelNames ...string) *CounterVec {
    cv := &CounterVec{newSeries(name, help, labelNames)}
    register(cv)
    return cv
}

func (cv *CounterVec) Inc(lbls map[string]string) { cv.add(lbls, 1) }

// Value returns the current value of a labeled counter sample.
func (cv *CounterVec) Value(lbls map[string]string) float64 { return cv.value(lbls) }

func (cv *CounterVec) write(w io.Writer) { cv.writeAs(w, "counter") }

// Gauge is a single unlabeled value that moves both ways.
type Gauge struct{ *series }

func NewGauge(name, help string) *Gauge {
    g := &Gauge{newSeries(name, help, nil)}
    register(g)
    return g
}

func (g *Gauge) Add(d float64)  { g.add(nil, d) }
func (g *Gauge) Value() float64 { return g.value(nil) }

func (g *Gauge) write(w io.Writer) { g.writeAs(w, "gauge") }

// SummaryVec stores count and sum; exported as name_count and name_sum.
type SummaryVec struct {
    sum   *series
    count *series
}

func NewSummaryVec(name, help string, labelNames ...string) *SummaryVec {
    sv := &SummaryVec{
        sum:   newSeries(name, help, labelNames),
        count: newSeries(name, help, labelNames),
    }
    register(sv)
    return sv
}

func (sv *SummaryVec) name() string { return sv.sum.Name }

func (sv *SummaryVec) Observe(lbls map[string]string, v float64) {
    sv.count.add(lbls, 1)
    sv.sum.add(lbls, v)
}

// Count returns how many observations a label set received.
func (sv *SummaryVec) Count(lbls map[string]string) float64 { return sv.count.value(lbls) }

func (sv *SummaryVec) write(w io.Writer) {
    fmt.Fprintf(w, "# HELP %s %s\n", sv.sum.Name, sv.sum.Help)
    fmt.Fprintf(w, "# TYPE %s summary\n", sv.sum.Name)
    sv.sum.mu.RLock()
    sv.count.mu.RLock()
    defer sv.sum.mu.RUnlock()
    defer sv.count.mu.RUnlock()
    for _, k := range sv.count.sortedKeys() {
        io.WriteString(w, sample(sv.sum.Name+"_sum", k, sv.sum.values[k]))
        io.WriteString(w, sample(sv.sum.Name+"_count", k, sv.count.values[k]))
    }
}

var (
    HTTPRequests = NewCounterVec("greetgen_http_requests_total", "Total HTTP requests", "method", "path", "status")
    HTTPDuration = NewSummaryVec("greetgen_http_request_seconds", "HTTP request duration seconds", "method", "path")

    // outcome=ok|validation|timeout|http_<code>|no_response|transport|malformed_content|unknown
    Generations = NewCounterVec("greetgen_generations_total", "Greeting generations by outcome", "outcome")
    Copies      = NewCounterVec("greetgen_clipboard_copies_total", "Clipboard copies by outcome", "outcome") // ok|empty|error|browser
    PagesActive = NewGauge("greetgen_pages_active", "Pages holding form state")

    LLMPings   = NewCounterVec("greetgen_llm_pings_total", "LLM Ping calls", "outcome")
    LLMChats   = NewCounterVec("greetgen_llm_chats_total", "LLM chat completion calls", "outcome")
    LLMChatDur = NewSummaryVec("greetgen_llm_chat_seconds", "LLM chat completion duration seconds", "outcome")
)

// ServeHTTP exposes all metrics in Prometheus text format.
func ServeHTTP(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/plain; version=0.0.4")
    regMu.Lock()
    cs := append([]collector(nil), registry...)
    regMu.Unlock()
    for _, c := range cs {
        c.write(w)
    }
}
