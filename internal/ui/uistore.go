package ui

import (
    "embed"
    "encoding/json"
    "errors"
    "html/template"
    "net"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/patrickmn/go-cache"

    "github.com/ccastromar/greetgen/internal/clipboard"
    "github.com/ccastromar/greetgen/internal/greeting"
    "github.com/ccastromar/greetgen/internal/logx"
    "github.com/ccastromar/greetgen/internal/metrics"
)

//go:embed templates/*
var templateFS embed.FS

var indexTpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
    msgPageExpired = "页面已过期，请刷新后重试"
    msgBusy        = "正在生成中，请稍候"
    msgBadRequest  = "请求格式不正确"
)

// Store keeps one greeting.Form per rendered page. A reload renders a new
// page id, so no state survives it; idle pages expire after the TTL.
type Store struct {
    pages     *cache.Cache
    greeter   greeting.Greeter
    clipboard clipboard.Writer
}

func NewStore(g greeting.Greeter, cb clipboard.Writer, ttl time.Duration) *Store {
    if ttl <= 0 {
        ttl = 30 * time.Minute
    }
    pages := cache.New(ttl, ttl/2)
    pages.OnEvicted(func(id string, _ any) {
        metrics.PagesActive.Add(-1)
        logx.Debug("UI", "page expired id=%s", id)
    })
    return &Store{
        pages:     pages,
        greeter:   g,
        clipboard: cb,
    }
}

// NewPage registers a fresh form and returns its id.
func (s *Store) NewPage() string {
    id := uuid.NewString()
    s.pages.SetDefault(id, greeting.NewForm(s.greeter))
    metrics.PagesActive.Add(1)
    return id
}

// Form returns the form of a live page and refreshes its expiry.
func (s *Store) Form(id string) (*greeting.Form, bool) {
    v, ok := s.pages.Get(id)
    if !ok {
        return nil, false
    }
    f := v.(*greeting.Form)
    s.pages.SetDefault(id, f)
    return f, true
}

func (s *Store) Pages() int {
    return s.pages.ItemCount()
}

type indexData struct {
    PageID   string
    MaxRunes int
}

// HandleIndex renderiza el formulario con un id de página nuevo.
func (s *Store) HandleIndex(w http.ResponseWriter, r *http.Request) {
    id := s.NewPage()
    logx.Debug("UI", "new page id=%s", id)

    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.Header().Set("Cache-Control", "no-store")
    if err := indexTpl.Execute(w, indexData{PageID: id, MaxRunes: greeting.MaxInputRunes}); err != nil {
        logx.Error("UI", "rendering index: %v", err)
        http.Error(w, err.Error(), http.StatusInternalServerError)
    }
}

type generateRequest struct {
    Page      string `json:"page"`
    Self      string `json:"self"`
    Recipient string `json:"recipient"`
}

type copyRequest struct {
    Page string `json:"page"`
}

// copyResponse: Copied means the server wrote the clipboard; otherwise Text,
// when set, is what the browser must copy itself.
type copyResponse struct {
    Copied  bool   `json:"copied"`
    Message string `json:"message,omitempty"`
    Text    string `json:"text,omitempty"`
}

// HandleGenerate runs one submission for a page. Validation and generation
// failures are part of the returned view, not of the status code.
func (s *Store) HandleGenerate(w http.ResponseWriter, r *http.Request) {
    var req generateRequest
    if !decodeJSON(w, r, &req) {
        return
    }
    f, ok := s.Form(req.Page)
    if !ok {
        writeJSON(w, http.StatusGone, map[string]string{"error": msgPageExpired})
        return
    }

    view, err := f.Submit(r.Context(), req.Self, req.Recipient)
    if errors.Is(err, greeting.ErrBusy) {
        writeJSON(w, http.StatusConflict, map[string]any{"error": msgBusy, "loading": true})
        return
    }
    writeJSON(w, http.StatusOK, view)
}

// HandleCopy copia el saludo actual de la página al portapapeles.
// The host clipboard is only the user's clipboard when the browser runs on
// the same machine, so remote requests always get the text back instead.
func (s *Store) HandleCopy(w http.ResponseWriter, r *http.Request) {
    var req copyRequest
    if !decodeJSON(w, r, &req) {
        return
    }
    f, ok := s.Form(req.Page)
    if !ok {
        writeJSON(w, http.StatusGone, map[string]string{"error": msgPageExpired})
        return
    }

    text := f.Snapshot().Greeting
    if text != "" && !isLoopback(r) {
        metrics.Copies.Inc(map[string]string{"outcome": "browser"})
        writeJSON(w, http.StatusOK, copyResponse{Text: text})
        return
    }

    resp := copyResponse{Copied: f.Copy(s.clipboard)}
    if resp.Copied {
        resp.Message = greeting.MsgCopied
    } else {
        resp.Text = text
    }
    writeJSON(w, http.StatusOK, resp)
}

// isLoopback reports whether the client address (after middleware.RealIP) is local.
func isLoopback(r *http.Request) bool {
    host, _, err := net.SplitHostPort(r.RemoteAddr)
    if err != nil {
        host = r.RemoteAddr
    }
    ip := net.ParseIP(host)
    return ip != nil && ip.IsLoopback()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
    ct := r.Header.Get("Content-Type")
    if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
        writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": msgBadRequest})
        return false
    }
    if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
        status := http.StatusBadRequest
        var mbe *http.MaxBytesError
        if errors.As(err, &mbe) {
            status = http.StatusRequestEntityTooLarge
        }
        writeJSON(w, status, map[string]string{"error": msgBadRequest})
        return false
    }
    return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json; charset=utf-8")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}
