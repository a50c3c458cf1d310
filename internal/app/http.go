package app

import (
    "context"
    "errors"
    "net"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/go-chi/httprate"

    "github.com/ccastromar/greetgen/internal/health"
    "github.com/ccastromar/greetgen/internal/logx"
    "github.com/ccastromar/greetgen/internal/metrics"
    "github.com/ccastromar/greetgen/internal/runtime"
    "github.com/ccastromar/greetgen/internal/ui"
)

type HTTPServer struct {
    srv *http.Server
}

// httpPort overrides the PORT env var when set (the -port flag).
var httpPort = ""

// SetHTTPPort allows overriding the configured HTTP port before starting the app.
func SetHTTPPort(p string) {
    if p == "" {
        return
    }
    httpPort = p
}

// NewRouter wires every route; rateLimit is the per-IP budget for /api per minute.
func NewRouter(store *ui.Store, rt *runtime.Runtime, rateLimit int) http.Handler {
    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(middleware.Recoverer)
    r.Use(secureMiddleware)
    r.Use(metricsMiddleware)

    r.Get("/", store.HandleIndex)
    r.Route("/api", func(api chi.Router) {
        if rateLimit > 0 {
            api.Use(httprate.Limit(rateLimit, time.Minute,
                httprate.WithKeyFuncs(httprate.KeyByIP),
                httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
                    w.Header().Set("Content-Type", "application/json; charset=utf-8")
                    w.WriteHeader(http.StatusTooManyRequests)
                    _, _ = w.Write([]byte(`{"error":"请求过于频繁，请稍后再试"}`))
                }),
            ))
        }
        api.Post("/generate", store.HandleGenerate)
        api.Post("/copy", store.HandleCopy)
    })
    r.Get("/health/live", health.LiveHandler(rt))
    r.Get("/health/ready", health.ReadyHandler(rt))
    r.Get("/metrics", metrics.ServeHTTP)

    return r
}

func NewHTTPServer(addr string, handler http.Handler, writeTimeout time.Duration) *HTTPServer {
    return &HTTPServer{
        srv: &http.Server{
            Addr:              addr,
            Handler:           handler,
            ReadHeaderTimeout: 5 * time.Second,
            ReadTimeout:       10 * time.Second,
            WriteTimeout:      writeTimeout,
            IdleTimeout:       60 * time.Second,
            MaxHeaderBytes:    1 << 20, // 1MB
        },
    }
}

func (h *HTTPServer) Start(ctx context.Context) error {
    ln, err := net.Listen("tcp", h.srv.Addr)
    if err != nil {
        return err
    }
    return h.Serve(ctx, ln)
}

// Serve runs the server on ln until ctx is done.
func (h *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
    errCh := make(chan error, 1)

    go func() {
        logx.Info("HTTP", "listening on %s", ln.Addr())
        errCh <- h.srv.Serve(ln)
    }()

    select {
    case err := <-errCh:
        if errors.Is(err, http.ErrServerClosed) {
            return nil
        }
        return err
    case <-ctx.Done():
        logx.Info("HTTP", "shutting down server...")
        shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        return h.srv.Shutdown(shutCtx)
    }
}

// secureMiddleware adds basic hardening to HTTP server:
// - Common security headers
// - Body size limit
// - Block TRACE method
func secureMiddleware(next http.Handler) http.Handler {
    const maxBody = 64 << 10 // 64KB, form payloads are tiny
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        // Block TRACE to avoid request smuggling tricks
        if r.Method == http.MethodTrace {
            w.WriteHeader(http.StatusMethodNotAllowed)
            return
        }

        // Limit body size early
        if r.Body != nil {
            r.Body = http.MaxBytesReader(w, r.Body, maxBody)
        }

        // Security headers
        w.Header().Set("X-Content-Type-Options", "nosniff")
        w.Header().Set("X-Frame-Options", "DENY")
        w.Header().Set("Referrer-Policy", "no-referrer")
        // Modern browsers ignore X-XSS-Protection; set to 0 to disable legacy filter quirks
        w.Header().Set("X-XSS-Protection", "0")
        // the page is a single inline document
        w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'")
        // HSTS only when TLS is enabled
        if r.TLS != nil {
            w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
        }

        next.ServeHTTP(w, r)
    })
}

// metricsMiddleware counts requests by route pattern so ids never become labels.
func metricsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
        next.ServeHTTP(ww, r)

        path := r.URL.Path
        if rctx := chi.RouteContext(r.Context()); rctx != nil {
            if p := rctx.RoutePattern(); p != "" {
                path = p
            }
        }
        status := ww.Status()
        if status == 0 {
            status = http.StatusOK
        }
        lbls := map[string]string{"method": r.Method, "path": path, "status": strconv.Itoa(status)}
        metrics.HTTPRequests.Inc(lbls)
        metrics.HTTPDuration.Observe(lbls, time.Since(start).Seconds())
    })
}
