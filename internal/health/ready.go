package health

import (
	"net/http"

	"github.com/ccastromar/greetgen/internal/logx"
	"github.com/ccastromar/greetgen/internal/runtime"
)

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ReadyHandler reports ready when the prompt is loaded and the LLM answers a ping.
// The LLM is not pinged when the prompt is missing.
func ReadyHandler(rt *runtime.Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := readiness{Status: "ready", Checks: map[string]string{"prompt": "ok", "llm": "ok"}}

		if !rt.PromptLoaded {
			res.Status = "not_ready"
			res.Checks["prompt"] = "not loaded"
			res.Checks["llm"] = "skipped"
			writeStatus(w, http.StatusServiceUnavailable, res)
			return
		}

		if err := rt.LLMClient.Ping(r.Context()); err != nil {
			logx.Warn("HTTP", "readiness: llm unreachable: %v", err)
			res.Status = "not_ready"
			res.Checks["llm"] = "unreachable"
			writeStatus(w, http.StatusServiceUnavailable, res)
			return
		}

		writeStatus(w, http.StatusOK, res)
	}
}
