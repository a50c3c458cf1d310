package health

import (
	"encoding/json"
	"net/http"

	"github.com/ccastromar/greetgen/internal/runtime"
)

// LiveHandler answers as long as the process serves HTTP.
func LiveHandler(rt *runtime.Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": rt.Version,
			"uptime":  rt.Uptime().String(),
		})
	}
}

func writeStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
