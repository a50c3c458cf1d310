// Package chatapi is a fake OpenAI-compatible chat-completion API that can
// reproduce every outcome the greeting generator classifies.
package chatapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ccastromar/greetgen/internal/logx"
)

const (
	ScenarioOK     = "ok"       // 200 with a greeting built from the prompt
	ScenarioNull   = "null"     // 200 with content null
	ScenarioEmpty  = "empty"    // 200 with no choices
	Scenario401    = "401"      // invalid key
	Scenario429    = "429"      // rate limited
	Scenario500    = "500"      // server error
	ScenarioTeapot = "418-body" // other status with an OpenAI style error body
	Scenario502    = "502"      // other status without body
	ScenarioSlow   = "slow"     // never answers before SlowDelay
	ScenarioHangup = "hangup"   // closes the connection without a response
)

var Scenarios = []string{
	ScenarioOK, ScenarioNull, ScenarioEmpty, Scenario401, Scenario429,
	Scenario500, ScenarioTeapot, Scenario502, ScenarioSlow, ScenarioHangup,
}

type Server struct {
	mu        sync.RWMutex
	scenario  string
	calls     int
	lastModel string
	lastMsgs  []message

	SlowDelay time.Duration
}

func NewServer(scenario string) *Server {
	if scenario == "" {
		scenario = ScenarioOK
	}
	return &Server{scenario: scenario, SlowDelay: 2 * time.Minute}
}

func (s *Server) SetScenario(name string) error {
	for _, sc := range Scenarios {
		if sc == name {
			s.mu.Lock()
			s.scenario = name
			s.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("unknown scenario %q", name)
}

func (s *Server) Scenario() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenario
}

// Calls returns how many chat completions were requested.
func (s *Server) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

// LastRequest returns the model and (role, content) pairs of the last completion request.
func (s *Server) LastRequest() (string, [][2]string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([][2]string, 0, len(s.lastMsgs))
	for _, m := range s.lastMsgs {
		out = append(out, [2]string{m.Role, m.Content})
	}
	return s.lastModel, out
}

func (s *Server) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/chat/completions", s.chatCompletions)
	mux.HandleFunc("/models", s.models)
	mux.HandleFunc("/mock/scenario", s.switchScenario)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Server) chatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Model    string    `json:"model"`
		Messages []message `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.mu.Lock()
	s.calls++
	s.lastModel = body.Model
	s.lastMsgs = body.Messages
	scenario := s.scenario
	s.mu.Unlock()

	logx.Info("Mock", "chat completion model=%s scenario=%s", body.Model, scenario)

	switch scenario {
	case ScenarioNull:
		writeJSON(w, http.StatusOK, map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": nil}}},
		})
	case ScenarioEmpty:
		writeJSON(w, http.StatusOK, map[string]any{"choices": []any{}})
	case Scenario401:
		writeError(w, http.StatusUnauthorized, "Authentication Fails (no such user)")
	case Scenario429:
		writeError(w, http.StatusTooManyRequests, "Rate Limit Reached")
	case Scenario500:
		writeError(w, http.StatusInternalServerError, "Server Error")
	case ScenarioTeapot:
		writeError(w, http.StatusTeapot, "I refuse to brew greetings")
	case Scenario502:
		w.WriteHeader(http.StatusBadGateway)
	case ScenarioSlow:
		select {
		case <-time.After(s.SlowDelay):
		case <-r.Context().Done():
		}
	case ScenarioHangup:
		hj, ok := w.(http.Hijacker)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if conn, _, err := hj.Hijack(); err == nil {
			_ = conn.Close()
		}
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"id":    "chatcmpl-mock",
			"model": body.Model,
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": greetingFor(body.Messages)},
			}},
		})
	}
}

func (s *Server) models(w http.ResponseWriter, r *http.Request) {
	if s.Scenario() == Scenario401 {
		writeError(w, http.StatusUnauthorized, "Authentication Fails (no such user)")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"object": "list",
		"data":   []any{map[string]any{"id": "deepseek-chat", "object": "model"}},
	})
}

// POST /mock/scenario?name=429
func (s *Server) switchScenario(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusOK, map[string]any{"scenario": s.Scenario(), "available": Scenarios})
		return
	}
	if err := s.SetScenario(r.URL.Query().Get("name")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenario": s.Scenario()})
}

func greetingFor(msgs []message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			return "🧧 新春快乐！" + strings.TrimSpace(msgs[i].Content)
		}
	}
	return "🧧 新春快乐！"
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"message": msg, "type": "mock_error"},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
