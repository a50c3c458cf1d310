package chatapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, scenario string) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(scenario)
	mux := http.NewServeMux()
	s.RegisterHandlers(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return s, ts
}

func chat(t *testing.T, url string) *http.Response {
	t.Helper()
	body := `{"model":"deepseek-chat","messages":[{"role":"system","content":"sys"},{"role":"user","content":"写一段"}]}`
	resp, err := http.Post(url+"/chat/completions", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestChatCompletions_OK(t *testing.T) {
	s, ts := newTestServer(t, "")
	require.Equal(t, ScenarioOK, s.Scenario())

	resp := chat(t, ts.URL)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Choices []struct {
			Message struct {
				Content *string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Choices, 1)
	require.NotNil(t, out.Choices[0].Message.Content)
	require.Equal(t, "🧧 新春快乐！写一段", *out.Choices[0].Message.Content)

	model, msgs := s.LastRequest()
	require.Equal(t, "deepseek-chat", model)
	require.Equal(t, [][2]string{{"system", "sys"}, {"user", "写一段"}}, msgs)
	require.Equal(t, 1, s.Calls())
}

func TestChatCompletions_NullContent(t *testing.T) {
	_, ts := newTestServer(t, ScenarioNull)
	resp := chat(t, ts.URL)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	msg := raw["choices"].([]any)[0].(map[string]any)["message"].(map[string]any)
	v, present := msg["content"]
	require.True(t, present)
	require.Nil(t, v)
}

func TestChatCompletions_StatusScenarios(t *testing.T) {
	cases := map[string]int{
		Scenario401:    http.StatusUnauthorized,
		Scenario429:    http.StatusTooManyRequests,
		Scenario500:    http.StatusInternalServerError,
		ScenarioTeapot: http.StatusTeapot,
		Scenario502:    http.StatusBadGateway,
	}
	s, ts := newTestServer(t, ScenarioOK)
	for sc, want := range cases {
		require.NoError(t, s.SetScenario(sc))
		resp := chat(t, ts.URL)
		require.Equal(t, want, resp.StatusCode, sc)
	}
}

func TestChatCompletions_MethodAndBody(t *testing.T) {
	_, ts := newTestServer(t, ScenarioOK)

	resp, err := http.Get(ts.URL + "/chat/completions")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/chat/completions", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetScenario_Unknown(t *testing.T) {
	s := NewServer(ScenarioOK)
	require.Error(t, s.SetScenario("teapot"))
	require.Equal(t, ScenarioOK, s.Scenario())
}

func TestModels(t *testing.T) {
	s, ts := newTestServer(t, ScenarioOK)

	resp, err := http.Get(ts.URL + "/models")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.SetScenario(Scenario401))
	resp, err = http.Get(ts.URL + "/models")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSwitchScenarioEndpoint(t *testing.T) {
	s, ts := newTestServer(t, ScenarioOK)

	resp, err := http.Post(ts.URL+"/mock/scenario?name=slow", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, ScenarioSlow, s.Scenario())

	resp, err = http.Post(ts.URL+"/mock/scenario?name=bogus", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/mock/scenario")
	require.NoError(t, err)
	defer resp.Body.Close()
	var out struct {
		Scenario  string   `json:"scenario"`
		Available []string `json:"available"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, ScenarioSlow, out.Scenario)
	require.ElementsMatch(t, Scenarios, out.Available)
}
