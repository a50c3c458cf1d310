package health

import (
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
    "go.uber.org/mock/gomock"

    "github.com/ccastromar/greetgen/internal/mocks"
    "github.com/ccastromar/greetgen/internal/runtime"
)

func TestLiveHandler_OK(t *testing.T) {
    rt := &runtime.Runtime{Version: "v9", StartedAt: time.Now().Add(-2 * time.Second)}
    w := httptest.NewRecorder()

    LiveHandler(rt)(w, httptest.NewRequest(http.MethodGet, "/live", nil))

    require.Equal(t, http.StatusOK, w.Code)
    require.Equal(t, "application/json", w.Header().Get("Content-Type"))
    require.Contains(t, w.Body.String(), `"status":"ok"`)
    require.Contains(t, w.Body.String(), `"version":"v9"`)
}

func TestReadyHandler_PromptNotLoaded(t *testing.T) {
    ctrl := gomock.NewController(t)
    client := mocks.NewMockChatClient(ctrl) // Ping must not be called

    rt := &runtime.Runtime{PromptLoaded: false, LLMClient: client}
    w := httptest.NewRecorder()
    ReadyHandler(rt)(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

    require.Equal(t, http.StatusServiceUnavailable, w.Code)
    require.JSONEq(t, `{"status":"not_ready","checks":{"prompt":"not loaded","llm":"skipped"}}`, w.Body.String())
}

func TestReadyHandler_LLMUnreachable(t *testing.T) {
    ctrl := gomock.NewController(t)
    client := mocks.NewMockChatClient(ctrl)
    client.EXPECT().Ping(gomock.Any()).Return(errors.New("down"))

    rt := &runtime.Runtime{PromptLoaded: true, LLMClient: client}
    w := httptest.NewRecorder()
    ReadyHandler(rt)(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

    require.Equal(t, http.StatusServiceUnavailable, w.Code)
    require.JSONEq(t, `{"status":"not_ready","checks":{"prompt":"ok","llm":"unreachable"}}`, w.Body.String())
}

func TestReadyHandler_OK(t *testing.T) {
    ctrl := gomock.NewController(t)
    client := mocks.NewMockChatClient(ctrl)
    client.EXPECT().Ping(gomock.Any()).Return(nil)

    rt := &runtime.Runtime{PromptLoaded: true, LLMClient: client}
    w := httptest.NewRecorder()
    ReadyHandler(rt)(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

    require.Equal(t, http.StatusOK, w.Code)
    require.JSONEq(t, `{"status":"ready","checks":{"prompt":"ok","llm":"ok"}}`, w.Body.String())
}
