package runtime

import (
    "testing"
    "time"

    "github.com/stretchr/testify/require"
    "go.uber.org/mock/gomock"

    "github.com/ccastromar/greetgen/internal/mocks"
)

func TestNew(t *testing.T) {
    client := mocks.NewMockChatClient(gomock.NewController(t))
    rt := New("v1", "deepseek-chat", client)

    require.True(t, rt.PromptLoaded)
    require.Equal(t, "deepseek-chat", rt.PromptModel)
    require.Equal(t, "v1", rt.Version)
    require.Same(t, client, rt.LLMClient)
    require.WithinDuration(t, time.Now(), rt.StartedAt, time.Second)
}

func TestNew_NoModelMeansPromptNotLoaded(t *testing.T) {
    rt := New("v1", "", nil)
    require.False(t, rt.PromptLoaded)
}

func TestUptime(t *testing.T) {
    require.Zero(t, (&Runtime{}).Uptime())

    rt := &Runtime{StartedAt: time.Now().Add(-90 * time.Second)}
    require.GreaterOrEqual(t, rt.Uptime(), 90*time.Second)
}
