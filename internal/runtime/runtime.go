package runtime

import (
	"time"

	"github.com/ccastromar/greetgen/internal/llm"
)

// Runtime holds the facts reported by the health endpoints.
type Runtime struct {
	Version      string
	StartedAt    time.Time
	PromptLoaded bool
	PromptModel  string
	LLMClient    llm.ChatClient
}

func New(version, model string, client llm.ChatClient) *Runtime {
	return &Runtime{
		Version:      version,
		StartedAt:    time.Now(),
		PromptLoaded: model != "",
		PromptModel:  model,
		LLMClient:    client,
	}
}

// Uptime is zero until StartedAt is set.
func (r *Runtime) Uptime() time.Duration {
	if r.StartedAt.IsZero() {
		return 0
	}
	return time.Since(r.StartedAt).Truncate(time.Second)
}
