//go:generate go run go.uber.org/mock/mockgen -source=client.go -destination=../mocks/mock_chat_client.go -package=mocks
package llm

import "context"

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClient is any OpenAI-compatible chat-completion provider.
// Complete returns the content of the first choice; nil means the
// provider answered with a null content.
type ChatClient interface {
	Ping(ctx context.Context) error
	Complete(ctx context.Context, model string, messages []Message) (*string, error)
}
