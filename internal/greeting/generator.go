package greeting

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ccastromar/greetgen/internal/config"
	"github.com/ccastromar/greetgen/internal/llm"
	"github.com/ccastromar/greetgen/internal/logx"
	"github.com/ccastromar/greetgen/internal/metrics"
)

var errNullContent = errors.New("greeting: completion content is null")

// Generator runs one chat-completion cycle per call. It never retries.
type Generator struct {
	client llm.ChatClient
	prompt *config.Prompt
}

func NewGenerator(client llm.ChatClient, prompt *config.Prompt) *Generator {
	return &Generator{client: client, prompt: prompt}
}

// Messages builds the system + user payload. Inputs are interpolated as typed;
// trimming only applies to validation.
func (g *Generator) Messages(self, recipient string) ([]llm.Message, error) {
	user, err := g.prompt.RenderUser(config.PromptVars{
		Self:      self,
		Recipient: recipient,
	})
	if err != nil {
		return nil, err
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: g.prompt.System},
		{Role: llm.RoleUser, Content: user},
	}, nil
}

// Generate validates the inputs and asks the model for a greeting.
// Every failure is returned as *Error.
func (g *Generator) Generate(ctx context.Context, self, recipient string) (string, error) {
	if verr := validateInput(self, recipient); verr != nil {
		metrics.Generations.Inc(map[string]string{"outcome": verr.Outcome()})
		return "", verr
	}

	id := uuid.NewString()
	timer := logx.Start(id, "Greeting", "generate")
	defer timer.End()

	text, err := g.generate(ctx, self, recipient)
	if err != nil {
		ge := Classify(err)
		logFailure(id, ge)
		metrics.Generations.Inc(map[string]string{"outcome": ge.Outcome()})
		return "", ge
	}

	logx.Debug("Greeting", "[%s] content: %s", id, text)
	metrics.Generations.Inc(map[string]string{"outcome": "ok"})
	return text, nil
}

func (g *Generator) generate(ctx context.Context, self, recipient string) (string, error) {
	msgs, err := g.Messages(self, recipient)
	if err != nil {
		return "", err
	}
	content, err := g.client.Complete(ctx, g.prompt.Model, msgs)
	if err != nil {
		return "", err
	}
	if content == nil {
		return "", errNullContent
	}
	return *content, nil
}

// logFailure writes the diagnostic details the user never sees.
func logFailure(id string, ge *Error) {
	logx.Error("Greeting", "[%s] error generating greeting: kind=%s err=%v", id, ge.Kind, ge.Err)

	var se *llm.StatusError
	if errors.As(ge.Err, &se) {
		logx.Error("Greeting", "[%s] API error details: status=%d statusText=%q headers=%v body=%s",
			id, se.StatusCode, se.Status, se.Header, string(se.Body))
		return
	}
	var te *llm.TransportError
	if errors.As(ge.Err, &te) && te.Kind == llm.TransportNoResponse {
		logx.Error("Greeting", "[%s] no response received: %v", id, te.Err)
	}
}
