package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ccastromar/greetgen/internal/metrics"
)

const defaultBaseURL = "https://api.deepseek.com"

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

type OpenAIClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Timeout time.Duration
}

// Compile-time interface conformance
var _ ChatClient = (*OpenAIClient)(nil)

// NewOpenAIClient crea un cliente para cualquier API compatible con OpenAI.
// No retries: every failure is reported to the caller as is.
func NewOpenAIClient(baseURL, apiKey string, timeout time.Duration) *OpenAIClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
		Timeout: timeout,
	}
}

func (c *OpenAIClient) endpoint(path string) (string, error) {
	u, err := url.Parse(strings.TrimRight(c.BaseURL, "/") + path)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q", c.BaseURL)
	}
	return u.String(), nil
}

func (c *OpenAIClient) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: c.Timeout}
}

// Ping
func (c *OpenAIClient) Ping(ctx context.Context) error {
	if c.APIKey == "" {
		return ErrEmptyAPIKey
	}

	to := c.Timeout
	if to <= 0 || to > 5*time.Second {
		to = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, to)
	defer cancel()

	u, err := c.endpoint("/models")
	if err != nil {
		return &TransportError{Kind: TransportSetup, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &TransportError{Kind: TransportSetup, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		metrics.LLMPings.Inc(map[string]string{"outcome": "error"})
		return fmt.Errorf("ping failed: %w", classifyDo(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		metrics.LLMPings.Inc(map[string]string{"outcome": "error"})
		return fmt.Errorf("ping bad status: %w", newStatusError(resp, b))
	}

	metrics.LLMPings.Inc(map[string]string{"outcome": "ok"})
	return nil
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete llama al endpoint /chat/completions en modo no-stream.
func (c *OpenAIClient) Complete(ctx context.Context, model string, messages []Message) (*string, error) {
	if c.APIKey == "" {
		return nil, &TransportError{Kind: TransportSetup, Err: ErrEmptyAPIKey}
	}

	body, err := json.Marshal(chatRequest{Model: model, Messages: messages})
	if err != nil {
		return nil, &TransportError{Kind: TransportSetup, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	u, err := c.endpoint("/chat/completions")
	if err != nil {
		return nil, &TransportError{Kind: TransportSetup, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Kind: TransportSetup, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		te := classifyDo(err)
		observeChat(te.Kind.String(), start)
		return nil, te
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		observeChat("status", start)
		return nil, newStatusError(resp, b)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		te := classifyDo(err)
		if te.Kind == TransportNoResponse {
			// la respuesta llegó; fallo leyendo el cuerpo
			te.Kind = TransportSetup
		}
		observeChat(te.Kind.String(), start)
		return nil, te
	}

	var result chatResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		observeChat("malformed", start)
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(result.Choices) == 0 {
		observeChat("malformed", start)
		return nil, fmt.Errorf("%w: empty choices", ErrMalformedResponse)
	}

	observeChat("ok", start)
	return result.Choices[0].Message.Content, nil
}

func observeChat(outcome string, start time.Time) {
	lbl := map[string]string{"outcome": outcome}
	metrics.LLMChats.Inc(lbl)
	metrics.LLMChatDur.Observe(lbl, time.Since(start).Seconds())
}
