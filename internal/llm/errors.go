package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrEmptyAPIKey       = errors.New("llm: api key is empty")
	ErrMalformedResponse = errors.New("llm: malformed chat completion response")
)

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	// Status is the reason phrase without the numeric code ("Bad Gateway").
	Status     string
	Header     http.Header
	Body       []byte
	APIMessage string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: chat failed: status %d, body: %s", e.StatusCode, string(e.Body))
}

func newStatusError(resp *http.Response, body []byte) *StatusError {
	return &StatusError{
		StatusCode: resp.StatusCode,
		Status:     reasonPhrase(resp),
		Header:     resp.Header.Clone(),
		Body:       body,
		APIMessage: apiMessage(body),
	}
}

func reasonPhrase(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}

// apiMessage extracts error.message, else the top-level message, from an error body.
func apiMessage(body []byte) string {
	var payload struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}
	var nested string
	if payload.Error != nil {
		nested = payload.Error.Message
	}
	msg, _ := lo.Coalesce(strings.TrimSpace(nested), strings.TrimSpace(payload.Message))
	return msg
}

type TransportKind int

const (
	// TransportSetup: the request never left the process (bad URL, canceled, body read failure).
	TransportSetup TransportKind = iota
	// TransportTimeout: the client timeout or the context deadline expired.
	TransportTimeout
	// TransportNoResponse: the request was dispatched but no HTTP response came back.
	TransportNoResponse
)

func (k TransportKind) String() string {
	switch k {
	case TransportTimeout:
		return "timeout"
	case TransportNoResponse:
		return "no_response"
	default:
		return "setup"
	}
}

type TransportError struct {
	Kind TransportKind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm: transport %s: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// classifyDo turns an error from http.Client.Do into a TransportError.
// The three kinds are mutually exclusive: timeouts first, then
// cancellation (setup), then everything else that happened on the wire.
func classifyDo(err error) *TransportError {
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &TransportError{Kind: TransportTimeout, Err: err}
	case errors.As(err, &ne) && ne.Timeout():
		return &TransportError{Kind: TransportTimeout, Err: err}
	case errors.Is(err, context.Canceled):
		return &TransportError{Kind: TransportSetup, Err: err}
	default:
		return &TransportError{Kind: TransportNoResponse, Err: err}
	}
}
