package greeting

import (
	"errors"

	"github.com/ccastromar/greetgen/internal/llm"
)

// Classify maps any error returned by the generation path to an *Error.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}

	var se *llm.StatusError
	if errors.As(err, &se) {
		return &Error{
			Kind:          KindHTTPStatus,
			StatusCode:    se.StatusCode,
			Status:        se.Status,
			ServerMessage: se.APIMessage,
			Err:           err,
		}
	}

	var te *llm.TransportError
	if errors.As(err, &te) {
		switch te.Kind {
		case llm.TransportTimeout:
			return &Error{Kind: KindTimeout, Err: err}
		case llm.TransportNoResponse:
			return &Error{Kind: KindNoResponse, Err: err}
		default:
			return &Error{Kind: KindTransport, Err: err}
		}
	}

	if errors.Is(err, llm.ErrMalformedResponse) || errors.Is(err, errNullContent) {
		return &Error{Kind: KindMalformedContent, Err: err}
	}

	return &Error{Kind: KindUnknown, Err: err}
}
