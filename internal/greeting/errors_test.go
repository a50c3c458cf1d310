package greeting

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccastromar/greetgen/internal/llm"
)

func TestMessage_Nil(t *testing.T) {
	require.Empty(t, Message(nil))
}

func TestMessage_TooLong(t *testing.T) {
	verr := validateInput(strings.Repeat("龙", MaxInputRunes+1), "奶奶")
	require.NotNil(t, verr)
	require.True(t, verr.TooLong)
	require.Equal(t, MsgTooLong, Message(verr))

	// exactly at the limit is fine
	require.Nil(t, validateInput(strings.Repeat("龙", MaxInputRunes), "奶奶"))
	// padding does not count toward the limit
	require.Nil(t, validateInput("  "+strings.Repeat("龙", MaxInputRunes)+"\t ", "奶奶"))
}

func TestValidateInput_BlankWinsOverLong(t *testing.T) {
	verr := validateInput(strings.Repeat("x", MaxInputRunes+1), "   ")
	require.NotNil(t, verr)
	require.False(t, verr.TooLong)
	require.Equal(t, MsgValidation, Message(verr))
}

func TestClassify_WrappedErrors(t *testing.T) {
	se := &llm.StatusError{StatusCode: 429}
	ge := Classify(fmt.Errorf("call: %w", se))
	require.Equal(t, KindHTTPStatus, ge.Kind)
	require.Equal(t, 429, ge.StatusCode)
	require.Equal(t, "http_429", ge.Outcome())
	require.ErrorIs(t, ge, se)

	require.Nil(t, Classify(nil))

	already := &Error{Kind: KindTimeout}
	require.Same(t, already, Classify(fmt.Errorf("x: %w", already)))
}

func TestError_Strings(t *testing.T) {
	require.Equal(t, "greeting: validation", (&Error{Kind: KindValidation}).Error())
	require.Contains(t, (&Error{Kind: KindNoResponse, Err: errors.New("reset")}).Error(), "no_response: reset")
	require.Contains(t, (&Error{Kind: KindHTTPStatus, StatusCode: 401, Err: errors.New("x")}).Error(), "http_status 401")
	require.Equal(t, "timeout", (&Error{Kind: KindTimeout}).Outcome())
	require.Equal(t, "unknown", Kind(99).String())
}
