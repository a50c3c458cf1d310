package greeting

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/lo"
)

// ErrBusy is returned when a submission is attempted while another one is in flight.
var ErrBusy = errors.New("greeting: generation already in progress")

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindTimeout
	KindHTTPStatus
	KindNoResponse
	KindTransport
	KindMalformedContent
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTimeout:
		return "timeout"
	case KindHTTPStatus:
		return "http_status"
	case KindNoResponse:
		return "no_response"
	case KindTransport:
		return "transport"
	case KindMalformedContent:
		return "malformed_content"
	default:
		return "unknown"
	}
}

// Error is the classified outcome of a failed submission.
// StatusCode, Status and ServerMessage are only set for KindHTTPStatus;
// TooLong refines KindValidation.
type Error struct {
	Kind          Kind
	StatusCode    int
	Status        string
	ServerMessage string
	TooLong       bool
	Err           error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("greeting: %s %d: %v", e.Kind, e.StatusCode, e.Err)
	}
	if e.Err == nil {
		return "greeting: " + e.Kind.String()
	}
	return fmt.Sprintf("greeting: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Outcome is the metrics label of the error ("http_429", "timeout", ...).
func (e *Error) Outcome() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("http_%d", e.StatusCode)
	}
	return e.Kind.String()
}

const (
	MsgValidation       = "温馨提示：请输入您的身份和拜年对象"
	MsgTooLong          = "温馨提示：身份和拜年对象不能超过64个字"
	MsgTimeout          = "请求超时，请检查网络连接后重试"
	MsgUnauthorized     = "API密钥无效，请联系管理员"
	MsgRateLimited      = "请求过于频繁，请稍后再试"
	MsgUnavailable      = "AI服务暂时不可用，请稍后重试"
	MsgStatusPrefix     = "生成文案失败："
	MsgStatusFallback   = "未知错误"
	MsgNoResponse       = "网络连接失败，请检查网络设置后重试"
	MsgTransport        = "生成文案失败，请稍后重试"
	MsgMalformedContent = "文案内容格式不正确，请稍后重试"
	MsgUnknown          = "生成文案时发生未知错误，请稍后重试"

	MsgCopied = "文案已复制到剪切板！"
)

// Message maps a classified error to the text shown to the user.
func Message(e *Error) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindValidation:
		if e.TooLong {
			return MsgTooLong
		}
		return MsgValidation
	case KindTimeout:
		return MsgTimeout
	case KindHTTPStatus:
		switch e.StatusCode {
		case http.StatusUnauthorized:
			return MsgUnauthorized
		case http.StatusTooManyRequests:
			return MsgRateLimited
		case http.StatusInternalServerError:
			return MsgUnavailable
		}
		detail, _ := lo.Coalesce(e.ServerMessage, e.Status, MsgStatusFallback)
		return MsgStatusPrefix + detail
	case KindNoResponse:
		return MsgNoResponse
	case KindTransport:
		return MsgTransport
	case KindMalformedContent:
		return MsgMalformedContent
	default:
		return MsgUnknown
	}
}
