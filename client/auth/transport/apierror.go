package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edupath/dashclient/internal/conv"
)

const defaultMessage = "Something went wrong!"

// TokenNotValidCode is the application error code the backend uses for expired or invalid tokens.
const TokenNotValidCode = "token_not_valid"

// APIError is a decoded backend error body. The backend either wraps fields
// as {status, data:{code, message, detail, error}} or returns them flat.
type APIError struct {
	StatusCode  int
	Code        string
	MessageText string
	Detail      string
	ErrorText   string
	Raw         []byte
}

// ParseAPIError decodes body; it never fails, undecodable bodies are kept raw.
func ParseAPIError(statusCode int, body []byte) *APIError {
	ret := &APIError{StatusCode: statusCode, Raw: body}
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return ret
	}
	fields := doc
	if data, ok := doc["data"].(map[string]interface{}); ok {
		fields = data
		if status, ok := conv.AsInt(doc["status"]); ok && ret.StatusCode == 0 {
			ret.StatusCode = status
		}
	}
	ret.Code = firstNonEmpty(conv.AsString(fields["code"]), conv.AsString(doc["code"]))
	ret.MessageText = conv.AsString(fields["message"])
	ret.Detail = conv.AsString(fields["detail"])
	ret.ErrorText = conv.AsString(fields["error"])
	return ret
}

// Message picks message, then detail, then error, then the raw body.
func (e *APIError) Message() string {
	if e == nil {
		return ""
	}
	if msg := firstNonEmpty(e.MessageText, e.Detail, e.ErrorText); msg != "" {
		return msg
	}
	return string(bytes.TrimSpace(e.Raw))
}

func (e *APIError) Error() string {
	msg := e.Message()
	if msg == "" {
		msg = defaultMessage
	}
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
