package transport

import "context"

type (
	contextKey string
)

const (
	ContextRequestIDKey contextKey = "requestID"
)

// WithRequestID pins the request id sent with every attempt of calls made with ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextRequestIDKey, requestID)
}

func getRequestID(ctx context.Context) string {
	if v := ctx.Value(ContextRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
