package internal

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// WithRequestID stores id in the context, generating a uuid when id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestContext keeps the caller's X-Request-Id when present and echoes the id in the response.
func requestContext(w http.ResponseWriter, r *http.Request) (context.Context, string) {
	ctx := WithRequestID(r.Context(), r.Header.Get(requestIDHeader))
	id := GetRequestID(ctx)
	w.Header().Set(requestIDHeader, id)
	return ctx, id
}
