package middleware

import (
	"context"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

type callerKey struct{}

// WithCaller кладёт вызывающего в контекст запроса
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext вызывающий, установленный Auth
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(domain.Caller)
	return caller, ok
}
