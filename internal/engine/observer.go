package engine

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/envelope/internal/crypto/domain"
)

type operationIDKey struct{}

func withOperationID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, operationIDKey{}, id)
}

// OperationIDFromContext returns the engine operation ID carried by ctx, if any.
func OperationIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(operationIDKey{}).(uuid.UUID)
	return id, ok
}

// NewSlogObserver returns an Observer that writes status messages to logger at debug level.
func NewSlogObserver(logger *slog.Logger) cryptoDomain.Observer {
	return cryptoDomain.ObserverFunc(func(ctx context.Context, status string) {
		attrs := []slog.Attr{slog.String("status", status)}
		if id, ok := OperationIDFromContext(ctx); ok {
			attrs = append(attrs, slog.String("operation_id", id.String()))
		}
		logger.LogAttrs(ctx, slog.LevelDebug, "engine progress", attrs...)
	})
}
