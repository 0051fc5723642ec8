package interceptors

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/petcare-sagas/internal/pkg/interceptors/constants"
)

// WithRequestID stores the request ID in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
}

// WithIdempotencyKey stores the idempotency key of one logical remote call in ctx.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyIdempotencyKey, key)
}

// RequestIDFromContext returns the request ID carried by ctx, or "" if none.
func RequestIDFromContext(ctx context.Context) string {
	return GetMetadataValue(ctx, constants.HeaderXRequestId)
}

// IdempotencyKeyFromContext returns the idempotency key carried by ctx, or "" if none.
func IdempotencyKeyFromContext(ctx context.Context) string {
	return GetMetadataValue(ctx, constants.HeaderXIdempotencyKey)
}

// ContextWithPropagatedID appends the request ID and idempotency key found in
// ctx to its outgoing metadata. Empty values are not sent.
func ContextWithPropagatedID(ctx context.Context) context.Context {
	var kv []string
	if id := RequestIDFromContext(ctx); id != "" {
		kv = append(kv, constants.HeaderXRequestId, id)
	}
	if key := IdempotencyKeyFromContext(ctx); key != "" {
		kv = append(kv, constants.HeaderXIdempotencyKey, key)
	}
	if len(kv) == 0 {
		return ctx
	}
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	for i := 0; i < len(kv); i += 2 {
		md.Set(kv[i], kv[i+1])
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// GetMetadataValue looks key up in the context values first, then in the
// incoming and outgoing gRPC metadata.
func GetMetadataValue(ctx context.Context, key string) string {
	if id, ok := ctx.Value(contextKeyFor(key)).(string); ok && id != "" {
		return id
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}

	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}

func contextKeyFor(key string) any {
	switch key {
	case constants.HeaderXRequestId:
		return constants.ContextKeyRequestID
	case constants.HeaderXIdempotencyKey:
		return constants.ContextKeyIdempotencyKey
	case constants.HeaderXCredentialId:
		return constants.ContextKeyCredentialID
	default:
		return key
	}
}
