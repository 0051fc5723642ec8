package interceptors

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/petcare-sagas/internal/pkg/interceptors/constants"
)

// TraceServerInterceptor lifts the request ID and idempotency key from the
// incoming metadata into context values and logs the call.
//
// Command servers are stream based (see package command), so this is a
// stream interceptor.
func TraceServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		ctx := ss.Context()
		md, exist := metadata.FromIncomingContext(ctx)
		requestID := ""
		idempotencyID := ""
		if exist {
			if ids := md.Get(constants.HeaderXRequestId); len(ids) > 0 {
				requestID = ids[0]
			}

			if ids := md.Get(constants.HeaderXIdempotencyKey); len(ids) > 0 {
				idempotencyID = ids[0]
			}
		}
		newCtx := WithRequestID(ctx, requestID)
		newCtx = WithIdempotencyKey(newCtx, idempotencyID)

		slog.DebugContext(newCtx, "command received",
			"method", info.FullMethod,
			"idempotency_key", idempotencyID,
		)

		return handler(srv, &wrappedStream{ServerStream: ss, ctx: newCtx})
	}
}

type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context { return w.ctx }
